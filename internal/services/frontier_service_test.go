package services

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/epeers/frontier/internal/datasets"
	"github.com/epeers/frontier/internal/frontier"
	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/repository"
	"github.com/epeers/frontier/internal/solver"
)

type fakeStore struct {
	datasets map[string]*models.Dataset
	err      error
	saved    []*models.Dataset
}

func (f *fakeStore) GetByName(ctx context.Context, name string) (*models.Dataset, error) {
	if f.err != nil {
		return nil, f.err
	}
	ds, ok := f.datasets[name]
	if !ok {
		return nil, repository.ErrDatasetNotFound
	}
	return ds, nil
}

func (f *fakeStore) List(ctx context.Context) ([]models.DatasetListItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var items []models.DatasetListItem
	for name, ds := range f.datasets {
		items = append(items, models.DatasetListItem{Name: name, Assets: len(ds.Assets), Source: models.DatasetSourceStore})
	}
	return items, nil
}

func (f *fakeStore) Save(ctx context.Context, ds *models.Dataset) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, ds)
	return nil
}

// flaggingMinimizer returns the initial guess unconverged.
type flaggingMinimizer struct{ calls atomic.Int32 }

func (m *flaggingMinimizer) Minimize(p solver.Problem) (*solver.Result, error) {
	m.calls.Add(1)
	v, _ := p.Objective(p.Initial)
	return &solver.Result{X: p.Initial, Value: v, Converged: false, Iterations: 1000, Status: "IterationLimit"}, nil
}

func newTestService(store DatasetStore) *FrontierService {
	return NewFrontierService(store, solver.NewLagrangian(1000), FrontierConfig{})
}

func hasWarning(warnings []models.Warning, code models.WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestAnalyze_InlineTwoAsset(t *testing.T) {
	svc := newTestService(nil)
	ctx, wc := NewWarningContext(context.Background())

	resp, err := svc.Analyze(ctx, &models.FrontierRequest{
		Volatilities:    []float64{0.0148179163612915, 0.0156460042577109},
		Covariance:      [][]float64{{0, 0.00011389576}, {0, 0}},
		ExpectedReturns: []float64{0.00074693549, 0.00062554756},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Assets[0] != "asset_1" || resp.Assets[1] != "asset_2" {
		t.Errorf("expected generated asset labels, got %v", resp.Assets)
	}
	if w := resp.MinVariance.Weights[0].Weight; math.Abs(w-0.5533163606603704) > 1e-4 {
		t.Errorf("expected minimum-variance w1 ≈ 0.55332, got %.6f", w)
	}
	mv := resp.MinVariance
	if mv.MeanPercent != mv.Mean*100 || mv.StdDevPercent != mv.StdDev*100 {
		t.Errorf("expected percentage fields to be fractions times 100: %+v", mv)
	}
	if !mv.Optimizer.Converged || mv.Optimizer.Objective == nil {
		t.Errorf("expected converged optimizer report, got %+v", mv.Optimizer)
	}
	if resp.Tangency.Sharpe == nil || *resp.Tangency.Sharpe < 0.0533 {
		t.Errorf("expected tangency sharpe ≈ 0.05335, got %v", resp.Tangency.Sharpe)
	}
	if len(wc.GetWarnings()) != 0 {
		t.Errorf("expected no warnings, got %v", wc.GetWarnings())
	}
}

func TestAnalyze_TenStocksPassesAnalyticCrossCheck(t *testing.T) {
	svc := newTestService(nil)
	ctx, wc := NewWarningContext(context.Background())

	resp, err := svc.AnalyzeDataset(ctx, datasets.TenStocks, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Dataset != datasets.TenStocks || len(resp.Assets) != 10 {
		t.Errorf("unexpected response header: %s %v", resp.Dataset, resp.Assets)
	}
	if hasWarning(wc.GetWarnings(), models.WarnAnalyticMismatch) {
		t.Errorf("expected optimizer to agree with the closed form, got %v", wc.GetWarnings())
	}
}

func TestAnalyze_NonConvergenceWarns(t *testing.T) {
	m := &flaggingMinimizer{}
	svc := NewFrontierService(nil, m, FrontierConfig{})
	ctx, wc := NewWarningContext(context.Background())

	resp, err := svc.AnalyzeDataset(ctx, datasets.MSFTvsWFC, false, false)
	if err != nil {
		t.Fatalf("expected flagged result, got error: %v", err)
	}
	if resp.MinVariance.Optimizer.Converged {
		t.Errorf("expected non-converged report")
	}
	if !hasWarning(wc.GetWarnings(), models.WarnNonConvergence) {
		t.Errorf("expected %s warning, got %v", models.WarnNonConvergence, wc.GetWarnings())
	}
	if m.calls.Load() != 2 {
		t.Errorf("expected 2 searches, got %d", m.calls.Load())
	}
}

func TestAnalyze_UndefinedSharpeWarns(t *testing.T) {
	svc := NewFrontierService(nil, &flaggingMinimizer{}, FrontierConfig{})
	ctx, wc := NewWarningContext(context.Background())

	// Equal weights are a perfect hedge, so the ratio is undefined at the start.
	_, err := svc.Analyze(ctx, &models.FrontierRequest{
		Volatilities:    []float64{0.5, 0.5},
		Covariance:      [][]float64{{0, -0.25}, {0, 0}},
		ExpectedReturns: []float64{0.01, 0.02},
		Reduced:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasWarning(wc.GetWarnings(), models.WarnUndefinedSharpe) {
		t.Errorf("expected %s warning, got %v", models.WarnUndefinedSharpe, wc.GetWarnings())
	}
}

func TestAnalyze_Validation(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.FrontierRequest
		want error
	}{
		{"empty", models.FrontierRequest{}, ErrInvalidRequest},
		{"dataset and inline", models.FrontierRequest{Dataset: datasets.MSFTvsWFC, Volatilities: []float64{0.1}}, ErrInvalidRequest},
		{"label count", models.FrontierRequest{Assets: []string{"A"}, Volatilities: []float64{0.1, 0.2},
			Covariance: [][]float64{{0, 0}, {0, 0}}, ExpectedReturns: []float64{0, 0}}, frontier.ErrDimensionMismatch},
		{"short returns", models.FrontierRequest{Volatilities: []float64{0.1, 0.2},
			Covariance: [][]float64{{0, 0}, {0, 0}}, ExpectedReturns: []float64{0}}, frontier.ErrDimensionMismatch},
		{"initial guess", models.FrontierRequest{Dataset: datasets.MSFTvsWFC, InitialWeights: []float64{1}}, frontier.ErrDimensionMismatch},
		{"unknown dataset", models.FrontierRequest{Dataset: "nope"}, ErrDatasetNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Analyze(ctx, &tc.req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAnalyzeBatch_KeepsOrderAndIsolatesFailures(t *testing.T) {
	svc := NewFrontierService(nil, solver.NewLagrangian(1000), FrontierConfig{BatchConcurrency: 2})
	reqs := []models.FrontierRequest{
		{Dataset: datasets.MSFTvsWFC},
		{Dataset: "nope"},
		{Dataset: datasets.TenStocks, LongOnly: true},
	}

	outcomes, err := svc.AnalyzeBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[0].Response.Dataset != datasets.MSFTvsWFC {
		t.Errorf("outcome 0: unexpected %+v", outcomes[0])
	}
	if !errors.Is(outcomes[1].Err, ErrDatasetNotFound) {
		t.Errorf("outcome 1: expected ErrDatasetNotFound, got %v", outcomes[1].Err)
	}
	if outcomes[2].Err != nil || !outcomes[2].Response.LongOnly {
		t.Errorf("outcome 2: unexpected %+v", outcomes[2])
	}
}

func TestAnalyzeBatch_CancelledContext(t *testing.T) {
	svc := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.AnalyzeBatch(ctx, []models.FrontierRequest{{Dataset: datasets.MSFTvsWFC}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestScan_FindsMinimumNearClosedForm(t *testing.T) {
	svc := newTestService(nil)
	resp, err := svc.Scan(context.Background(), &models.ScanRequest{Dataset: datasets.MSFTvsWFC, From: 0.55, To: 0.60, Steps: 51})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Points) != 51 {
		t.Fatalf("expected 51 points, got %d", len(resp.Points))
	}
	if math.Abs(resp.Minimum.Weight-0.5533) > 1e-3 {
		t.Errorf("expected minimum near 0.5533, got %g", resp.Minimum.Weight)
	}

	_, err = svc.Scan(context.Background(), &models.ScanRequest{Dataset: datasets.TenStocks, From: 0, To: 1, Steps: 3})
	if !errors.Is(err, frontier.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch scanning ten assets, got %v", err)
	}
	_, err = svc.Scan(context.Background(), &models.ScanRequest{Dataset: datasets.MSFTvsWFC, From: 0, To: 1, Steps: maxScanSteps + 1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for too many steps, got %v", err)
	}
}

func TestGetDataset_StorePrecedenceAndFallback(t *testing.T) {
	stored := &models.Dataset{Name: datasets.MSFTvsWFC, Source: models.DatasetSourceStore}
	svc := newTestService(&fakeStore{datasets: map[string]*models.Dataset{datasets.MSFTvsWFC: stored}})

	ds, err := svc.GetDataset(context.Background(), datasets.MSFTvsWFC)
	if err != nil || ds != stored {
		t.Errorf("expected stored dataset to shadow the built-in, got %+v, %v", ds, err)
	}
	ds, err = svc.GetDataset(context.Background(), datasets.TenStocks)
	if err != nil || ds.Source != models.DatasetSourceBuiltin {
		t.Errorf("expected built-in fallback on store miss, got %+v, %v", ds, err)
	}

	broken := newTestService(&fakeStore{err: errors.New("connection refused")})
	ctx, wc := NewWarningContext(context.Background())
	ds, err = broken.GetDataset(ctx, datasets.TenStocks)
	if err != nil || ds.Source != models.DatasetSourceBuiltin {
		t.Errorf("expected built-in fallback on store failure, got %+v, %v", ds, err)
	}
	if !hasWarning(wc.GetWarnings(), models.WarnDatasetStoreFailed) {
		t.Errorf("expected %s warning, got %v", models.WarnDatasetStoreFailed, wc.GetWarnings())
	}
	if _, err := broken.GetDataset(ctx, "nope"); err == nil || errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected the store failure to surface for unknown names, got %v", err)
	}
}

func TestListDatasets_MergesStoreAndBuiltins(t *testing.T) {
	svc := newTestService(&fakeStore{datasets: map[string]*models.Dataset{
		"custom": {Name: "custom", Assets: []string{"A", "B", "C"}},
	}})
	items, err := svc.ListDatasets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 datasets, got %v", items)
	}
	if items[0].Name != "custom" || items[0].Source != models.DatasetSourceStore || items[0].Assets != 3 {
		t.Errorf("unexpected first item %+v", items[0])
	}
}

func TestSaveDataset(t *testing.T) {
	req := &models.DatasetRequest{
		Assets:          []string{"A", "B"},
		Volatilities:    []float64{0.1, 0.2},
		Covariance:      [][]float64{{0.3, 0.01}, {0.01, 0.3}},
		ExpectedReturns: []float64{0.001, 0.002},
	}

	if _, err := newTestService(nil).SaveDataset(context.Background(), "pair", req); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable without a store, got %v", err)
	}

	store := &fakeStore{}
	svc := newTestService(store)
	ds, err := svc.SaveDataset(context.Background(), " pair ", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Name != "pair" || len(store.saved) != 1 {
		t.Errorf("expected dataset to be saved as %q, got %+v", "pair", ds)
	}
	if ds.Covariance[0][0] != 0 || ds.Covariance[1][0] != 0 || ds.Covariance[0][1] != 0.01 {
		t.Errorf("expected only the upper triangle to be kept, got %v", ds.Covariance)
	}

	req.Assets = []string{"A"}
	if _, err := svc.SaveDataset(context.Background(), "pair", req); !errors.Is(err, frontier.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for missing labels, got %v", err)
	}
}
