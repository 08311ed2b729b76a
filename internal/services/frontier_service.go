package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/epeers/frontier/internal/datasets"
	"github.com/epeers/frontier/internal/frontier"
	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/repository"
	"github.com/epeers/frontier/internal/solver"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrStoreUnavailable = errors.New("dataset store is not configured")
	ErrInvalidRequest   = errors.New("invalid request")
)

const (
	defaultBatchConcurrency = 4
	maxScanSteps            = 10001
	// analyticTolerance is the largest per-weight gap between the optimizer and
	// the closed-form unconstrained minimum before a warning is raised.
	analyticTolerance = 1e-3
)

// DatasetStore persists named datasets
type DatasetStore interface {
	GetByName(ctx context.Context, name string) (*models.Dataset, error)
	List(ctx context.Context) ([]models.DatasetListItem, error)
	Save(ctx context.Context, ds *models.Dataset) error
}

// FrontierConfig tunes the analyses run by FrontierService
type FrontierConfig struct {
	VarianceTolerance float64
	SharpeTolerance   float64
	Trace             bool
	BatchConcurrency  int
}

// FrontierService runs frontier analyses and manages the datasets they read
type FrontierService struct {
	store     DatasetStore
	minimizer solver.Minimizer
	cfg       FrontierConfig
}

// NewFrontierService creates a new FrontierService. store may be nil, in which
// case only the built-in datasets are available.
func NewFrontierService(store DatasetStore, minimizer solver.Minimizer, cfg FrontierConfig) *FrontierService {
	return &FrontierService{
		store:     store,
		minimizer: minimizer,
		cfg:       cfg,
	}
}

// BatchOutcome is the result of one analysis in AnalyzeBatch
type BatchOutcome struct {
	Response *models.FrontierResponse
	Err      error
}

// Analyze computes the minimum-variance and tangency portfolios for req.
// Warnings are reported through the WarningCollector in ctx.
func (s *FrontierService) Analyze(ctx context.Context, req *models.FrontierRequest) (*models.FrontierResponse, error) {
	defer TrackTime("Analyze", time.Now())

	ds, err := s.resolveDataset(ctx, req.Dataset, models.Dataset{
		Assets:          req.Assets,
		Volatilities:    req.Volatilities,
		Covariance:      req.Covariance,
		ExpectedReturns: req.ExpectedReturns,
		RiskFreeRate:    req.RiskFreeRate,
	})
	if err != nil {
		return nil, err
	}

	stats, err := frontier.NewPortfolioStatistics(ds.Volatilities, ds.Covariance, ds.ExpectedReturns, ds.RiskFreeRate)
	if err != nil {
		return nil, err
	}
	assets, err := assetLabels(ds.Assets, stats.N())
	if err != nil {
		return nil, err
	}

	opts := frontier.Options{
		VarianceTolerance: s.cfg.VarianceTolerance,
		SharpeTolerance:   s.cfg.SharpeTolerance,
		Reduced:           req.Reduced,
	}
	if s.cfg.Trace || TraceEnabled(ctx) {
		opts.Diagnostics = log.WithFields(log.Fields{"dataset": ds.Name, "assets": stats.N()})
	}

	result, err := frontier.NewSolver(s.minimizer, opts).Solve(stats, req.LongOnly, req.InitialWeights)
	if err != nil {
		return nil, err
	}

	checkPortfolio(ctx, "minimum-variance", &result.MinVariance)
	checkPortfolio(ctx, "tangency", &result.Tangency)
	if !req.LongOnly {
		crossCheck(ctx, stats, &result.MinVariance)
	}

	return &models.FrontierResponse{
		Dataset:     ds.Name,
		Assets:      assets,
		LongOnly:    result.LongOnly,
		Reduced:     result.Reduced,
		MinVariance: buildReport(&result.MinVariance, assets),
		Tangency:    buildReport(&result.Tangency, assets),
	}, nil
}

// AnalyzeDataset analyzes a stored or built-in dataset by name
func (s *FrontierService) AnalyzeDataset(ctx context.Context, name string, longOnly, reduced bool) (*models.FrontierResponse, error) {
	return s.Analyze(ctx, &models.FrontierRequest{
		Dataset:  name,
		LongOnly: longOnly,
		Reduced:  reduced,
	})
}

// AnalyzeBatch runs independent analyses concurrently. A failed analysis is
// reported in its outcome; only cancellation of ctx fails the batch.
func (s *FrontierService) AnalyzeBatch(ctx context.Context, reqs []models.FrontierRequest) ([]BatchOutcome, error) {
	defer TrackTime("AnalyzeBatch", time.Now())

	outcomes := make([]BatchOutcome, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency())

	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			warnCtx, wc := NewWarningContext(gctx)
			resp, err := s.Analyze(warnCtx, &reqs[i])
			if resp != nil {
				resp.Warnings = wc.GetWarnings()
			}
			outcomes[i] = BatchOutcome{Response: resp, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	return outcomes, nil
}

// Scan evaluates a two-asset weight grid
func (s *FrontierService) Scan(ctx context.Context, req *models.ScanRequest) (*models.ScanResponse, error) {
	defer TrackTime("Scan", time.Now())

	if req.Steps > maxScanSteps {
		return nil, fmt.Errorf("%w: at most %d steps allowed, got %d", ErrInvalidRequest, maxScanSteps, req.Steps)
	}
	ds, err := s.resolveDataset(ctx, req.Dataset, models.Dataset{
		Volatilities:    req.Volatilities,
		Covariance:      req.Covariance,
		ExpectedReturns: req.ExpectedReturns,
		RiskFreeRate:    req.RiskFreeRate,
	})
	if err != nil {
		return nil, err
	}
	stats, err := frontier.NewPortfolioStatistics(ds.Volatilities, ds.Covariance, ds.ExpectedReturns, ds.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	grid, err := frontier.ScanTwoAsset(stats, req.From, req.To, req.Steps)
	if err != nil {
		return nil, err
	}

	resp := &models.ScanResponse{
		Dataset: ds.Name,
		Points:  make([]models.ScanPoint, len(grid)),
	}
	for i, p := range grid {
		resp.Points[i] = models.ScanPoint{
			Weight:        p.Weight,
			Variance:      p.Variance,
			StdDev:        p.StdDev,
			StdDevPercent: p.StdDev * 100,
			Mean:          p.Mean,
			MeanPercent:   p.Mean * 100,
			Sharpe:        p.Sharpe,
		}
		if i == 0 || p.Variance < resp.Minimum.Variance {
			resp.Minimum = resp.Points[i]
		}
	}
	return resp, nil
}

// GetDataset looks name up in the store first and falls back to the built-in
// datasets.
func (s *FrontierService) GetDataset(ctx context.Context, name string) (*models.Dataset, error) {
	var storeErr error
	if s.store != nil {
		ds, err := s.store.GetByName(ctx, name)
		if err == nil {
			return ds, nil
		}
		if !errors.Is(err, repository.ErrDatasetNotFound) {
			storeErr = err
			log.Warnf("dataset store lookup for %q failed: %v", name, err)
		}
	}

	if ds, ok := datasets.Get(name); ok {
		if storeErr != nil {
			AddWarning(ctx, models.Warning{
				Code:    models.WarnDatasetStoreFailed,
				Message: fmt.Sprintf("dataset store unavailable; serving built-in dataset %q", name),
			})
		}
		return ds, nil
	}
	if storeErr != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", storeErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
}

// ListDatasets returns built-in and stored datasets sorted by name. A stored
// dataset shadows a built-in one of the same name.
func (s *FrontierService) ListDatasets(ctx context.Context) ([]models.DatasetListItem, error) {
	byName := make(map[string]models.DatasetListItem)
	for _, name := range datasets.Names() {
		ds, _ := datasets.Get(name)
		byName[name] = models.DatasetListItem{
			Name:        ds.Name,
			Description: ds.Description,
			Assets:      len(ds.Assets),
			Source:      ds.Source,
		}
	}

	if s.store != nil {
		stored, err := s.store.List(ctx)
		if err != nil {
			log.Warnf("failed to list stored datasets: %v", err)
			AddWarning(ctx, models.Warning{
				Code:    models.WarnDatasetStoreFailed,
				Message: "dataset store unavailable; listing built-in datasets only",
			})
		}
		for _, item := range stored {
			byName[item.Name] = item
		}
	}

	items := make([]models.DatasetListItem, 0, len(byName))
	for _, item := range byName {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// SaveDataset validates and stores a dataset under name
func (s *FrontierService) SaveDataset(ctx context.Context, name string, req *models.DatasetRequest) (*models.Dataset, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: dataset name is required", ErrInvalidRequest)
	}

	stats, err := frontier.NewPortfolioStatistics(req.Volatilities, req.Covariance, req.ExpectedReturns, req.RiskFreeRate)
	if err != nil {
		return nil, err
	}
	if len(req.Assets) != stats.N() {
		return nil, fmt.Errorf("%w: %d asset labels for %d assets", frontier.ErrDimensionMismatch, len(req.Assets), stats.N())
	}

	ds := &models.Dataset{
		Name:            name,
		Description:     req.Description,
		Assets:          req.Assets,
		Volatilities:    stats.Volatility(),
		Covariance:      stats.CovarianceMatrix(),
		ExpectedReturns: stats.ExpectedReturns(),
		RiskFreeRate:    stats.RiskFreeRate(),
	}
	if err := s.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}
	return ds, nil
}

func (s *FrontierService) resolveDataset(ctx context.Context, name string, inline models.Dataset) (*models.Dataset, error) {
	hasInline := len(inline.Volatilities) > 0 || len(inline.Covariance) > 0 || len(inline.ExpectedReturns) > 0
	if name != "" {
		if hasInline {
			return nil, fmt.Errorf("%w: dataset and inline statistics are mutually exclusive", ErrInvalidRequest)
		}
		return s.GetDataset(ctx, name)
	}
	if len(inline.Volatilities) == 0 {
		return nil, fmt.Errorf("%w: volatilities are required", ErrInvalidRequest)
	}
	return &inline, nil
}

func (s *FrontierService) batchConcurrency() int {
	if s.cfg.BatchConcurrency > 0 {
		return s.cfg.BatchConcurrency
	}
	return defaultBatchConcurrency
}

func assetLabels(labels []string, n int) ([]string, error) {
	if len(labels) == 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("asset_%d", i+1)
		}
		return out, nil
	}
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d asset labels for %d assets", frontier.ErrDimensionMismatch, len(labels), n)
	}
	return append([]string(nil), labels...), nil
}

func checkPortfolio(ctx context.Context, name string, p *frontier.Portfolio) {
	if !p.Converged() {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnNonConvergence,
			Message: fmt.Sprintf("%s search did not converge: %v", name, p.Err()),
		})
	}
	if p.SharpeErr != nil {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnUndefinedSharpe,
			Message: fmt.Sprintf("%s portfolio: %v", name, p.SharpeErr),
		})
	}
}

// crossCheck compares a converged unconstrained minimum-variance result with
// the closed-form Σ⁻¹1 / 1ᵀΣ⁻¹1.
func crossCheck(ctx context.Context, stats *frontier.PortfolioStatistics, p *frontier.Portfolio) {
	if !p.Converged() {
		return
	}
	want, err := frontier.AnalyticMinimumVariance(stats)
	if errors.Is(err, frontier.ErrSingularCovariance) {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnSingularCovariance,
			Message: "covariance matrix is not positive definite; the minimum-variance portfolio may not be unique",
		})
		return
	}
	if err != nil {
		log.Debugf("analytic cross-check skipped: %v", err)
		return
	}

	worst := 0.0
	for i := range want {
		worst = math.Max(worst, math.Abs(p.Weights[i]-want[i]))
	}
	if worst > analyticTolerance {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnAnalyticMismatch,
			Message: fmt.Sprintf("minimum-variance weights differ from the closed-form solution by up to %.2e", worst),
		})
	}
}

func buildReport(p *frontier.Portfolio, assets []string) models.PortfolioReport {
	weights := make([]models.AssetWeight, len(p.Weights))
	for i, w := range p.Weights {
		weights[i] = models.AssetWeight{Asset: assets[i], Weight: w}
	}

	report := models.PortfolioReport{
		Weights:       weights,
		Mean:          p.Mean,
		MeanPercent:   p.Mean * 100,
		StdDev:        p.StdDev,
		StdDevPercent: p.StdDev * 100,
		Sharpe:        p.Sharpe,
	}
	if res := p.Result; res != nil {
		report.Optimizer = models.OptimizerReport{
			Converged:   res.Converged,
			Iterations:  res.Iterations,
			Evaluations: res.Evaluations,
			Status:      res.Status,
		}
		if !math.IsNaN(res.Value) && !math.IsInf(res.Value, 0) {
			v := res.Value
			report.Optimizer.Objective = &v
		}
	}
	return report
}
