package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epeers/frontier/internal/datasets"
	"github.com/epeers/frontier/internal/frontier"
	"github.com/epeers/frontier/internal/middleware"
	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/services"
	"github.com/epeers/frontier/internal/solver"
	"github.com/gin-gonic/gin"
)

// unreachableStore fails every call, like a Postgres store whose server is down.
type unreachableStore struct{}

var errUnreachable = errors.New("connection refused")

func (unreachableStore) GetByName(context.Context, string) (*models.Dataset, error) {
	return nil, errUnreachable
}

func (unreachableStore) List(context.Context) ([]models.DatasetListItem, error) {
	return nil, errUnreachable
}

func (unreachableStore) Save(context.Context, *models.Dataset) error {
	return errUnreachable
}

func setupRouter() *gin.Engine {
	return setupRouterWithStore(nil)
}

func setupRouterWithStore(store services.DatasetStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewFrontierService(store, solver.NewLagrangian(1000), services.FrontierConfig{})
	fh := NewFrontierHandler(svc)
	dh := NewDatasetHandler(svc)

	router := gin.New()
	router.Use(middleware.Trace())
	router.POST("/frontier", fh.Analyze)
	router.POST("/frontier/batch", fh.Batch)
	router.POST("/frontier/scan", fh.Scan)
	router.GET("/datasets", dh.List)
	router.GET("/datasets/:name", dh.Get)
	router.PUT("/datasets/:name", dh.Put)
	router.GET("/datasets/:name/frontier", dh.Analyze)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeHandler_Inline(t *testing.T) {
	router := setupRouter()
	w := doRequest(t, router, http.MethodPost, "/frontier", models.FrontierRequest{
		Assets:          []string{"MSFT", "WFC"},
		Volatilities:    []float64{0.0148179163612915, 0.0156460042577109},
		Covariance:      [][]float64{{0, 0.00011389576}, {0, 0}},
		ExpectedReturns: []float64{0.00074693549, 0.00062554756},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.FrontierResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MinVariance.Weights[0].Asset != "MSFT" {
		t.Errorf("expected asset labels to be echoed, got %+v", resp.MinVariance.Weights)
	}
	if resp.Tangency.Sharpe == nil {
		t.Errorf("expected a sharpe ratio for the tangency portfolio")
	}
}

func TestAnalyzeHandler_ErrorMapping(t *testing.T) {
	router := setupRouter()
	cases := []struct {
		name string
		body any
		code int
		err  string
	}{
		{"malformed json", "not an object", http.StatusBadRequest, "bad_request"},
		{"missing statistics", models.FrontierRequest{}, http.StatusBadRequest, "bad_request"},
		{"dimension mismatch", models.FrontierRequest{Volatilities: []float64{0.1, 0.2}, ExpectedReturns: []float64{0.1}}, http.StatusBadRequest, "bad_request"},
		{"unknown dataset", models.FrontierRequest{Dataset: "nope"}, http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/frontier", tc.body)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, w.Code, w.Body.String())
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if resp.Error != tc.err {
				t.Errorf("expected error %q, got %q", tc.err, resp.Error)
			}
		})
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrapped: %w", frontier.ErrInvalidWeights), http.StatusUnprocessableEntity},
		{solver.ErrRejectedInitial, http.StatusUnprocessableEntity},
		{services.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{frontier.ErrInvalidScan, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if code, _ := classifyError(tc.err); code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestDatasetHandlers(t *testing.T) {
	router := setupRouter()

	w := doRequest(t, router, http.MethodGet, "/datasets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list models.DatasetListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Datasets) != 2 || len(list.Warnings) != 0 {
		t.Errorf("expected the 2 built-in datasets and no warnings, got %+v", list)
	}

	w = doRequest(t, router, http.MethodGet, "/datasets/"+datasets.TenStocks, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/datasets/"+datasets.MSFTvsWFC+"/frontier?long_only=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.FrontierResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.LongOnly {
		t.Errorf("expected long_only to be honored")
	}

	w = doRequest(t, router, http.MethodGet, "/datasets/"+datasets.MSFTvsWFC+"/frontier?long_only=maybe", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed flag, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPut, "/datasets/pair", models.DatasetRequest{
		Assets:          []string{"A", "B"},
		Volatilities:    []float64{0.1, 0.2},
		Covariance:      [][]float64{{0, 0.01}, {0, 0}},
		ExpectedReturns: []float64{0.001, 0.002},
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a dataset store, got %d", w.Code)
	}
}

func TestBatchHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(t, router, http.MethodPost, "/frontier/batch", models.BatchRequest{
		Analyses: []models.FrontierRequest{
			{Dataset: datasets.MSFTvsWFC},
			{Dataset: "nope"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.BatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Succeeded != 1 || resp.Failed != 1 {
		t.Errorf("expected 1 success and 1 failure, got %+v", resp)
	}
	if resp.Results[1].Error == nil || resp.Results[1].Error.Error != "not_found" {
		t.Errorf("expected not_found for the unknown dataset, got %+v", resp.Results[1])
	}

	w = doRequest(t, router, http.MethodPost, "/frontier/batch", models.BatchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty batch, got %d", w.Code)
	}
}

func TestScanHandler(t *testing.T) {
	router := setupRouter()
	w := doRequest(t, router, http.MethodPost, "/frontier/scan", models.ScanRequest{
		Dataset: datasets.MSFTvsWFC, From: 0.55, To: 0.60, Steps: 6,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Points) != 6 {
		t.Errorf("expected 6 points, got %d", len(resp.Points))
	}

	w = doRequest(t, router, http.MethodPost, "/frontier/scan", models.ScanRequest{
		Dataset: datasets.MSFTvsWFC, From: 0.6, To: 0.5, Steps: 6,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a reversed range, got %d", w.Code)
	}
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Trace())
	router.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"traced": services.TraceEnabled(c.Request.Context())})
	})

	for header, want := range map[string]bool{"": false, "1": true, "true": true, "0": false} {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if header != "" {
			req.Header.Set(middleware.TraceHeader, header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var got map[string]bool
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode probe: %v", err)
		}
		if got["traced"] != want {
			t.Errorf("header %q: expected traced=%v, got %v", header, want, got)
		}
	}
}

func TestDatasetHandlers_StoreFailureWarnings(t *testing.T) {
	router := setupRouterWithStore(unreachableStore{})

	w := doRequest(t, router, http.MethodGet, "/datasets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var list models.DatasetListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Datasets) != 2 {
		t.Errorf("expected the built-in datasets, got %v", list.Datasets)
	}
	if len(list.Warnings) != 1 || list.Warnings[0].Code != models.WarnDatasetStoreFailed {
		t.Errorf("expected a %s warning, got %v", models.WarnDatasetStoreFailed, list.Warnings)
	}

	w = doRequest(t, router, http.MethodGet, "/datasets/"+datasets.TenStocks, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ds models.Dataset
	if err := json.Unmarshal(w.Body.Bytes(), &ds); err != nil {
		t.Fatalf("failed to decode dataset: %v", err)
	}
	if ds.Source != models.DatasetSourceBuiltin {
		t.Errorf("expected the built-in dataset, got source %q", ds.Source)
	}
	if len(ds.Warnings) != 1 || ds.Warnings[0].Code != models.WarnDatasetStoreFailed {
		t.Errorf("expected a %s warning, got %v", models.WarnDatasetStoreFailed, ds.Warnings)
	}
}

func TestAnalyzeHandler_RisklessAssetReturnsBothPortfolios(t *testing.T) {
	router := setupRouter()
	w := doRequest(t, router, http.MethodPost, "/frontier", models.FrontierRequest{
		Volatilities:    []float64{0.02, 0},
		Covariance:      [][]float64{{0, 0}, {0, 0}},
		ExpectedReturns: []float64{0.001, 0.0002},
		LongOnly:        true,
		InitialWeights:  []float64{0, 1},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.FrontierResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.MinVariance.Weights) != 2 || resp.MinVariance.Weights[1].Weight < 0.999 {
		t.Errorf("expected the riskless asset to dominate the minimum-variance portfolio, got %+v", resp.MinVariance.Weights)
	}
	if len(resp.Tangency.Weights) != 2 {
		t.Errorf("expected tangency weights, got %+v", resp.Tangency)
	}
}
