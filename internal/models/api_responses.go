package models

// FrontierRequest is the body of POST /frontier. Statistics come either from
// the inline fields or, when Dataset is set, from a stored or built-in dataset.
type FrontierRequest struct {
	Dataset         string      `json:"dataset,omitempty"`
	Assets          []string    `json:"assets,omitempty"`
	Volatilities    []float64   `json:"volatilities,omitempty"`
	Covariance      [][]float64 `json:"covariance,omitempty"`
	ExpectedReturns []float64   `json:"expected_returns,omitempty"`
	RiskFreeRate    float64     `json:"risk_free_rate"`
	LongOnly        bool        `json:"long_only"`
	Reduced         bool        `json:"reduced"`
	InitialWeights  []float64   `json:"initial_weights,omitempty"`
}

// FrontierResponse reports the minimum-variance and tangency portfolios
type FrontierResponse struct {
	Dataset     string          `json:"dataset,omitempty"`
	Assets      []string        `json:"assets"`
	LongOnly    bool            `json:"long_only"`
	Reduced     bool            `json:"reduced"`
	MinVariance PortfolioReport `json:"min_variance"`
	Tangency    PortfolioReport `json:"tangency"`
	Warnings    []Warning       `json:"warnings,omitempty"`
}

// PortfolioReport is one optimized allocation. Mean and StdDev are daily
// fractions; the *Percent fields are the same values times 100.
type PortfolioReport struct {
	Weights       []AssetWeight   `json:"weights"`
	Mean          float64         `json:"mean"`
	MeanPercent   float64         `json:"mean_percent"`
	StdDev        float64         `json:"stdev"`
	StdDevPercent float64         `json:"stdev_percent"`
	Sharpe        *float64        `json:"sharpe"`
	Optimizer     OptimizerReport `json:"optimizer"`
}

// AssetWeight is the allocation to a single asset
type AssetWeight struct {
	Asset  string  `json:"asset"`
	Weight float64 `json:"weight"`
}

// OptimizerReport carries the optimizer diagnostics for one search
type OptimizerReport struct {
	Converged   bool     `json:"converged"`
	Objective   *float64 `json:"objective"`
	Iterations  int      `json:"iterations"`
	Evaluations int      `json:"evaluations"`
	Status      string   `json:"status"`
}

// BatchRequest is the body of POST /frontier/batch
type BatchRequest struct {
	Analyses []FrontierRequest `json:"analyses" binding:"required,min=1"`
}

// BatchResult is the outcome of one analysis in a batch. Exactly one of
// Frontier and Error is set.
type BatchResult struct {
	Index    int               `json:"index"`
	Frontier *FrontierResponse `json:"frontier,omitempty"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}

// BatchResponse is the response of POST /frontier/batch
type BatchResponse struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// ScanRequest is the body of POST /frontier/scan. The two-asset statistics
// come from Dataset or from the inline fields.
type ScanRequest struct {
	Dataset         string      `json:"dataset,omitempty"`
	Volatilities    []float64   `json:"volatilities,omitempty"`
	Covariance      [][]float64 `json:"covariance,omitempty"`
	ExpectedReturns []float64   `json:"expected_returns,omitempty"`
	RiskFreeRate    float64     `json:"risk_free_rate"`
	From            float64     `json:"from"`
	To              float64     `json:"to"`
	Steps           int         `json:"steps" binding:"required,min=2"`
}

// ScanPoint is the evaluation of one two-asset allocation
type ScanPoint struct {
	Weight        float64  `json:"weight"`
	Variance      float64  `json:"variance"`
	StdDev        float64  `json:"stdev"`
	StdDevPercent float64  `json:"stdev_percent"`
	Mean          float64  `json:"mean"`
	MeanPercent   float64  `json:"mean_percent"`
	Sharpe        *float64 `json:"sharpe"`
}

// ScanResponse is the response of POST /frontier/scan
type ScanResponse struct {
	Dataset string      `json:"dataset,omitempty"`
	Points  []ScanPoint `json:"points"`
	Minimum ScanPoint   `json:"minimum"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
