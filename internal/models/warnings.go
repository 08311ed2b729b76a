package models

// WarningCode categorizes warnings by subsystem.
// W5xxx = frontier analysis.
type WarningCode string

const (
	WarnNonConvergence     WarningCode = "W5001" // optimizer stopped before meeting its tolerance; result is the last iterate
	WarnUndefinedSharpe    WarningCode = "W5002" // zero standard deviation at the optimum; sharpe omitted
	WarnDatasetStoreFailed WarningCode = "W5003" // dataset store lookup failed; built-in dataset served instead
	WarnAnalyticMismatch   WarningCode = "W5004" // unconstrained optimum differs from the closed-form solution
	WarnSingularCovariance WarningCode = "W5005" // covariance not positive definite; optimum may not be unique
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
