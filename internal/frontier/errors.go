package frontier

import (
	"errors"

	"github.com/epeers/frontier/internal/solver"
)

var (
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrInvalidStatistics  = errors.New("invalid portfolio statistics")
	ErrUndefinedRatio     = errors.New("sharpe ratio undefined: portfolio standard deviation is zero")
	ErrInvalidWeights     = errors.New("optimal weights do not sum to one")
	ErrSingularCovariance = errors.New("covariance matrix is not positive definite")
	ErrInvalidScan        = errors.New("invalid scan range")

	// ErrNonConvergence is never returned by Solve; it backs Portfolio.Err for
	// callers that want an error value for a flagged result.
	ErrNonConvergence = solver.ErrNonConvergence
)
