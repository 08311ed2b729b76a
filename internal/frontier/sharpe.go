package frontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SharpeObjective evaluates (x·r - rf) / sqrt(variance(x)) and its negation.
// The negation exists because the optimizer only minimizes.
type SharpeObjective struct {
	variance *VarianceObjective
	returns  []float64
	riskFree float64
}

// NewSharpeObjective creates a SharpeObjective over stats. Options are shared
// with the underlying VarianceObjective.
func NewSharpeObjective(stats *PortfolioStatistics, opts ...Option) (*SharpeObjective, error) {
	variance, err := NewVarianceObjective(stats, opts...)
	if err != nil {
		return nil, err
	}
	return &SharpeObjective{
		variance: variance,
		returns:  stats.returns,
		riskFree: stats.riskFree,
	}, nil
}

// NewTwoAssetSharpe returns the single-parameter two-asset form taking
// []float64{w1}.
func NewTwoAssetSharpe(r1, r2, riskFreeRate, o1, o2, cov float64) (*SharpeObjective, error) {
	stats, err := NewTwoAssetStatistics(o1, o2, cov, r1, r2, riskFreeRate)
	if err != nil {
		return nil, err
	}
	return NewSharpeObjective(stats, WithReducedWeights())
}

// Variance returns the VarianceObjective the ratio is built on.
func (s *SharpeObjective) Variance() *VarianceObjective { return s.variance }

// Mean is the expected portfolio return x·r.
func (s *SharpeObjective) Mean(x []float64) (float64, error) {
	w, err := s.variance.Weights(x)
	if err != nil {
		return 0, err
	}
	return floats.Dot(w, s.returns), nil
}

// Ratio evaluates the Sharpe ratio at x. Zero standard deviation yields
// ErrUndefinedRatio rather than an infinite or NaN value.
func (s *SharpeObjective) Ratio(x []float64) (float64, error) {
	w, err := s.variance.Weights(x)
	if err != nil {
		return 0, err
	}
	return s.ratio(w)
}

// Negated evaluates -Ratio(x).
func (s *SharpeObjective) Negated(x []float64) (float64, error) {
	r, err := s.Ratio(x)
	if err != nil {
		return 0, err
	}
	return -r, nil
}

func (s *SharpeObjective) ratio(w []float64) (float64, error) {
	variance := s.variance.full(w)
	if !(variance > 0) {
		return 0, fmt.Errorf("%w: variance %g", ErrUndefinedRatio, variance)
	}
	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0, fmt.Errorf("%w: variance %g", ErrUndefinedRatio, variance)
	}
	return (floats.Dot(w, s.returns) - s.riskFree) / stdev, nil
}
