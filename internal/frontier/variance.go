package frontier

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Option configures objective construction.
type Option func(*objectiveConfig)

type objectiveConfig struct {
	reduced     bool
	diagnostics *log.Entry
}

// WithReducedWeights makes objectives take N-1 free weights; the last weight
// is implied as 1 minus their sum. With two assets this is the w2 = 1 - w1
// convention.
func WithReducedWeights() Option {
	return func(c *objectiveConfig) { c.reduced = true }
}

// WithDiagnostics logs the own-variance and cross-covariance terms of every
// evaluation at debug level. Returned values are unaffected.
func WithDiagnostics(entry *log.Entry) Option {
	return func(c *objectiveConfig) { c.diagnostics = entry }
}

func buildConfig(opts []Option) objectiveConfig {
	var cfg objectiveConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// VarianceObjective evaluates portfolio variance
//
//	Σ x_i² o_i² + Σ_{i<j} 2 x_i x_j cov[i,j]
//
// for weight vectors that need not sum to one.
type VarianceObjective struct {
	stats       *PortfolioStatistics
	reduced     bool
	diagnostics *log.Entry
}

// NewVarianceObjective creates a VarianceObjective over stats.
func NewVarianceObjective(stats *PortfolioStatistics, opts ...Option) (*VarianceObjective, error) {
	if stats == nil {
		return nil, fmt.Errorf("%w: statistics are nil", ErrInvalidStatistics)
	}
	cfg := buildConfig(opts)
	return &VarianceObjective{
		stats:       stats,
		reduced:     cfg.reduced,
		diagnostics: cfg.diagnostics,
	}, nil
}

// NewTwoAssetVariance returns the single-parameter two-asset form: the
// objective takes []float64{w1} and uses w2 = 1 - w1.
func NewTwoAssetVariance(o1, o2, cov float64) (*VarianceObjective, error) {
	stats, err := NewTwoAssetStatistics(o1, o2, cov, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return NewVarianceObjective(stats, WithReducedWeights())
}

// Dimension is the length of the vectors the objective accepts.
func (v *VarianceObjective) Dimension() int {
	if v.reduced {
		return v.stats.N() - 1
	}
	return v.stats.N()
}

// Reduced reports whether the objective takes N-1 free weights.
func (v *VarianceObjective) Reduced() bool { return v.reduced }

// Weights expands x into a full weight vector of length N.
func (v *VarianceObjective) Weights(x []float64) ([]float64, error) {
	if len(x) != v.Dimension() {
		return nil, fmt.Errorf("%w: got %d weights, want %d", ErrDimensionMismatch, len(x), v.Dimension())
	}
	if !v.reduced {
		return append([]float64(nil), x...), nil
	}
	return ExpandWeights(x), nil
}

// ExpandWeights appends the implied last weight 1 - Σ free.
func ExpandWeights(free []float64) []float64 {
	w := make([]float64, len(free)+1)
	copy(w, free)
	w[len(free)] = 1 - floats.Sum(free)
	return w
}

// Variance evaluates the objective at x.
func (v *VarianceObjective) Variance(x []float64) (float64, error) {
	w, err := v.Weights(x)
	if err != nil {
		return 0, err
	}
	return v.full(w), nil
}

// StdDev is the square root of Variance. A negative variance, which only an
// inconsistent covariance input can produce, is reported as ErrInvalidStatistics.
func (v *VarianceObjective) StdDev(x []float64) (float64, error) {
	variance, err := v.Variance(x)
	if err != nil {
		return 0, err
	}
	if variance < 0 {
		return 0, fmt.Errorf("%w: negative portfolio variance %g", ErrInvalidStatistics, variance)
	}
	return math.Sqrt(variance), nil
}

// full evaluates the variance of a length-N weight vector.
func (v *VarianceObjective) full(w []float64) float64 {
	o := v.stats.volatility
	var own, cross float64
	for i := range w {
		own += w[i] * w[i] * o[i] * o[i]
	}
	for i := range w {
		for j := i + 1; j < len(w); j++ {
			cross += 2 * w[i] * w[j] * v.stats.covariance[i][j]
		}
	}
	if v.diagnostics != nil {
		v.diagnostics.WithFields(log.Fields{
			"own":      own,
			"cross":    cross,
			"variance": own + cross,
		}).Debug("portfolio variance terms")
	}
	return own + cross
}
