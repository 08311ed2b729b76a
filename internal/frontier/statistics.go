package frontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PortfolioStatistics holds the per-asset inputs of one analysis. It is
// immutable once built; accessors hand out copies.
//
// The covariance matrix is read from its strict upper triangle only. Each
// asset's own variance comes from the volatility vector, so the stored
// diagonal and lower triangle are ignored.
type PortfolioStatistics struct {
	volatility []float64
	covariance [][]float64
	returns    []float64
	riskFree   float64
}

// NewPortfolioStatistics validates and copies the inputs. For a single asset
// the covariance matrix may be empty.
func NewPortfolioStatistics(volatility []float64, covariance [][]float64, expectedReturns []float64, riskFreeRate float64) (*PortfolioStatistics, error) {
	n := len(volatility)
	if n == 0 {
		return nil, fmt.Errorf("%w: no assets", ErrDimensionMismatch)
	}
	if len(expectedReturns) != n {
		return nil, fmt.Errorf("%w: %d expected returns for %d assets", ErrDimensionMismatch, len(expectedReturns), n)
	}
	if !(n == 1 && len(covariance) == 0) && len(covariance) != n {
		return nil, fmt.Errorf("%w: covariance has %d rows for %d assets", ErrDimensionMismatch, len(covariance), n)
	}
	for i, row := range covariance {
		if len(row) != n {
			return nil, fmt.Errorf("%w: covariance row %d has %d columns for %d assets", ErrDimensionMismatch, i, len(row), n)
		}
	}

	for i, o := range volatility {
		if math.IsNaN(o) || math.IsInf(o, 0) || o < 0 {
			return nil, fmt.Errorf("%w: volatility %d is %g", ErrInvalidStatistics, i, o)
		}
	}
	for i, r := range expectedReturns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: expected return %d is %g", ErrInvalidStatistics, i, r)
		}
	}
	for i := 0; i < len(covariance); i++ {
		for j := i + 1; j < n; j++ {
			if c := covariance[i][j]; math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("%w: covariance (%d,%d) is %g", ErrInvalidStatistics, i, j, c)
			}
		}
	}
	if math.IsNaN(riskFreeRate) || math.IsInf(riskFreeRate, 0) {
		return nil, fmt.Errorf("%w: risk-free rate is %g", ErrInvalidStatistics, riskFreeRate)
	}

	s := &PortfolioStatistics{
		volatility: append([]float64(nil), volatility...),
		returns:    append([]float64(nil), expectedReturns...),
		riskFree:   riskFreeRate,
		covariance: make([][]float64, n),
	}
	for i := range s.covariance {
		s.covariance[i] = make([]float64, n)
		if i < len(covariance) {
			copy(s.covariance[i], covariance[i])
		}
	}
	return s, nil
}

// NewTwoAssetStatistics builds statistics for a pair of assets.
func NewTwoAssetStatistics(o1, o2, cov, r1, r2, riskFreeRate float64) (*PortfolioStatistics, error) {
	return NewPortfolioStatistics(
		[]float64{o1, o2},
		[][]float64{{0, cov}, {cov, 0}},
		[]float64{r1, r2},
		riskFreeRate,
	)
}

// N is the number of assets.
func (s *PortfolioStatistics) N() int { return len(s.volatility) }

func (s *PortfolioStatistics) Volatility() []float64 {
	return append([]float64(nil), s.volatility...)
}

func (s *PortfolioStatistics) ExpectedReturns() []float64 {
	return append([]float64(nil), s.returns...)
}

func (s *PortfolioStatistics) RiskFreeRate() float64 { return s.riskFree }

// Covariance returns cov(asset i, asset j). Off-diagonal pairs are read from
// the upper triangle whatever the argument order; i == j yields the squared
// volatility.
func (s *PortfolioStatistics) Covariance(i, j int) float64 {
	if i == j {
		return s.volatility[i] * s.volatility[i]
	}
	if i > j {
		i, j = j, i
	}
	return s.covariance[i][j]
}

// CovarianceMatrix returns a copy of the stored matrix, upper triangle only.
func (s *PortfolioStatistics) CovarianceMatrix() [][]float64 {
	out := make([][]float64, len(s.covariance))
	for i := range s.covariance {
		out[i] = make([]float64, len(s.covariance[i]))
		for j := i + 1; j < len(s.covariance[i]); j++ {
			out[i][j] = s.covariance[i][j]
		}
	}
	return out
}

// FullCovariance builds the symmetric covariance matrix with the squared
// volatilities on the diagonal.
func (s *PortfolioStatistics) FullCovariance() *mat.SymDense {
	n := s.N()
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sigma.SetSym(i, j, s.Covariance(i, j))
		}
	}
	return sigma
}
