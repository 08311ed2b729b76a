package frontier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AnalyticMinimumVariance returns Σ⁻¹1 / 1ᵀΣ⁻¹1, the minimum-variance weights
// when short positions are allowed.
func AnalyticMinimumVariance(stats *PortfolioStatistics) ([]float64, error) {
	ones := make([]float64, stats.N())
	for i := range ones {
		ones[i] = 1
	}
	return solveNormalized(stats, ones)
}

// AnalyticTangency returns Σ⁻¹(r - rf) normalized to sum to one, the tangency
// weights when short positions are allowed.
func AnalyticTangency(stats *PortfolioStatistics) ([]float64, error) {
	excess := stats.ExpectedReturns()
	for i := range excess {
		excess[i] -= stats.riskFree
	}
	return solveNormalized(stats, excess)
}

func solveNormalized(stats *PortfolioStatistics, b []float64) ([]float64, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(stats.FullCovariance()); !ok {
		return nil, ErrSingularCovariance
	}
	var z mat.VecDense
	if err := chol.SolveVecTo(&z, mat.NewVecDense(len(b), b)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularCovariance, err)
	}
	w := append([]float64(nil), z.RawVector().Data...)
	sum := floats.Sum(w)
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("%w: weights cannot be normalized", ErrUndefinedRatio)
	}
	floats.Scale(1/sum, w)
	return w, nil
}
