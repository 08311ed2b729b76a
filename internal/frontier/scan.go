package frontier

import (
	"fmt"
	"math"
)

// ScanPoint is one evaluated allocation of a two-asset weight scan.
type ScanPoint struct {
	Weight   float64 // w1; w2 = 1 - w1
	Variance float64
	StdDev   float64
	Mean     float64
	Sharpe   *float64
}

// ScanTwoAsset evaluates the two-asset reduced objectives at steps evenly
// spaced values of w1 in [from, to].
func ScanTwoAsset(stats *PortfolioStatistics, from, to float64, steps int) ([]ScanPoint, error) {
	if stats == nil {
		return nil, fmt.Errorf("%w: statistics are nil", ErrInvalidStatistics)
	}
	if stats.N() != 2 {
		return nil, fmt.Errorf("%w: scan needs 2 assets, got %d", ErrDimensionMismatch, stats.N())
	}
	if steps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidScan, steps)
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) || !(from < to) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidScan, from, to)
	}

	sharpe, err := NewSharpeObjective(stats, WithReducedWeights())
	if err != nil {
		return nil, err
	}

	points := make([]ScanPoint, steps)
	for i := range points {
		w1 := from + (to-from)*float64(i)/float64(steps-1)
		w := ExpandWeights([]float64{w1})
		p := Describe(sharpe, w, nil)
		points[i] = ScanPoint{
			Weight:   w1,
			Variance: sharpe.variance.full(w),
			StdDev:   p.StdDev,
			Mean:     p.Mean,
			Sharpe:   p.Sharpe,
		}
	}
	return points, nil
}
