package frontier

import (
	"github.com/epeers/frontier/internal/solver"
	"gonum.org/v1/gonum/floats"
)

// ConstraintSet declares the constraints that keep a search point a valid
// allocation. It holds no state beyond {N, mode, long-only}.
type ConstraintSet struct {
	n        int
	reduced  bool
	longOnly bool
}

// NewConstraintSet creates the constraint declaration for n assets.
func NewConstraintSet(n int, reduced, longOnly bool) ConstraintSet {
	return ConstraintSet{n: n, reduced: reduced, longOnly: longOnly}
}

// Dimension is the number of coordinates the optimizer searches over.
func (c ConstraintSet) Dimension() int {
	if c.reduced {
		return c.n - 1
	}
	return c.n
}

// Constraints returns Σ x - 1 = 0 in full mode. Reduced mode encodes that
// invariant in the objective, so only a long-only search over more than one
// free weight needs constraints: 0 <= 1 - Σ free <= 1 for the implied weight.
func (c ConstraintSet) Constraints() []solver.Constraint {
	if !c.reduced {
		return []solver.Constraint{{
			Kind: solver.Equality,
			Fn:   func(x []float64) float64 { return floats.Sum(x) - 1 },
		}}
	}
	if !c.longOnly || c.Dimension() < 2 {
		return nil
	}
	return []solver.Constraint{
		{Kind: solver.Inequality, Fn: func(x []float64) float64 { return 1 - floats.Sum(x) }},
		{Kind: solver.Inequality, Fn: func(x []float64) float64 { return floats.Sum(x) }},
	}
}

// Bounds returns the per-coordinate bounds.
func (c ConstraintSet) Bounds() BoundsSet {
	return NewBoundsSet(c.Dimension(), c.longOnly)
}

// BoundsSet is one bound per searched coordinate; empty means unbounded.
type BoundsSet []solver.Bound

// NewBoundsSet returns [0, 1] for every coordinate when longOnly is set and an
// empty set otherwise, which permits short positions.
func NewBoundsSet(n int, longOnly bool) BoundsSet {
	if !longOnly || n <= 0 {
		return nil
	}
	b := make(BoundsSet, n)
	for i := range b {
		b[i] = solver.Bound{Lower: 0, Upper: 1}
	}
	return b
}

// Contains reports whether x lies within the bounds up to tol.
func (b BoundsSet) Contains(x []float64, tol float64) bool {
	if len(b) == 0 {
		return true
	}
	if len(x) != len(b) {
		return false
	}
	for i, v := range x {
		if v < b[i].Lower-tol || v > b[i].Upper+tol {
			return false
		}
	}
	return true
}
