package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidProblem  = errors.New("invalid optimization problem")
	ErrRejectedInitial = errors.New("objective rejected the initial guess")
	ErrNonConvergence  = errors.New("optimizer did not converge")
)

// Objective evaluates a candidate point. Returning an error rejects the point;
// the optimizer keeps searching elsewhere.
type Objective func(x []float64) (float64, error)

// ConstraintKind selects how a constraint function is interpreted.
type ConstraintKind string

const (
	// Equality constraints require Fn(x) = 0.
	Equality ConstraintKind = "equality"
	// Inequality constraints require Fn(x) >= 0.
	Inequality ConstraintKind = "inequality"
)

// Constraint is a declarative constraint on the search point.
type Constraint struct {
	Kind ConstraintKind
	Fn   func(x []float64) float64
}

// Bound limits a single coordinate to [Lower, Upper]. Infinite sides are open.
type Bound struct {
	Lower float64
	Upper float64
}

// Unbounded returns a bound that admits every real value.
func Unbounded() Bound {
	return Bound{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Problem is a constrained minimization request.
type Problem struct {
	Objective   Objective
	Initial     []float64
	Tolerance   float64
	Constraints []Constraint
	Bounds      []Bound // empty, or one per coordinate
}

// Result is what a Minimizer reports. Converged is false when the iteration
// budget ran out before the tolerance was met; X is still the best point found.
type Result struct {
	X           []float64
	Value       float64
	Converged   bool
	Iterations  int
	Evaluations int
	Status      string
}

// Statuses set by Lagrangian when the objective refuses a point it must report.
const (
	StatusInitialRejected   = "InitialRejected"
	StatusObjectiveRejected = "ObjectiveRejected"
)

// Err returns ErrNonConvergence when the result is flagged as not converged.
// A search that never started also matches ErrRejectedInitial.
func (r *Result) Err() error {
	if r.Converged {
		return nil
	}
	if r.Status == StatusInitialRejected {
		return fmt.Errorf("%w: %w", ErrNonConvergence, ErrRejectedInitial)
	}
	return fmt.Errorf("%w: status %s after %d iterations", ErrNonConvergence, r.Status, r.Iterations)
}

// Minimizer is the boundary to the numerical optimizer.
type Minimizer interface {
	Minimize(p Problem) (*Result, error)
}

func (p *Problem) validate() error {
	if p.Objective == nil {
		return fmt.Errorf("%w: objective is nil", ErrInvalidProblem)
	}
	if !(p.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidProblem, p.Tolerance)
	}
	if len(p.Bounds) != 0 && len(p.Bounds) != len(p.Initial) {
		return fmt.Errorf("%w: %d bounds for %d coordinates", ErrInvalidProblem, len(p.Bounds), len(p.Initial))
	}
	for i, b := range p.Bounds {
		if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || b.Lower > b.Upper {
			return fmt.Errorf("%w: bound %d is [%g, %g]", ErrInvalidProblem, i, b.Lower, b.Upper)
		}
	}
	for i, c := range p.Constraints {
		if c.Fn == nil {
			return fmt.Errorf("%w: constraint %d has no function", ErrInvalidProblem, i)
		}
		if c.Kind != Equality && c.Kind != Inequality {
			return fmt.Errorf("%w: constraint %d has unknown kind %q", ErrInvalidProblem, i, c.Kind)
		}
	}
	for i, v := range p.Initial {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: initial guess coordinate %d is %g", ErrInvalidProblem, i, v)
		}
	}
	return nil
}
