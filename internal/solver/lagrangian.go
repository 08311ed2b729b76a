package solver

import (
	"errors"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

const (
	defaultMaxIterations         = 1000
	defaultMaxOuterIterations    = 30
	defaultConstraintTolerance   = 1e-10
	defaultStationarityTolerance = 1e-8
	defaultInitialPenalty        = 10.0
	maxPenalty                   = 1e8
	stallIterations              = 20
)

// Lagrangian minimizes constrained problems with an augmented Lagrangian outer
// loop around unconstrained gonum BFGS solves. Bounds are removed by a change
// of variables and hold exactly at every evaluated point; equality and
// inequality constraints hold to ConstraintTolerance on convergence.
//
// Gradients come from central finite differences, so objectives only need to
// be evaluable, not differentiable in closed form.
type Lagrangian struct {
	// MaxIterations caps BFGS major iterations per inner solve.
	MaxIterations int
	// MaxOuterIterations caps multiplier updates.
	MaxOuterIterations int
	// ConstraintTolerance is the largest constraint violation accepted as converged.
	ConstraintTolerance float64
	// StationarityTolerance accepts an inner solve whose line search stalled
	// once the gradient infinity norm is below it.
	StationarityTolerance float64
	// InitialPenalty is the starting quadratic penalty weight.
	InitialPenalty float64
}

// NewLagrangian creates a Lagrangian minimizer with default tolerances.
func NewLagrangian(maxIterations int) *Lagrangian {
	return &Lagrangian{MaxIterations: maxIterations}
}

type innerResult struct {
	z          []float64
	converged  bool
	iterations int
	status     string
}

// Minimize implements Minimizer.
func (l *Lagrangian) Minimize(p Problem) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	evaluations := 0
	rejected := 0
	objective := func(x []float64) float64 {
		evaluations++
		v, err := p.Objective(x)
		if err != nil || math.IsNaN(v) {
			rejected++
			return math.Inf(1)
		}
		return v
	}

	transform := newBoxTransform(p.Bounds)
	x0 := transform.clamp(p.Initial)
	if len(x0) == 0 {
		evaluations++
		f0, err := p.Objective(x0)
		if err != nil {
			log.Warnf("objective rejected the only feasible point: %v", err)
			return &Result{X: x0, Value: math.NaN(), Evaluations: evaluations, Status: StatusInitialRejected}, nil
		}
		return &Result{X: x0, Value: f0, Converged: true, Evaluations: evaluations, Status: "Trivial"}, nil
	}

	// The search starts from the interior image of the initial guess. If the
	// objective rejects it, the centre of the box is tried next.
	var z []float64
	var startErr error
	for _, candidate := range [][]float64{x0, transform.center(x0)} {
		zc := transform.toFree(candidate)
		evaluations++
		if _, err := p.Objective(transform.toWeights(zc)); err != nil {
			startErr = err
			continue
		}
		z = zc
		break
	}
	if z == nil {
		log.Warnf("objective rejected the initial guess: %v", startErr)
		return &Result{X: x0, Value: math.NaN(), Evaluations: evaluations, Status: StatusInitialRejected}, nil
	}

	var eq, ineq []func([]float64) float64
	for _, c := range p.Constraints {
		if c.Kind == Equality {
			eq = append(eq, c.Fn)
		} else {
			ineq = append(ineq, c.Fn)
		}
	}
	lambda := make([]float64, len(eq))
	mu := make([]float64, len(ineq))
	rho := l.initialPenalty()

	res := &Result{}
	prevViolation := math.Inf(1)
	converged := false

	for outer := 0; outer < l.maxOuterIterations(); outer++ {
		merit := func(z []float64) float64 {
			x := transform.toWeights(z)
			v := objective(x)
			if math.IsInf(v, 1) {
				return v
			}
			for k, h := range eq {
				hv := h(x)
				v += lambda[k]*hv + rho/2*hv*hv
			}
			for k, c := range ineq {
				s := math.Max(0, mu[k]-rho*c(x))
				v += (s*s - mu[k]*mu[k]) / (2 * rho)
			}
			return v
		}

		inner := l.solveInner(merit, z, p.Tolerance)
		z = inner.z
		res.Iterations += inner.iterations
		res.Status = inner.status

		if len(eq)+len(ineq) == 0 {
			converged = inner.converged
			break
		}

		x := transform.toWeights(z)
		violation := 0.0
		for k, h := range eq {
			hv := h(x)
			violation = math.Max(violation, math.Abs(hv))
			lambda[k] += rho * hv
		}
		for k, c := range ineq {
			cv := c(x)
			violation = math.Max(violation, math.Abs(math.Min(cv, mu[k]/rho)))
			mu[k] = math.Max(0, mu[k]-rho*cv)
		}
		log.Debugf("lagrangian outer %d: status=%s violation=%.3g penalty=%g", outer, inner.status, violation, rho)

		if violation <= l.constraintTolerance() && inner.converged {
			converged = true
			break
		}
		if violation > 0.25*prevViolation {
			rho = math.Min(rho*10, maxPenalty)
		}
		prevViolation = violation
	}

	res.X = transform.clamp(transform.toWeights(z))
	res.Converged = converged
	value, err := p.Objective(res.X)
	evaluations++
	if err != nil {
		log.Warnf("objective rejected the final point: %v", err)
		res.Value = math.NaN()
		res.Converged = false
		res.Status = StatusObjectiveRejected
	} else {
		res.Value = value
	}
	res.Evaluations = evaluations
	if rejected > 0 {
		log.Debugf("lagrangian: %d probe points rejected by the objective", rejected)
	}
	return res, nil
}

func (l *Lagrangian) solveInner(f func([]float64) float64, z0 []float64, tol float64) innerResult {
	problem := optimize.Problem{
		Func: f,
		Grad: func(grad, z []float64) {
			fd.Gradient(grad, f, z, &fd.Settings{Formula: fd.Central})
			for i, g := range grad {
				if math.IsNaN(g) || math.IsInf(g, 0) {
					grad[i] = oneSidedDerivative(f, z, i)
				}
			}
		},
	}
	settings := &optimize.Settings{
		Converger:       &optimize.FunctionConverge{Absolute: tol, Iterations: stallIterations},
		MajorIterations: l.maxIterations(),
	}

	result, err := optimize.Minimize(problem, z0, settings, &optimize.BFGS{GradStopThreshold: tol})
	if result == nil {
		log.Errorf("inner solve could not start: %v", err)
		return innerResult{z: z0, status: optimize.Failure.String()}
	}

	out := innerResult{
		z:          append([]float64(nil), result.X...),
		iterations: result.MajorIterations,
		status:     result.Status.String(),
	}
	switch result.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence,
		optimize.StepConvergence, optimize.MethodConverge:
		out.converged = true
	case optimize.Failure:
		// A stalled line search next to a stationary point is as close as
		// finite-difference gradients can get.
		if len(result.Gradient) > 0 && floats.Norm(result.Gradient, math.Inf(1)) <= l.stationarityTolerance() {
			out.converged = true
			out.status = "Stationary"
		} else if !errors.Is(err, optimize.ErrNoProgress) {
			log.Debugf("inner solve failed: %v", err)
		}
	}
	if math.IsInf(result.F, 1) {
		// The starting point was rejected; no iterate was recorded.
		out.z = append([]float64(nil), z0...)
		out.converged = false
	}
	return out
}

// oneSidedDerivative estimates ∂f/∂z_i next to a rejected region, where one of
// the central-difference probes came back +Inf. It returns 0 when neither side
// can be evaluated.
func oneSidedDerivative(f func([]float64) float64, z []float64, i int) float64 {
	f0 := f(z)
	if math.IsInf(f0, 0) || math.IsNaN(f0) {
		return 0
	}
	h := 1e-7 * math.Max(1, math.Abs(z[i]))
	probe := append([]float64(nil), z...)
	for _, step := range []float64{h, -h} {
		probe[i] = z[i] + step
		if fs := f(probe); !math.IsInf(fs, 0) && !math.IsNaN(fs) {
			return (fs - f0) / step
		}
	}
	return 0
}

func (l *Lagrangian) maxIterations() int {
	if l.MaxIterations > 0 {
		return l.MaxIterations
	}
	return defaultMaxIterations
}

func (l *Lagrangian) maxOuterIterations() int {
	if l.MaxOuterIterations > 0 {
		return l.MaxOuterIterations
	}
	return defaultMaxOuterIterations
}

func (l *Lagrangian) constraintTolerance() float64 {
	if l.ConstraintTolerance > 0 {
		return l.ConstraintTolerance
	}
	return defaultConstraintTolerance
}

func (l *Lagrangian) stationarityTolerance() float64 {
	if l.StationarityTolerance > 0 {
		return l.StationarityTolerance
	}
	return defaultStationarityTolerance
}

func (l *Lagrangian) initialPenalty() float64 {
	if l.InitialPenalty > 0 {
		return l.InitialPenalty
	}
	return defaultInitialPenalty
}
