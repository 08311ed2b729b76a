package frontier

import (
	"errors"
	"fmt"
	"math"

	"github.com/epeers/frontier/internal/solver"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultVarianceTolerance is tight because variance is a smooth quadratic.
	DefaultVarianceTolerance = 1e-15
	// DefaultSharpeTolerance is looser; the ratio is poorly conditioned near
	// zero-variance points.
	DefaultSharpeTolerance = 1e-8
	// WeightSumTolerance bounds |Σ x - 1| for a converged full-mode result.
	WeightSumTolerance = 1e-6
)

// Options configures a Solver.
type Options struct {
	VarianceTolerance float64
	SharpeTolerance   float64
	// Reduced searches over N-1 free weights with the last one implied.
	Reduced bool
	// Diagnostics, when set, traces objective terms at debug level.
	Diagnostics *log.Entry
}

// Solver locates the minimum-variance and tangency portfolios by two
// independent minimizations through a solver.Minimizer.
type Solver struct {
	minimizer solver.Minimizer
	opts      Options
}

// NewSolver creates a Solver. Zero tolerances fall back to the defaults.
func NewSolver(minimizer solver.Minimizer, opts Options) *Solver {
	if opts.VarianceTolerance <= 0 {
		opts.VarianceTolerance = DefaultVarianceTolerance
	}
	if opts.SharpeTolerance <= 0 {
		opts.SharpeTolerance = DefaultSharpeTolerance
	}
	return &Solver{minimizer: minimizer, opts: opts}
}

// Portfolio is one optimized allocation with its derived statistics.
type Portfolio struct {
	Weights []float64
	Mean    float64
	StdDev  float64
	// Sharpe is nil when the ratio is undefined at Weights; SharpeErr says why.
	Sharpe    *float64
	SharpeErr error
	Result    *solver.Result
}

// Converged reports the optimizer's convergence flag.
func (p *Portfolio) Converged() bool {
	return p.Result != nil && p.Result.Converged
}

// Err returns a non-nil error wrapping ErrNonConvergence for a flagged result.
func (p *Portfolio) Err() error {
	if p.Result == nil {
		return nil
	}
	return p.Result.Err()
}

// Frontier holds the two landmark portfolios of one analysis.
type Frontier struct {
	MinVariance Portfolio
	Tangency    Portfolio
	LongOnly    bool
	Reduced     bool
}

// Solve runs the minimum-variance and tangency searches from initial, a full
// weight vector of length N (nil means equal weights). Non-converged results
// are returned with their statistics; callers must check Converged.
func (s *Solver) Solve(stats *PortfolioStatistics, longOnly bool, initial []float64) (*Frontier, error) {
	if stats == nil {
		return nil, fmt.Errorf("%w: statistics are nil", ErrInvalidStatistics)
	}
	n := stats.N()
	if initial == nil {
		initial = EqualWeights(n)
	}
	if len(initial) != n {
		return nil, fmt.Errorf("%w: initial guess has %d weights for %d assets", ErrDimensionMismatch, len(initial), n)
	}

	// A single asset has one feasible allocation, so it always takes the
	// zero-dimensional reduced path and reports exactly [1].
	reduced := s.opts.Reduced || n == 1
	var opts []Option
	if reduced {
		opts = append(opts, WithReducedWeights())
	}
	if s.opts.Diagnostics != nil {
		opts = append(opts, WithDiagnostics(s.opts.Diagnostics))
	}
	sharpe, err := NewSharpeObjective(stats, opts...)
	if err != nil {
		return nil, err
	}
	variance := sharpe.Variance()

	cs := NewConstraintSet(n, reduced, longOnly)
	start := append([]float64(nil), initial[:cs.Dimension()]...)
	fallback := EqualWeights(n)[:cs.Dimension()]

	minVar, err := s.search("minimum-variance", sharpe, solver.Problem{
		Objective:   variance.Variance,
		Initial:     start,
		Tolerance:   s.opts.VarianceTolerance,
		Constraints: cs.Constraints(),
		Bounds:      cs.Bounds(),
	}, fallback)
	if err != nil {
		return nil, err
	}

	tangency, err := s.search("tangency", sharpe, solver.Problem{
		Objective:   sharpe.Negated,
		Initial:     start,
		Tolerance:   s.opts.SharpeTolerance,
		Constraints: cs.Constraints(),
		Bounds:      cs.Bounds(),
	}, fallback)
	if err != nil {
		return nil, err
	}

	return &Frontier{
		MinVariance: *minVar,
		Tangency:    *tangency,
		LongOnly:    longOnly,
		Reduced:     s.opts.Reduced,
	}, nil
}

// search runs one minimization. A start the objective rejects (a zero-variance
// corner for the Sharpe ratio, say) is retried once from fallback.
func (s *Solver) search(name string, sharpe *SharpeObjective, p solver.Problem, fallback []float64) (*Portfolio, error) {
	res, err := s.minimizer.Minimize(p)
	if startRejected(res, err) && !floats.Equal(p.Initial, fallback) {
		log.Debugf("%s search: initial guess rejected, restarting from equal weights", name)
		p.Initial = append([]float64(nil), fallback...)
		res, err = s.minimizer.Minimize(p)
	}
	if err != nil {
		return nil, fmt.Errorf("%s search failed: %w", name, err)
	}
	if !res.Converged {
		log.Warnf("%s search did not converge: status %s after %d iterations", name, res.Status, res.Iterations)
	}

	w, err := sharpe.Variance().Weights(res.X)
	if err != nil {
		return nil, fmt.Errorf("%s search returned a malformed point: %w", name, err)
	}
	if !sharpe.Variance().Reduced() && res.Converged {
		if sum := floats.Sum(w); math.Abs(sum-1) > WeightSumTolerance {
			return nil, fmt.Errorf("%w: %s weights sum to %.9f", ErrInvalidWeights, name, sum)
		}
	}
	return Describe(sharpe, w, res), nil
}

func startRejected(res *solver.Result, err error) bool {
	if err != nil {
		return errors.Is(err, solver.ErrRejectedInitial)
	}
	return res != nil && res.Status == solver.StatusInitialRejected
}

// Describe computes the derived statistics of a full weight vector.
func Describe(sharpe *SharpeObjective, w []float64, res *solver.Result) *Portfolio {
	variance := sharpe.Variance().full(w)
	p := &Portfolio{
		Weights: w,
		Mean:    floats.Dot(w, sharpe.returns),
		StdDev:  math.Sqrt(math.Max(variance, 0)),
		Result:  res,
	}
	if ratio, err := sharpe.ratio(w); err != nil {
		p.SharpeErr = err
	} else {
		p.Sharpe = &ratio
	}
	return p
}

// EqualWeights returns the 1/N allocation.
func EqualWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}
