package solver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxIterations is the iteration ceiling used when a concrete solver
// does not override it.
const DefaultMaxIterations = 1000

// Sentinel errors reported through Err().
var (
	// ErrMaxIterations indicates the solver hit its iteration ceiling before
	// reaching a solution.
	ErrMaxIterations = errors.New("solver: max iterations reached")

	// ErrStepPanic indicates a step panicked and the panic was captured.
	ErrStepPanic = errors.New("solver: step panicked")
)

// StepSolver is the cooperative solver contract. Implementations are not safe
// for concurrent use; a supervisor may run distinct instances in parallel.
type StepSolver interface {
	// Step advances the solver by one atomic unit of work.
	Step()
	// Solve calls Step until Solved, Failed, or the iteration budget is spent.
	Solve()
	Solved() bool
	Failed() bool
	// Err describes why the solver failed; nil unless Failed.
	Err() error
	Iterations() int
	MaxIterations() int
	// Progress is a fraction in [0,1] used by supervisors to rank children.
	Progress() float64
}

// StepFunc performs one unit of work. Returning a non-nil error fails the solver.
type StepFunc func() error

// Base carries the bookkeeping shared by every StepSolver.
// Embed it and implement Step/Solve with Advance/Run.
type Base struct {
	name          string
	maxIterations int
	iterations    int
	solved        bool
	failed        bool
	err           error
	progress      float64
	log           *zap.Logger
}

// NewBase returns a Base with the given name and iteration ceiling.
// maxIterations <= 0 falls back to DefaultMaxIterations; a nil logger is
// replaced by a no-op logger.
func NewBase(name string, maxIterations int, log *zap.Logger) Base {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if log == nil {
		log = zap.NewNop()
	}

	return Base{
		name:          name,
		maxIterations: maxIterations,
		log:           log.Named(name),
	}
}

// Name identifies the solver in logs and error messages.
func (b *Base) Name() string { return b.name }

// Solved reports whether the solver reached a solution.
func (b *Base) Solved() bool { return b.solved }

// Failed reports whether the solver stopped without a solution.
func (b *Base) Failed() bool { return b.failed }

// Err returns the failure cause, or nil.
func (b *Base) Err() error { return b.err }

// Iterations returns the number of steps taken so far.
func (b *Base) Iterations() int { return b.iterations }

// MaxIterations returns the iteration ceiling.
func (b *Base) MaxIterations() int { return b.maxIterations }

// Progress returns the last value passed to SetProgress (1 once solved).
func (b *Base) Progress() float64 {
	if b.solved {
		return 1
	}
	return b.progress
}

// Logger returns the solver's named logger.
func (b *Base) Logger() *zap.Logger { return b.log }

// SetProgress records fractional progress, clamped to [0,1].
func (b *Base) SetProgress(p float64) {
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	b.progress = p
}

// MarkSolved flags the solver as solved. Later steps become no-ops.
func (b *Base) MarkSolved() {
	if b.failed {
		return
	}
	b.solved = true
	b.progress = 1
	b.log.Debug("solved", zap.Int("iterations", b.iterations))
}

// Fail flags the solver as failed with err. The first failure wins.
func (b *Base) Fail(err error) {
	if b.solved || b.failed {
		return
	}
	if err == nil {
		err = fmt.Errorf("%s: failed without a cause", b.name)
	}
	b.failed = true
	b.err = err
	b.log.Debug("failed", zap.Int("iterations", b.iterations), zap.Error(err))
}

// Done reports whether the solver is solved or failed.
func (b *Base) Done() bool { return b.solved || b.failed }

// Advance runs fn as one step. It is a no-op once the solver is done, fails
// the solver with ErrMaxIterations once the budget is spent, and captures any
// error or panic from fn as a failure.
func (b *Base) Advance(fn StepFunc) {
	if b.Done() {
		return
	}
	if b.iterations >= b.maxIterations {
		b.Fail(fmt.Errorf("%s: %w (%d)", b.name, ErrMaxIterations, b.maxIterations))
		return
	}
	b.iterations++
	if err := b.call(fn); err != nil {
		b.Fail(err)
	}
}

// Run calls Advance until the solver is done. The iteration ceiling bounds
// the loop.
func (b *Base) Run(fn StepFunc) {
	for !b.Done() {
		b.Advance(fn)
	}
}

// call invokes fn and converts a panic into an ErrStepPanic error.
func (b *Base) call(fn StepFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %w: %v", b.name, ErrStepPanic, r)
		}
	}()

	return fn()
}
