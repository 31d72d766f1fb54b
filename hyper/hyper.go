package hyper

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/capmesh/solver"
)

// Sentinel errors.
var (
	// ErrAllAttemptsFailed is reported when every child failed.
	ErrAllAttemptsFailed = errors.New("hyper: all attempts failed")

	// ErrBadAxis indicates an unnamed, empty, duplicated or unknown axis.
	ErrBadAxis = errors.New("hyper: invalid axis")

	// ErrNoConstructor indicates Config.New is nil.
	ErrNoConstructor = errors.New("hyper: no solver constructor")
)

// Defaults.
const (
	DefaultGreedyMultiplier = 1.5
	DefaultMinSubsteps      = 1
)

// Attempt is one child solver and the parameters it was built with.
type Attempt[S solver.StepSolver] struct {
	Index       int
	Combination string
	Params      Params
	Solver      S
	// BuildErr is set when the constructor failed; the attempt never runs.
	BuildErr error

	// Last fitness computed for the attempt.
	G, H, F float64

	// trace is the child's recorded run (SolveParallel); trace[cursor] is the
	// state the schedule currently sees. Nil means the live solver is read.
	trace  []snapshot
	cursor int
}

// snapshot is what the schedule observes of a child after some steps.
type snapshot struct {
	g, h, progress float64
	solved, failed bool
}

// Failed reports whether the attempt is out of the race.
func (a *Attempt[S]) Failed() bool {
	if a.BuildErr != nil {
		return true
	}
	if a.trace != nil {
		return a.trace[a.cursor].failed
	}
	return a.Solver.Failed()
}

func (a *Attempt[S]) solved() bool {
	if a.trace != nil {
		return a.trace[a.cursor].solved
	}
	return a.Solver.Solved()
}

func (a *Attempt[S]) progress() float64 {
	if a.trace != nil {
		return a.trace[a.cursor].progress
	}
	return a.Solver.Progress()
}

// advance steps the child, or moves along its recorded run.
func (a *Attempt[S]) advance() {
	if a.trace == nil {
		a.Solver.Step()
		return
	}
	if a.cursor < len(a.trace)-1 {
		a.cursor++
	}
}

// Err is the build error or the child's failure cause.
func (a *Attempt[S]) Err() error {
	if a.BuildErr != nil {
		return a.BuildErr
	}
	if !a.Failed() {
		return nil
	}
	return a.Solver.Err()
}

// Config describes a hyperparameter race.
type Config[S solver.StepSolver] struct {
	// Name identifies the search in logs and errors.
	Name string
	Axes []Axis
	// Combinations restricts which axes vary together. Empty means one
	// combination over every axis.
	Combinations []CombinationDef
	// New builds one child from its parameters.
	New func(Params) (S, error)
	// Fitness returns (g, h) for a child; lower is more promising. Defaults
	// to g = Iterations/MaxIterations and h = 1 − Progress. It must depend
	// only on the child: SolveParallel calls it on the child's goroutine.
	Fitness func(S) (g, h float64)
	// GreedyMultiplier weighs h in f = g + h × GreedyMultiplier.
	GreedyMultiplier float64
	// MinSubsteps is how many child steps one supervisor step runs.
	MinSubsteps int
	// OnWinner runs once, before the supervisor is marked solved.
	OnWinner func(*Attempt[S])
	// MaxIterations bounds supervisor steps. Zero derives a bound from the
	// children's own ceilings.
	MaxIterations int
	Logger        *zap.Logger
}

// Supervisor races child solvers built from every parameter combination.
// Each Step advances the child with the lowest fitness f; the first child
// to solve is adopted as the winner.
type Supervisor[S solver.StepSolver] struct {
	solver.Base

	cfg      Config[S]
	attempts []*Attempt[S]
	winner   *Attempt[S]
}

// New expands the combinations and builds one child per combination.
// A constructor error fails only that attempt.
//
// Errors: ErrNoConstructor, ErrBadAxis.
func New[S solver.StepSolver](cfg Config[S]) (*Supervisor[S], error) {
	if cfg.New == nil {
		return nil, ErrNoConstructor
	}
	if cfg.Fitness == nil {
		cfg.Fitness = defaultFitness[S]
	}
	if cfg.GreedyMultiplier <= 0 {
		cfg.GreedyMultiplier = DefaultGreedyMultiplier
	}
	if cfg.MinSubsteps <= 0 {
		cfg.MinSubsteps = DefaultMinSubsteps
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "hyper"
	}

	combos, err := expand(cfg.Axes, cfg.Combinations)
	if err != nil {
		return nil, err
	}

	attempts := make([]*Attempt[S], len(combos))
	budget := len(combos)
	for i, c := range combos {
		a := &Attempt[S]{Index: i, Combination: c.def, Params: c.params}
		a.Solver, a.BuildErr = cfg.New(c.params)
		if a.BuildErr == nil {
			budget += a.Solver.MaxIterations()
		}
		attempts[i] = a
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = budget
	}

	s := &Supervisor[S]{
		Base:     solver.NewBase(cfg.Name, cfg.MaxIterations, cfg.Logger),
		cfg:      cfg,
		attempts: attempts,
	}
	for _, a := range attempts {
		if a.BuildErr != nil {
			s.Logger().Debug("attempt not built",
				zap.Int("attempt", a.Index), zap.String("params", a.Params.Key()), zap.Error(a.BuildErr))
		}
	}

	return s, nil
}

func defaultFitness[S solver.StepSolver](s S) (float64, float64) {
	g := 0.0
	if m := s.MaxIterations(); m > 0 {
		g = float64(s.Iterations()) / float64(m)
	}
	return g, 1 - s.Progress()
}

// Step advances the most promising child by MinSubsteps steps.
func (s *Supervisor[S]) Step() { s.Advance(s.step) }

// Solve steps until a child is adopted or every child has failed.
func (s *Supervisor[S]) Solve() { s.Run(s.step) }

func (s *Supervisor[S]) step() error {
	best := s.pick()
	if best == nil {
		return s.allFailed()
	}
	if best.solved() {
		s.adopt(best)
		return nil
	}

	for i := 0; i < s.cfg.MinSubsteps; i++ {
		best.advance()
		if best.solved() {
			s.adopt(best)
			return nil
		}
		if best.Failed() {
			s.Logger().Debug("attempt failed",
				zap.Int("attempt", best.Index),
				zap.String("params", best.Params.Key()),
				zap.Error(best.Solver.Err()))
			break
		}
	}
	s.updateProgress()

	if s.pick() == nil {
		return s.allFailed()
	}
	return nil
}

// pick scores every live child and returns the lowest f, ties to the lowest
// index. It returns nil when no child is left.
func (s *Supervisor[S]) pick() *Attempt[S] {
	var best *Attempt[S]
	for _, a := range s.attempts {
		if a.Failed() {
			continue
		}
		a.G, a.H = s.fitness(a)
		a.F = a.G + a.H*s.cfg.GreedyMultiplier
		if best == nil || a.F < best.F {
			best = a
		}
	}
	return best
}

func (s *Supervisor[S]) fitness(a *Attempt[S]) (float64, float64) {
	if a.trace != nil {
		return a.trace[a.cursor].g, a.trace[a.cursor].h
	}
	return s.cfg.Fitness(a.Solver)
}

func (s *Supervisor[S]) snapshot(a *Attempt[S]) snapshot {
	g, h := s.cfg.Fitness(a.Solver)
	return snapshot{
		g:        g,
		h:        h,
		progress: a.Solver.Progress(),
		solved:   a.Solver.Solved(),
		failed:   a.Solver.Failed(),
	}
}

func (s *Supervisor[S]) adopt(a *Attempt[S]) {
	s.winner = a
	s.Logger().Info("attempt adopted",
		zap.Int("attempt", a.Index),
		zap.String("combination", a.Combination),
		zap.String("params", a.Params.Key()),
		zap.Int("child_iterations", a.Solver.Iterations()))
	if s.cfg.OnWinner != nil {
		s.cfg.OnWinner(a)
	}
	s.MarkSolved()
}

func (s *Supervisor[S]) allFailed() error {
	return fmt.Errorf("%w: %s (%d attempts)", ErrAllAttemptsFailed, s.cfg.Name, len(s.attempts))
}

func (s *Supervisor[S]) updateProgress() {
	p := 0.0
	for _, a := range s.attempts {
		if a.BuildErr == nil && a.progress() > p {
			p = a.progress()
		}
	}
	s.SetProgress(p)
}

// SolveParallel runs every live child to completion on at most workers
// goroutines (workers ≤ 0: one per child), recording what the schedule would
// observe after each child step. It then replays the best-first schedule of
// Solve over those recordings, so it adopts the same winner after the same
// number of supervisor steps. Children must not share mutable state. Losing
// children may have run further than under Solve.
//
// Returns the supervisor's failure cause, or nil once a winner is adopted.
func (s *Supervisor[S]) SolveParallel(ctx context.Context, workers int) error {
	if s.Done() {
		return s.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, a := range s.attempts {
		if a.Failed() {
			continue
		}
		g.Go(func() error { return s.record(gctx, a) })
	}
	if err := g.Wait(); err != nil {
		s.Fail(fmt.Errorf("%s: %w", s.cfg.Name, err))
		return s.Err()
	}

	s.Run(s.step)
	return s.Err()
}

// record runs one child to completion and stores its trace.
func (s *Supervisor[S]) record(ctx context.Context, a *Attempt[S]) error {
	trace := []snapshot{s.snapshot(a)}
	for !a.Solver.Solved() && !a.Solver.Failed() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Solver.Step()
		trace = append(trace, s.snapshot(a))
	}
	a.trace, a.cursor = trace, 0
	return nil
}

// Winner returns the adopted attempt, if any.
func (s *Supervisor[S]) Winner() (*Attempt[S], bool) {
	return s.winner, s.winner != nil
}

// Attempts returns every attempt in expansion order. The slice is a copy;
// the attempts themselves are owned by the supervisor.
func (s *Supervisor[S]) Attempts() []*Attempt[S] {
	return slices.Clone(s.attempts)
}
