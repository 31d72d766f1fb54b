package solver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/capmesh/solver"
)

// countdown solves after n steps, optionally failing or panicking at a given step.
type countdown struct {
	solver.Base
	n       int
	failAt  int
	panicAt int
	calls   int
}

func newCountdown(t *testing.T, n, max int) *countdown {
	return &countdown{Base: solver.NewBase("countdown", max, zaptest.NewLogger(t)), n: n}
}

func (c *countdown) Step()  { c.Advance(c.step) }
func (c *countdown) Solve() { c.Run(c.step) }

func (c *countdown) step() error {
	c.calls++
	if c.panicAt > 0 && c.calls == c.panicAt {
		panic("boom")
	}
	if c.failAt > 0 && c.calls == c.failAt {
		return errors.New("broken step")
	}
	c.SetProgress(float64(c.calls) / float64(c.n))
	if c.calls >= c.n {
		c.MarkSolved()
	}
	return nil
}

var _ solver.StepSolver = (*countdown)(nil)

func TestSolve_Converges(t *testing.T) {
	c := newCountdown(t, 5, 100)
	c.Solve()

	require.True(t, c.Solved())
	require.False(t, c.Failed())
	require.NoError(t, c.Err())
	assert.Equal(t, 5, c.Iterations())
	assert.Equal(t, 1.0, c.Progress())
}

func TestSolve_MaxIterations(t *testing.T) {
	c := newCountdown(t, 50, 10)
	c.Solve()

	require.True(t, c.Failed())
	require.False(t, c.Solved())
	require.ErrorIs(t, c.Err(), solver.ErrMaxIterations)
	assert.Equal(t, 10, c.Iterations())
	assert.Equal(t, 10, c.calls, "no step may run past the ceiling")
}

func TestSolve_DefaultCeiling(t *testing.T) {
	c := newCountdown(t, 5000, 0)
	assert.Equal(t, solver.DefaultMaxIterations, c.MaxIterations())
	c.Solve()
	require.ErrorIs(t, c.Err(), solver.ErrMaxIterations)
}

func TestStep_ErrorIsCaptured(t *testing.T) {
	c := newCountdown(t, 5, 100)
	c.failAt = 2
	c.Solve()

	require.True(t, c.Failed())
	require.EqualError(t, c.Err(), "broken step")
	assert.Equal(t, 2, c.Iterations())
}

func TestStep_PanicIsCaptured(t *testing.T) {
	c := newCountdown(t, 5, 100)
	c.panicAt = 3

	require.NotPanics(t, c.Solve)
	require.True(t, c.Failed())
	require.ErrorIs(t, c.Err(), solver.ErrStepPanic)
	assert.Contains(t, c.Err().Error(), "boom")
}

func TestStep_NoOpWhenDone(t *testing.T) {
	c := newCountdown(t, 1, 100)
	c.Step()
	require.True(t, c.Solved())

	for i := 0; i < 3; i++ {
		c.Step()
	}
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, 1, c.Iterations())

	f := newCountdown(t, 5, 100)
	f.failAt = 1
	f.Step()
	f.Step()
	assert.Equal(t, 1, f.calls)
}

func TestFail_FirstCauseWins(t *testing.T) {
	c := newCountdown(t, 5, 100)
	first := errors.New("first")
	c.Fail(first)
	c.Fail(errors.New("second"))
	c.MarkSolved()

	require.ErrorIs(t, c.Err(), first)
	assert.False(t, c.Solved())
}

func TestSetProgress_Clamps(t *testing.T) {
	c := newCountdown(t, 5, 100)
	c.SetProgress(-1)
	assert.Equal(t, 0.0, c.Progress())
	c.SetProgress(2)
	assert.Equal(t, 1.0, c.Progress())
}
