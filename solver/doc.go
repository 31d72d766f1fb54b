// Package solver defines the StepSolver contract shared by every search in
// capmesh: a cooperative, resumable unit of computation with an iteration
// budget and a failure channel.
//
// What:
//
//   - StepSolver: Step advances by one atomic unit, Solve loops Step until the
//     solver is solved, failed, or out of budget.
//   - Base: embeddable bookkeeping (iterations, budget, solved/failed flags,
//     error, progress, logger) so concrete solvers only implement their step.
//
// Contract:
//
//   - Step is a no-op once Solved or Failed.
//   - Reaching MaxIterations without Solved marks the solver failed with
//     ErrMaxIterations. The ceiling is a hard stop, never a retry trigger.
//   - Errors and panics raised inside a step never cross the solver boundary:
//     they are captured as Failed()==true plus Err().
//
// Usage:
//
//	type counter struct {
//	    solver.Base
//	    n int
//	}
//
//	func (c *counter) Step()  { c.Advance(c.step) }
//	func (c *counter) Solve() { c.Run(c.step) }
//	func (c *counter) step() error {
//	    c.n++
//	    if c.n == 3 {
//	        c.MarkSolved()
//	    }
//	    return nil
//	}
//
// Errors:
//
//   - ErrMaxIterations: the iteration ceiling was reached (non-convergence).
//   - ErrStepPanic:     a step panicked; the panic value is in the message.
package solver
