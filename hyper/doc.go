// Package hyper races several configurations of the same step solver and
// adopts the first one that solves.
//
// What:
//
//   - Axis and CombinationDef describe the hyperparameter grid. Each def
//     contributes the cartesian product of its axes (first axis slowest);
//     axes outside a def keep their first value; repeats are dropped.
//   - Supervisor[S] is itself a solver.StepSolver. Each Step scores every
//     live child with f = g + h × GreedyMultiplier, advances the lowest-f
//     child MinSubsteps steps, and adopts it the moment it solves.
//   - SolveParallel is the goroutine variant: every child runs to the end
//     while its per-step state is recorded, then the Step schedule is
//     replayed over the recordings, so it adopts the same winner as Solve.
//
// Failed children never run again. When all have failed the supervisor
// fails with ErrAllAttemptsFailed naming the search.
//
// Errors:
//
//   - ErrNoConstructor, ErrBadAxis: from New.
//   - ErrAllAttemptsFailed (via Err): no child solved.
package hyper
