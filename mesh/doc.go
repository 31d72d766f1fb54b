// Package mesh carves a circuit board into capacity-bounded rectangular
// regions ("mesh nodes") that respect obstacles, layers and connection
// terminals, and derives the adjacency edges between the finished leaves.
//
// What:
//
//   - Builder: a solver.StepSolver that starts from one root node covering
//     the board on every layer and, one node per Step, splits unfinished
//     nodes into four quadrants until every region is settled.
//   - Capacity: the tuned trace-capacity formula for a node of a given width.
//   - LeafIndex: an R-tree over finished leaves that yields the edge list and
//     resolves terminals to leaf ids; FindTerminalNode is the one-shot form.
//
// Subdivision rules, per child:
//
//  1. Outside the board: dropped.
//  2. More than one layer and multi-layer routing is unsafe (the node lies
//     wholly inside an obstacle missing from one of its layers, an obstacle
//     in a node narrower than a via with clearance, an obstacle or a
//     terminal at MaxDepth): split into one single-layer sibling per layer
//     with the same footprint and depth. A node only partly covered by a
//     single-layer obstacle keeps subdividing instead.
//  3. Completely inside an obstacle without a terminal: dropped.
//  4. Below MaxDepth and holding a terminal or touching an obstacle: queued.
//  5. Otherwise: finished, with TotalCapacity from Capacity.
//
// Obstacle overlap is incremental: a child only tests the obstacles that
// overlapped its parent. Terminal lookup goes through an R-tree keyed by
// terminal coordinates, so its cost does not grow with the terminal count.
//
// Nodes form a parent-index tree inside one arena; there are no child lists.
//
// Complexity:
//
//   - Build: O(L·4^D) worst case for L layers and depth limit D; in practice
//     proportional to the obstacle perimeter and terminal count at depth D.
//   - Edges: O(N log N + K) for N leaves and K touching pairs.
//
// Errors:
//
//   - ErrBadBounds, ErrTooFewLayers, ErrBadLayer, ErrTerminalOutOfBounds:
//     invalid Input.
//   - ErrTerminalNotFound: LeafIndex.Locate found no leaf.
//   - ErrOptionViolation: an Option received an invalid value.
package mesh
