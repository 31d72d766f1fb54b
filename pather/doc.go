// Package pather finds one leaf path per connection across a capacity mesh,
// charging every committed path to a shared used-capacity ledger.
//
// What:
//
//   - Pather: a solver.StepSolver running A* per connection, shortest
//     connection first. Each Step pops one candidate. Equal f values pop in
//     insertion order, and neighbors expand in ascending id order, so equal
//     inputs always give equal paths.
//   - CostModel: the pricing strategy. EuclideanCost, SizeBiasedCost and
//     NegativeCapacityCost (default) ship; CostModelByName selects one by name.
//   - Gate: GateSoft always admits and lets the cost model penalize overuse;
//     GateHard refuses full nodes other than the goal.
//   - Section / SectionPather: re-route the connections of a BFS neighborhood
//     on copies of its nodes and of the ledger.
//
// Scoring, per neighbor nb of the current candidate c:
//
//	g(nb) = g(c) + Distance(c, nb) + NodePenalty(nb)
//	h(nb) = |nb − goal| + NodePenalty(nb)
//	f(nb) = g(nb) + h(nb) × GreedyMultiplier
//
// h deliberately overestimates; paths are good, not optimal.
// Obstacle leaves are entered only when they are the goal.
//
// Complexity: O((V + E) log V) per connection with lazy decrease-key.
//
// Errors:
//
//   - ErrUnknownNode: a connection endpoint is not a leaf.
//   - ErrNoPath (via Err): the open set emptied; the message names the connection.
//   - ErrUnknownCostModel: CostModelByName got an unknown name.
//   - ErrOptionViolation: an Option received an invalid value.
package pather
