// Package meshgraph is the adjacency view of a finished capacity mesh: leaves
// as vertices, mesh edges as undirected links, neighbor lists sorted by id.
//
// What:
//
//   - Graph: node lookup and sorted neighbor lists, shared by the pather.
//   - BFS: breadth-first walk with context cancellation, hop limit, neighbor
//     filter and visit hook. Used to carve pathing sections and to check
//     terminal reachability.
//   - Component: the connected component of a node.
//
// Determinism: neighbors are enqueued in ascending id order, so the visit
// order is reproducible.
//
// Complexity: New is O(V + E log E); BFS and Component are O(V + E).
//
// Errors:
//
//   - ErrNodeNotFound: start id is not in the graph.
//   - ErrDanglingEdge: an edge names a missing node.
//   - ErrOptionViolation: negative MaxDepth.
package meshgraph
