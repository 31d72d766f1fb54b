package meshgraph

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/capmesh/mesh"
)

// Graph is an undirected adjacency view over mesh leaves. Nodes are keyed by
// mesh node id; neighbor lists are sorted ascending so every walk over the
// graph is reproducible.
type Graph struct {
	nodes map[int]*mesh.Node
	adj   map[int][]int
	ids   []int
}

// New indexes nodes and edges. Every edge endpoint must be one of nodes.
//
// Complexity: O(V + E log E).
func New(nodes []mesh.Node, edges []mesh.Edge) (*Graph, error) {
	g := &Graph{
		nodes: make(map[int]*mesh.Node, len(nodes)),
		adj:   make(map[int][]int, len(nodes)),
		ids:   make([]int, 0, len(nodes)),
	}
	for i := range nodes {
		n := &nodes[i]
		g.nodes[n.ID] = n
		g.ids = append(g.ids, n.ID)
	}
	slices.Sort(g.ids)

	for _, e := range edges {
		if _, ok := g.nodes[e.A]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrDanglingEdge, e.A)
		}
		if _, ok := g.nodes[e.B]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrDanglingEdge, e.B)
		}
		g.adj[e.A] = append(g.adj[e.A], e.B)
		g.adj[e.B] = append(g.adj[e.B], e.A)
	}
	for id, nbrs := range g.adj {
		slices.Sort(nbrs)
		g.adj[id] = slices.Compact(nbrs)
	}

	return g, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*mesh.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Neighbors returns the sorted neighbor ids of id. The slice is shared and
// must not be modified.
func (g *Graph) Neighbors(id int) []int {
	return g.adj[id]
}

// IDs returns every node id in ascending order.
func (g *Graph) IDs() []int {
	return slices.Clone(g.ids)
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }
