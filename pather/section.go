package pather

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/meshgraph"
)

// Section is a connected neighborhood of the mesh: every leaf within
// Degrees hops of Center.
type Section struct {
	Center  int
	Degrees int
	// IDs lists the member leaves in BFS order, Center first.
	IDs []int
}

// Contains reports whether id belongs to the section.
func (s Section) Contains(id int) bool {
	return slices.Contains(s.IDs, id)
}

// NewSection collects the leaves within degrees hops of center.
// degrees == 0 yields the whole connected component.
func NewSection(g *meshgraph.Graph, center, degrees int) (Section, error) {
	res, err := meshgraph.BFS(g, center, meshgraph.WithMaxDepth(degrees))
	if err != nil {
		return Section{}, fmt.Errorf("pather: section around %d: %w", center, err)
	}
	return Section{Center: center, Degrees: degrees, IDs: res.Order}, nil
}

// NewSectionPather re-routes the connections that start and end inside s,
// using only the section's leaves. Nodes and the seed ledger are copied, so
// the section run never touches the caller's state. Connections with an
// endpoint outside the section are dropped.
func NewSectionPather(g *meshgraph.Graph, s Section, conns []Connection, opts ...Option) (*Pather, error) {
	member := make(map[int]bool, len(s.IDs))
	nodes := make([]mesh.Node, 0, len(s.IDs))
	for _, id := range s.IDs {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: section member %d", ErrUnknownNode, id)
		}
		member[id] = true
		nodes = append(nodes, n.Clone())
	}

	var edges []mesh.Edge
	for _, id := range s.IDs {
		for _, nb := range g.Neighbors(id) {
			if id < nb && member[nb] {
				edges = append(edges, mesh.Edge{A: id, B: nb})
			}
		}
	}
	sub, err := meshgraph.New(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("pather: %w", err)
	}

	kept := make([]Connection, 0, len(conns))
	for _, c := range conns {
		if member[c.Start] && member[c.End] {
			kept = append(kept, c)
		}
	}

	return newPather("section-pather", sub, kept, opts)
}
