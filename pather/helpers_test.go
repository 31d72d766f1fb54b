package pather_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/meshgraph"
	"github.com/katalvlaran/capmesh/pather"
)

// grid returns w×h unit leaves on both layers; id = y*w + x.
func grid(w, h int, capacity float64) []mesh.Node {
	nodes := make([]mesh.Node, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			nodes = append(nodes, mesh.Node{
				ID:            y*w + x,
				Box:           geom.Box(c, 1, 1),
				Center:        c,
				Width:         1,
				Height:        1,
				AvailableZ:    []int{0, 1},
				Parent:        mesh.NoParent,
				TotalCapacity: capacity,
				Finished:      true,
			})
		}
	}
	return nodes
}

// gridEdges links 4-neighbors of a w×h grid, sorted by (A, B).
func gridEdges(w, h int) []mesh.Edge {
	var edges []mesh.Edge
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := y*w + x
			if x+1 < w {
				edges = append(edges, mesh.Edge{A: id, B: id + 1})
			}
			if y+1 < h {
				edges = append(edges, mesh.Edge{A: id, B: id + w})
			}
		}
	}
	return edges
}

func solve(t *testing.T, nodes []mesh.Node, edges []mesh.Edge, conns []pather.Connection, opts ...pather.Option) *pather.Pather {
	t.Helper()
	p, err := pather.New(nodes, edges, conns, opts...)
	require.NoError(t, err)
	p.Solve()
	return p
}

// requireWalk checks that path runs from start to end over mesh edges.
func requireWalk(t *testing.T, g *meshgraph.Graph, path []int, start, end int) {
	t.Helper()
	require.NotEmpty(t, path)
	require.Equal(t, start, path[0])
	require.Equal(t, end, path[len(path)-1])
	for i := 1; i < len(path); i++ {
		require.Contains(t, g.Neighbors(path[i-1]), path[i], "step %d→%d is not an edge", path[i-1], path[i])
	}
}

// crossBoard is a 10×10 board with a 4×4 obstacle in the middle and two
// connections that would cross it.
func crossBoard() mesh.Input {
	return mesh.Input{
		Bounds: r2.NewBox(0, 0, 10, 10),
		Obstacles: []mesh.Obstacle{{
			Box: geom.Box(r2.Vec{X: 5, Y: 5}, 4, 4),
			Z:   []int{0, 1},
		}},
		Terminals: []mesh.Terminal{
			{ConnectionName: "conn1", Point: r2.Vec{X: 1, Y: 1}, Z: 0},
			{ConnectionName: "conn1", Point: r2.Vec{X: 9, Y: 9}, Z: 0},
			{ConnectionName: "conn2", Point: r2.Vec{X: 1, Y: 9}, Z: 0},
			{ConnectionName: "conn2", Point: r2.Vec{X: 9, Y: 1}, Z: 0},
		},
		LayerCount: 2,
	}
}

// meshed builds the board and resolves its terminal pairs to connections.
func meshed(t *testing.T, in mesh.Input) ([]mesh.Node, []mesh.Edge, []pather.Connection) {
	t.Helper()
	b, err := mesh.NewBuilder(in)
	require.NoError(t, err)
	b.Solve()
	require.True(t, b.Solved(), "mesh: %v", b.Err())

	leaves := b.Leaves()
	idx := mesh.NewLeafIndex(leaves, in.Bounds)
	var conns []pather.Connection
	for i := 0; i+1 < len(in.Terminals); i += 2 {
		a, err := idx.Locate(in.Terminals[i].Point, in.Terminals[i].Z)
		require.NoError(t, err)
		z, err := idx.Locate(in.Terminals[i+1].Point, in.Terminals[i+1].Z)
		require.NoError(t, err)
		conns = append(conns, pather.Connection{Name: in.Terminals[i].ConnectionName, Start: a, End: z})
	}
	return leaves, idx.Edges(), conns
}
