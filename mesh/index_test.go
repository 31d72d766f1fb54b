package mesh_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/mesh"
)

func TestComputeEdges_MatchesBruteForce(t *testing.T) {
	in := crossBoard()
	leaves := build(t, in).Leaves()

	got := mesh.ComputeEdges(leaves, in.Bounds)
	require.NotEmpty(t, got)
	require.True(t, slices.IsSortedFunc(got, func(x, y mesh.Edge) int {
		if x.A != y.A {
			return x.A - y.A
		}
		return x.B - y.B
	}))

	var want []mesh.Edge
	for i := range leaves {
		for j := range leaves {
			a, b := &leaves[i], &leaves[j]
			if a.ID >= b.ID || !a.SharesLayer(b) {
				continue
			}
			if geom.SharedBorder(a.Box, b.Box) > 0 || geom.Overlaps(a.Box, b.Box) {
				want = append(want, mesh.Edge{A: a.ID, B: b.ID})
			}
		}
	}
	slices.SortFunc(want, func(x, y mesh.Edge) int {
		if x.A != y.A {
			return x.A - y.A
		}
		return x.B - y.B
	})
	assert.Equal(t, want, got)
}

func TestComputeEdges_CornerContactIsNotAnEdge(t *testing.T) {
	board := r2.NewBox(0, 0, 2, 2)
	leaves := []mesh.Node{
		{ID: 0, Box: r2.NewBox(0, 0, 1, 1), AvailableZ: []int{0, 1}, Finished: true},
		{ID: 1, Box: r2.NewBox(1, 1, 2, 2), AvailableZ: []int{0, 1}, Finished: true},
		{ID: 2, Box: r2.NewBox(1, 0, 2, 1), AvailableZ: []int{1}, Finished: true},
		{ID: 3, Box: r2.NewBox(0, 1, 1, 2), AvailableZ: []int{0}, Finished: true},
	}
	got := mesh.ComputeEdges(leaves, board)
	assert.Equal(t, []mesh.Edge{{A: 0, B: 2}, {A: 0, B: 3}, {A: 1, B: 2}, {A: 1, B: 3}}, got)
}

func TestComputeEdges_LayerMismatch(t *testing.T) {
	board := r2.NewBox(0, 0, 2, 1)
	leaves := []mesh.Node{
		{ID: 4, Box: r2.NewBox(0, 0, 1, 1), AvailableZ: []int{0}, Finished: true},
		{ID: 9, Box: r2.NewBox(1, 0, 2, 1), AvailableZ: []int{1}, Finished: true},
	}
	assert.Empty(t, mesh.ComputeEdges(leaves, board))
}

func TestLeafIndex_LocateSharedBorder(t *testing.T) {
	board := r2.NewBox(0, 0, 2, 1)
	leaves := []mesh.Node{
		{ID: 0, Box: r2.NewBox(0, 0, 1, 1), AvailableZ: []int{0, 1}, Finished: true},
		{ID: 1, Box: r2.NewBox(1, 0, 2, 1), AvailableZ: []int{0, 1}, Finished: true},
	}
	idx := mesh.NewLeafIndex(leaves, board)

	// The shared border belongs to the box it opens.
	id, err := idx.Locate(r2.Vec{X: 1, Y: 0.5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	// The far board edge is closed.
	id, err = idx.Locate(r2.Vec{X: 2, Y: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = idx.Locate(r2.Vec{X: 0.5, Y: 0.5}, 2)
	require.ErrorIs(t, err, mesh.ErrTerminalNotFound)

	_, ok := idx.Leaf(7)
	assert.False(t, ok)

	id, err = mesh.FindTerminalNode(leaves, board, r2.Vec{X: 0.25, Y: 0.75}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, id)
}

func TestCapacity(t *testing.T) {
	o := mesh.DefaultOptions()
	assert.InDelta(t, 1.0, mesh.Capacity(1, o), 1e-12)
	assert.Zero(t, mesh.Capacity(0, o))

	prev := 0.0
	for w := 0.1; w < 20; w += 0.37 {
		c := mesh.Capacity(w, o)
		require.GreaterOrEqual(t, c, prev, "width %g", w)
		prev = c
	}

	o.MaxCapacityFactor = 3
	assert.InDelta(t, 3.0, mesh.Capacity(1, o), 1e-12)
}
