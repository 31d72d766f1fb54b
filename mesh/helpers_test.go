package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/mesh"
)

// crossBoard is the 10×10 two-layer board with a 4×4 obstacle at (5,5) on
// both layers and two crossing connections on the top layer.
func crossBoard() mesh.Input {
	return mesh.Input{
		Bounds: r2.NewBox(0, 0, 10, 10),
		Obstacles: []mesh.Obstacle{{
			Box:    geom.Box(r2.Vec{X: 5, Y: 5}, 4, 4),
			Layers: []string{"top", "bottom"},
			Z:      []int{0, 1},
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

func build(t *testing.T, in mesh.Input, opts ...mesh.Option) *mesh.Builder {
	t.Helper()
	b, err := mesh.NewBuilder(in, opts...)
	require.NoError(t, err)
	b.Solve()
	require.True(t, b.Solved(), "builder failed: %v", b.Err())
	return b
}

// insideObstacle reports whether p lies in an obstacle present on layer z.
func insideObstacle(in mesh.Input, p r2.Vec, z int) bool {
	for i := range in.Obstacles {
		o := &in.Obstacles[i]
		if o.HasZ(z) && o.Box.Contains(p) {
			return true
		}
	}
	return false
}
