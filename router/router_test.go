package router_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/cache"
	"github.com/katalvlaran/capmesh/config"
	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/router"
)

func crossBoard() router.Input {
	return router.Input{
		Bounds: router.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		Obstacles: []router.Obstacle{{
			Rect:   router.Rect{MinX: 3, MinY: 3, MaxX: 7, MaxY: 7},
			Layers: []string{"top", "bottom"},
		}},
		Connections: []router.Connection{
			{Name: "conn1", Points: []router.Point{{X: 1, Y: 1, Layer: "top"}, {X: 9, Y: 9, Layer: "top"}}},
			{Name: "conn2", Points: []router.Point{{X: 1, Y: 9, Layer: "top"}, {X: 9, Y: 1, Layer: "top"}}},
		},
		LayerNames: []string{"top", "bottom"},
	}
}

func newRouter(t *testing.T, opts ...router.Option) *router.Router {
	t.Helper()
	r, err := router.New(append([]router.Option{router.WithLogger(zaptest.NewLogger(t))}, opts...)...)
	require.NoError(t, err)
	return r
}

func toVec(p router.Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// requireRoutable checks every path against the returned mesh.
func requireRoutable(t *testing.T, in router.Input, res *router.Result) {
	t.Helper()
	byID := make(map[int]mesh.Node, len(res.Nodes))
	for _, n := range res.Nodes {
		byID[n.ID] = n
	}
	adjacent := make(map[mesh.Edge]bool, len(res.Edges))
	for _, e := range res.Edges {
		adjacent[e] = true
	}

	require.Len(t, res.Paths, len(in.Connections))
	for i, cp := range res.Paths {
		conn := in.Connections[i]
		require.Equal(t, conn.Name, cp.ConnectionName)
		require.NotEmpty(t, cp.NodeIDs)

		first, last := byID[cp.NodeIDs[0]], byID[cp.NodeIDs[len(cp.NodeIDs)-1]]
		assert.True(t, first.Box.Contains(toVec(conn.Points[0])), "%s starts away from its terminal", conn.Name)
		assert.True(t, last.Box.Contains(toVec(conn.Points[1])), "%s ends away from its terminal", conn.Name)

		for j := 1; j < len(cp.NodeIDs); j++ {
			a, b := cp.NodeIDs[j-1], cp.NodeIDs[j]
			if a > b {
				a, b = b, a
			}
			assert.True(t, adjacent[mesh.Edge{A: a, B: b}], "%s hops %d→%d without an edge", conn.Name, a, b)
		}
		for _, id := range cp.NodeIDs {
			assert.False(t, byID[id].ContainsObstacle, "%s crosses obstacle leaf %d", conn.Name, id)
		}
	}
}

func TestRoute_CrossBoard(t *testing.T) {
	in := crossBoard()
	res, err := newRouter(t).Route(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, res.Winner, router.AxisGreedyMultiplier)
	assert.False(t, res.Cached)
	requireRoutable(t, in, res)
}

func TestRoute_Deterministic(t *testing.T) {
	in := crossBoard()
	r := newRouter(t)
	a, err := r.Route(context.Background(), in)
	require.NoError(t, err)
	b, err := r.Route(context.Background(), in)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	if diff := cmp.Diff(a.Paths, b.Paths); diff != "" {
		t.Fatalf("paths differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, a.Winner, b.Winner)
}

func TestRoute_Cache(t *testing.T) {
	in := crossBoard()
	mem := cache.NewMemory()
	r := newRouter(t, router.WithCache(mem))

	first, err := r.Route(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())

	second, err := r.Route(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)
	if diff := cmp.Diff(first.Paths, second.Paths); diff != "" {
		t.Fatalf("cached paths differ:\n%s", diff)
	}
	assert.Equal(t, first.Edges, second.Edges)

	// A different tuning is a different key.
	depth := 4
	other := newRouter(t, router.WithCache(mem), router.WithTuning(&config.Tuning{MaxDepth: &depth}))
	third, err := other.Route(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, mem.Len())
}

func TestRoute_Parallel(t *testing.T) {
	workers := 2
	in := crossBoard()
	r := newRouter(t, router.WithTuning(&config.Tuning{ParallelWorkers: &workers}))

	res, err := r.Route(context.Background(), in)
	require.NoError(t, err)
	requireRoutable(t, in, res)
}

func TestRoute_CrossLayerPastTopOnlyObstacle(t *testing.T) {
	in := router.Input{
		Bounds: router.Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		Obstacles: []router.Obstacle{{
			Rect:   router.Rect{MinX: 8, MinY: 1, MaxX: 8.5, MaxY: 1.5},
			Layers: []string{"top"},
		}},
		Connections: []router.Connection{
			{Name: "via1", Points: []router.Point{{X: 1, Y: 1, Layer: "top"}, {X: 9, Y: 9, Layer: "bottom"}}},
			{Name: "via2", Points: []router.Point{{X: 9, Y: 1, Layer: "bottom"}, {X: 1, Y: 9, Layer: "top"}}},
		},
	}
	res, err := newRouter(t).Route(context.Background(), in)
	require.NoError(t, err)
	requireRoutable(t, in, res)

	multi := make(map[int]bool)
	for _, n := range res.Nodes {
		if len(n.AvailableZ) == 2 {
			multi[n.ID] = true
		}
	}
	require.NotEmpty(t, multi)
	for _, cp := range res.Paths {
		crosses := false
		for _, id := range cp.NodeIDs {
			crosses = crosses || multi[id]
		}
		assert.True(t, crosses, "%s changes layer without a multi-layer leaf", cp.ConnectionName)
	}
}

func TestRoute_ParallelMatchesSequential(t *testing.T) {
	in := crossBoard()
	in.Connections = append(in.Connections,
		router.Connection{Name: "conn3", Points: []router.Point{{X: 1, Y: 5, Layer: "top"}, {X: 9, Y: 5, Layer: "top"}}},
		router.Connection{Name: "conn4", Points: []router.Point{{X: 5, Y: 1, Layer: "bottom"}, {X: 5, Y: 9, Layer: "bottom"}}},
		router.Connection{Name: "conn5", Points: []router.Point{{X: 2, Y: 2, Layer: "top"}, {X: 8, Y: 2, Layer: "bottom"}}},
	)

	seq, err := newRouter(t).Route(context.Background(), in)
	require.NoError(t, err)

	workers := 3
	par, err := newRouter(t, router.WithTuning(&config.Tuning{ParallelWorkers: &workers})).Route(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, seq.Winner, par.Winner)
	if diff := cmp.Diff(seq.Paths, par.Paths); diff != "" {
		t.Fatalf("parallel paths differ (-sequential +parallel):\n%s", diff)
	}
}

func TestRoute_HardGateStillRoutesOpenBoard(t *testing.T) {
	gate := "hard"
	in := crossBoard()
	in.Obstacles = nil
	r := newRouter(t, router.WithTuning(&config.Tuning{Gate: &gate}))

	res, err := r.Route(context.Background(), in)
	require.NoError(t, err)
	requireRoutable(t, in, res)
}

func TestRoute_BadInput(t *testing.T) {
	cases := map[string]func(*router.Input){
		"one layer":      func(in *router.Input) { in.LayerNames = []string{"top"} },
		"unknown layer":  func(in *router.Input) { in.Connections[0].Points[0].Layer = "inner1" },
		"obstacle layer": func(in *router.Input) { in.Obstacles[0].Layers = []string{"mid"} },
		"three points": func(in *router.Input) {
			in.Connections[1].Points = append(in.Connections[1].Points, router.Point{X: 5, Y: 9, Layer: "top"})
		},
		"duplicate name": func(in *router.Input) { in.Connections[1].Name = "conn1" },
		"empty name":     func(in *router.Input) { in.Connections[0].Name = "" },
		"outside board":  func(in *router.Input) { in.Connections[0].Points[1].X = 12 },
		"flat board":     func(in *router.Input) { in.Bounds.MaxY = 0 },
	}
	r := newRouter(t)
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			in := crossBoard()
			edit(&in)
			_, err := r.Route(context.Background(), in)
			require.ErrorIs(t, err, router.ErrBadInput)
		})
	}
}

func TestRoute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRouter(t).Route(ctx, crossBoard())
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidTuning(t *testing.T) {
	model := "manhattan"
	_, err := router.New(router.WithTuning(&config.Tuning{CostModel: &model}))
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRoute_DefaultLayers(t *testing.T) {
	in := crossBoard()
	in.LayerNames = nil
	res, err := newRouter(t).Route(context.Background(), in)
	require.NoError(t, err)
	requireRoutable(t, in, res)
}
