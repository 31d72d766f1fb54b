package router

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/capmesh/cache"
	"github.com/katalvlaran/capmesh/config"
	"github.com/katalvlaran/capmesh/hyper"
	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/meshgraph"
	"github.com/katalvlaran/capmesh/pather"
)

// cacheNamespace versions the cached result format.
const cacheNamespace = "capmesh/route/v1"

// Supervisor axis names.
const (
	AxisGreedyMultiplier       = "greedy_multiplier"
	AxisNegativeCapacityFactor = "negative_capacity_penalty_factor"
)

// Router runs the whole pipeline: mesh, edges, terminal lookup and the
// supervised pather.
type Router struct {
	tuning *config.Tuning
	cache  cache.Provider
	log    *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithTuning sets the tuning. Nil keeps the defaults.
func WithTuning(t *config.Tuning) Option {
	return func(r *Router) {
		if t != nil {
			r.tuning = t
		}
	}
}

// WithCache enables result caching.
func WithCache(p cache.Provider) Option {
	return func(r *Router) { r.cache = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

// New returns a Router. The tuning is validated here so Route only fails on
// its input.
func New(opts ...Option) (*Router, error) {
	r := &Router{tuning: config.Default(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.tuning.Validate(); err != nil {
		return nil, err
	}
	r.log = r.log.Named("router")
	return r, nil
}

// Route meshes the board and finds one path per connection.
//
// Errors: ErrBadInput (and the mesh validation sentinels it wraps),
// ErrMeshFailed, ErrPathingFailed, mesh.ErrTerminalNotFound, context errors.
func (r *Router) Route(ctx context.Context, in Input) (*Result, error) {
	runID := uuid.NewString()
	log := r.log.With(zap.String("run_id", runID))

	minput, err := in.meshInput()
	if err != nil {
		return nil, err
	}

	key, err := cache.Key(cacheNamespace, struct {
		Input  Input
		Tuning *config.Tuning
	}{in, r.tuning})
	if err != nil {
		return nil, err
	}
	if res, ok := r.lookup(ctx, log, key); ok {
		res.RunID = runID
		return res, nil
	}

	leaves, edges, err := r.buildMesh(ctx, log, minput)
	if err != nil {
		return nil, err
	}
	conns, err := r.connections(log, minput, leaves, edges)
	if err != nil {
		return nil, err
	}
	paths, winner, err := r.route(ctx, log, leaves, edges, conns)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Nodes: leaves, Edges: edges, Paths: paths, Winner: winner}
	r.store(ctx, log, key, res)
	log.Info("route complete",
		zap.Int("leaves", len(leaves)),
		zap.Int("edges", len(edges)),
		zap.Int("connections", len(conns)),
		zap.String("winner", winner))

	return res, nil
}

func (r *Router) lookup(ctx context.Context, log *zap.Logger, key string) (*Result, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, ok, err := r.cache.GetContext(ctx, key)
	if err != nil {
		log.Warn("cache lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		log.Warn("cached result unreadable", zap.Error(err))
		return nil, false
	}
	res.Cached = true
	log.Debug("cache hit", zap.String("key", key))
	return &res, true
}

func (r *Router) store(ctx context.Context, log *zap.Logger, key string, res *Result) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Warn("result not cacheable", zap.Error(err))
		return
	}
	if err := r.cache.SetContext(ctx, key, raw); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
}

func (r *Router) buildMesh(ctx context.Context, log *zap.Logger, in mesh.Input) ([]mesh.Node, []mesh.Edge, error) {
	opts := append(r.tuning.MeshOptions(), mesh.WithLogger(log))
	b, err := mesh.NewBuilder(in, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	for !b.Done() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		b.Step()
	}
	if b.Failed() {
		return nil, nil, fmt.Errorf("%w: %w", ErrMeshFailed, b.Err())
	}

	leaves := b.Leaves()
	return leaves, mesh.ComputeEdges(leaves, in.Bounds), nil
}

// connections resolves each terminal pair to leaf ids and warns about pairs
// the mesh cannot join.
func (r *Router) connections(log *zap.Logger, in mesh.Input, leaves []mesh.Node, edges []mesh.Edge) ([]pather.Connection, error) {
	idx := mesh.NewLeafIndex(leaves, in.Bounds)
	conns := make([]pather.Connection, 0, len(in.Terminals)/2)
	for i := 0; i+1 < len(in.Terminals); i += 2 {
		a, b := in.Terminals[i], in.Terminals[i+1]
		start, err := idx.Locate(a.Point, a.Z)
		if err != nil {
			return nil, fmt.Errorf("router: connection %q start: %w", a.ConnectionName, err)
		}
		end, err := idx.Locate(b.Point, b.Z)
		if err != nil {
			return nil, fmt.Errorf("router: connection %q end: %w", b.ConnectionName, err)
		}
		conns = append(conns, pather.Connection{Name: a.ConnectionName, Start: start, End: end})
	}

	g, err := meshgraph.New(leaves, edges)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	for _, c := range conns {
		comp, err := meshgraph.Component(g, c.Start)
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
		if _, ok := slices.BinarySearch(comp, c.End); !ok {
			log.Warn("connection endpoints are in different mesh components",
				zap.String("connection", c.Name), zap.Int("start", c.Start), zap.Int("end", c.End))
		}
	}
	return conns, nil
}

// route races pather configurations over the supervisor axes.
func (r *Router) route(ctx context.Context, log *zap.Logger, leaves []mesh.Node, edges []mesh.Edge, conns []pather.Connection) ([]pather.CapacityPath, string, error) {
	t := r.tuning
	gate, err := pather.ParseGate(t.GetGate())
	if err != nil {
		return nil, "", err
	}

	var (
		paths  []pather.CapacityPath
		winner string
	)
	sup, err := hyper.New(hyper.Config[*pather.Pather]{
		Name: "capacity pathing",
		Axes: []hyper.Axis{
			{Name: AxisGreedyMultiplier, Values: floats(t.GetGreedyMultipliers())},
			{Name: AxisNegativeCapacityFactor, Values: floats(t.GetNegativeCapacityPenaltyFactors())},
		},
		Combinations: []hyper.CombinationDef{
			{Name: "greedy", Axes: []string{AxisGreedyMultiplier}},
			{Name: "penalty", Axes: []string{AxisNegativeCapacityFactor}},
		},
		New: func(p hyper.Params) (*pather.Pather, error) {
			cm, err := pather.CostModelByName(t.GetCostModel(),
				t.CostParams(p.Float(AxisNegativeCapacityFactor, pather.DefaultNegativeCapacityFactor)))
			if err != nil {
				return nil, err
			}
			opts := []pather.Option{
				pather.WithCostModel(cm),
				pather.WithGate(gate),
				pather.WithGreedyMultiplier(p.Float(AxisGreedyMultiplier, pather.DefaultGreedyMultiplier)),
				pather.WithMaxIterations(t.GetPatherMaxIterations()),
				pather.WithLogger(log),
			}
			if t.GetAvoidForeignTargets() {
				opts = append(opts, pather.WithAvoidForeignTargets())
			}
			return pather.New(leaves, edges, conns, opts...)
		},
		GreedyMultiplier: t.GetSupervisorGreedyMultiplier(),
		MinSubsteps:      t.GetSupervisorMinSubsteps(),
		OnWinner: func(a *hyper.Attempt[*pather.Pather]) {
			paths = a.Solver.Paths()
			winner = a.Params.Key()
		},
		Logger: log,
	})
	if err != nil {
		return nil, "", err
	}

	if w := t.GetParallelWorkers(); w > 0 {
		if err := sup.SolveParallel(ctx, w); err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrPathingFailed, err)
		}
		return paths, winner, nil
	}
	for !sup.Done() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		sup.Step()
	}
	if sup.Failed() {
		return nil, "", fmt.Errorf("%w: %w", ErrPathingFailed, sup.Err())
	}
	return paths, winner, nil
}

func floats(vs []float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
