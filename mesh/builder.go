package mesh

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/solver"
)

// Builder subdivides the board into capacity-bounded leaves. It is a
// solver.StepSolver: each Step pops one unfinished node and settles its four
// quadrant children.
type Builder struct {
	solver.Base

	in      Input
	opts    Options
	targets *terminalIndex

	// nodes is the arena; ids are indices.
	nodes []Node
	// overlaps holds, per unfinished node id, the obstacles intersecting it.
	// Entries are dropped once the node has been split.
	overlaps map[int][]int
	// stack is the unfinished-node worklist.
	stack []int

	settledArea float64
	totalArea   float64
}

// NewBuilder validates the input and options and seeds the worklist with the
// root node covering the whole board on every layer.
//
// Errors: ErrBadBounds, ErrTooFewLayers, ErrBadLayer, ErrTerminalOutOfBounds,
// ErrOptionViolation.
func NewBuilder(in Input, opts ...Option) (*Builder, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	b := &Builder{
		Base:      solver.NewBase("mesh-builder", o.MaxIterations, o.Logger),
		in:        in,
		opts:      o,
		targets:   newTerminalIndex(in.Bounds, in.Terminals),
		overlaps:  make(map[int][]int),
		totalArea: geom.Area(in.Bounds) * float64(in.LayerCount),
	}

	allZ := make([]int, in.LayerCount)
	for z := range allZ {
		allZ[z] = z
	}
	all := make([]int, len(in.Obstacles))
	for i := range all {
		all[i] = i
	}
	size := in.Bounds.Size()
	b.admit(Node{
		Box:        in.Bounds,
		Center:     in.Bounds.Center(),
		Width:      size.X,
		Height:     size.Y,
		AvailableZ: allZ,
		Parent:     NoParent,
	}, all)
	b.updateProgress()

	return b, nil
}

// Step splits one unfinished node.
func (b *Builder) Step() { b.Advance(b.step) }

// Solve splits until the worklist is empty.
func (b *Builder) Solve() { b.Run(b.step) }

func (b *Builder) step() error {
	if len(b.stack) == 0 {
		b.finishRun()
		return nil
	}

	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	parent := b.nodes[id]
	candidates := b.overlaps[id]
	delete(b.overlaps, id)

	for _, q := range geom.Quadrants(parent.Box) {
		size := q.Size()
		b.admit(Node{
			Box:        q,
			Center:     q.Center(),
			Width:      size.X,
			Height:     size.Y,
			Depth:      parent.Depth + 1,
			AvailableZ: slices.Clone(parent.AvailableZ),
			Parent:     id,
		}, candidates)
	}
	b.updateProgress()

	if len(b.stack) == 0 {
		b.finishRun()
	}
	return nil
}

func (b *Builder) finishRun() {
	b.Logger().Debug("mesh complete",
		zap.Int("nodes", len(b.nodes)),
		zap.Int("leaves", b.leafCount()),
		zap.Int("iterations", b.Iterations()))
	b.MarkSolved()
}

// admit places a freshly created node: it is dropped when outside the board,
// split per layer when multi-layer routing through it is unsafe, and
// otherwise settled.
func (b *Builder) admit(n Node, candidates []int) {
	if geom.Outside(n.Box, b.in.Bounds) {
		return
	}
	obs := b.classify(&n, candidates)
	if len(n.AvailableZ) > 1 && b.needsZSplit(&n, obs) {
		b.zSplit(n, obs)
		return
	}
	b.settle(n, obs)
}

// classify fills the obstacle and target flags of n and returns the subset of
// candidates that overlap n on one of its layers.
func (b *Builder) classify(n *Node, candidates []int) []int {
	obs := make([]int, 0, len(candidates))
	for _, i := range candidates {
		o := &b.in.Obstacles[i]
		if !geom.Overlaps(o.Box, n.Box) || !b.sharesLayer(o, n.AvailableZ) {
			continue
		}
		obs = append(obs, i)
	}

	n.ContainsObstacle = len(obs) > 0
	n.CompletelyInsideObstacle = n.ContainsObstacle && b.enclosed(n, obs)

	hits := b.targets.within(n.Box, n.AvailableZ)
	n.ContainsTarget = len(hits) > 0
	n.TargetConnectionName = ""
	if n.ContainsTarget {
		n.TargetConnectionName = b.in.Terminals[hits[0]].ConnectionName
	}

	return obs
}

func (b *Builder) sharesLayer(o *Obstacle, zs []int) bool {
	for _, z := range zs {
		if o.HasZ(z) {
			return true
		}
	}
	return false
}

// enclosed reports whether, on every available layer, one obstacle covers n.
func (b *Builder) enclosed(n *Node, obs []int) bool {
	for _, z := range n.AvailableZ {
		covered := false
		for _, i := range obs {
			o := &b.in.Obstacles[i]
			if o.HasZ(z) && geom.ContainsBox(o.Box, n.Box) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// needsZSplit decides whether a multi-layer node must become one node per layer.
func (b *Builder) needsZSplit(n *Node, obs []int) bool {
	atLimit := n.Depth >= b.opts.MaxDepth
	if n.ContainsTarget && atLimit {
		// The leaf holding a terminal narrows to the terminal's layer.
		return true
	}
	// An obstacle missing from some layer only forces a split once it
	// swallows the node on the layers it occupies; a partial overlap keeps
	// subdividing so multi-layer leaves survive around it.
	for _, i := range obs {
		o := &b.in.Obstacles[i]
		if b.layerPartial(o, n.AvailableZ) && geom.ContainsBox(o.Box, n.Box) {
			return true
		}
	}
	return n.ContainsObstacle && (atLimit || n.Width < b.opts.ViaFitThreshold())
}

// layerPartial reports whether o is absent from at least one of zs.
func (b *Builder) layerPartial(o *Obstacle, zs []int) bool {
	for _, z := range zs {
		if !o.HasZ(z) {
			return true
		}
	}
	return false
}

// zSplit records n as an interior node and settles one single-layer sibling
// per available layer with the same footprint and depth.
func (b *Builder) zSplit(n Node, obs []int) {
	id := b.add(n)
	for _, z := range n.AvailableZ {
		s := n
		s.AvailableZ = []int{z}
		s.Parent = id
		b.settle(s, b.classify(&s, obs))
	}
}

// settle applies the keep/requeue/finish rules to a node whose flags are set.
func (b *Builder) settle(n Node, obs []int) {
	switch {
	case n.CompletelyInsideObstacle && !n.ContainsTarget:
		b.settledArea += geom.Area(n.Box) * float64(len(n.AvailableZ))
	case n.Depth < b.opts.MaxDepth && (n.ContainsTarget || n.ContainsObstacle):
		id := b.add(n)
		b.overlaps[id] = obs
		b.stack = append(b.stack, id)
	default:
		n.Finished = true
		n.TotalCapacity = Capacity(n.Width, b.opts)
		b.add(n)
		b.settledArea += geom.Area(n.Box) * float64(len(n.AvailableZ))
	}
}

func (b *Builder) add(n Node) int {
	n.ID = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return n.ID
}

func (b *Builder) updateProgress() {
	b.SetProgress(b.settledArea / b.totalArea)
}

func (b *Builder) leafCount() int {
	c := 0
	for i := range b.nodes {
		if b.nodes[i].Finished {
			c++
		}
	}
	return c
}

// Nodes returns a copy of the whole arena, interior nodes included.
func (b *Builder) Nodes() []Node {
	out := make([]Node, len(b.nodes))
	for i := range b.nodes {
		out[i] = b.nodes[i].Clone()
	}
	return out
}

// Leaves returns copies of the finished nodes in id order.
func (b *Builder) Leaves() []Node {
	out := make([]Node, 0, b.leafCount())
	for i := range b.nodes {
		if b.nodes[i].Finished {
			out = append(out, b.nodes[i].Clone())
		}
	}
	return out
}

// Node returns a copy of the node with the given id.
func (b *Builder) Node(id int) (Node, error) {
	if id < 0 || id >= len(b.nodes) {
		return Node{}, fmt.Errorf("mesh: node %d out of range [0,%d)", id, len(b.nodes))
	}
	return b.nodes[id].Clone(), nil
}

// Options returns the resolved tuning.
func (b *Builder) Options() Options { return b.opts }
