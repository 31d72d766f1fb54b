package pather

import (
	"container/heap"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/katalvlaran/capmesh/geom"
	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/meshgraph"
	"github.com/katalvlaran/capmesh/solver"
)

// Pather routes connections one after another over the mesh with a
// capacity-aware A*. Each Step pops one candidate of the current connection.
// Every finished path is committed to the ledger before the next connection
// starts, so later connections pay for congestion left by earlier ones.
type Pather struct {
	solver.Base

	graph *meshgraph.Graph
	opts  Options

	conns  []Connection
	order  []int // processing order, as indices into conns
	next   int   // position in order of the connection being searched
	ledger Ledger
	paths  []CapacityPath // indexed like conns
	solved int

	// Per-connection search state, reset by begin.
	searching bool
	open      candidatePQ
	best      map[int]float64
	closed    map[int]bool
	seq       int
	goal      *mesh.Node
	straight  float64
}

// New builds a Pather over finished leaves and their edges.
//
// Errors: ErrUnknownNode when a connection endpoint is not among leaves,
// ErrOptionViolation, and meshgraph.ErrDanglingEdge.
func New(leaves []mesh.Node, edges []mesh.Edge, conns []Connection, opts ...Option) (*Pather, error) {
	g, err := meshgraph.New(slices.Clone(leaves), edges)
	if err != nil {
		return nil, fmt.Errorf("pather: %w", err)
	}
	return newPather("pather", g, conns, opts)
}

func newPather(name string, g *meshgraph.Graph, conns []Connection, opts []Option) (*Pather, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	for _, c := range conns {
		if !g.HasNode(c.Start) || !g.HasNode(c.End) {
			return nil, fmt.Errorf("%w: %q (%d→%d)", ErrUnknownNode, c.Name, c.Start, c.End)
		}
	}

	p := &Pather{
		Base:   solver.NewBase(name, o.MaxIterations, o.Logger),
		graph:  g,
		opts:   o,
		conns:  slices.Clone(conns),
		ledger: o.Ledger.Clone(),
		paths:  make([]CapacityPath, len(conns)),
	}
	p.order = p.processingOrder()

	return p, nil
}

// processingOrder sorts connections by the center distance of their
// endpoints, shortest first; ties keep input order.
func (p *Pather) processingOrder() []int {
	order := make([]int, len(p.conns))
	dist := make([]float64, len(p.conns))
	for i, c := range p.conns {
		order[i] = i
		a, _ := p.graph.Node(c.Start)
		b, _ := p.graph.Node(c.End)
		dist[i] = geom.Dist(a.Center, b.Center)
	}
	slices.SortStableFunc(order, func(x, y int) int {
		switch {
		case dist[x] < dist[y]:
			return -1
		case dist[x] > dist[y]:
			return 1
		}
		return 0
	})
	return order
}

// Step pops and expands one candidate.
func (p *Pather) Step() { p.Advance(p.step) }

// Solve steps until every connection has a path, one fails, or the budget
// runs out.
func (p *Pather) Solve() { p.Run(p.step) }

func (p *Pather) step() error {
	if p.next >= len(p.order) {
		p.MarkSolved()
		return nil
	}
	if !p.searching {
		p.begin()
	}

	conn := p.conns[p.order[p.next]]
	if p.open.Len() == 0 {
		return fmt.Errorf("%w: connection %q", ErrNoPath, conn.Name)
	}

	c := heap.Pop(&p.open).(*candidate)
	if p.closed[c.id] {
		return nil
	}
	p.closed[c.id] = true

	if c.id == conn.End {
		p.commit(c)
		return nil
	}
	p.expand(c, conn)
	return nil
}

// begin resets the search state for the next connection and seeds the open
// set with its start node.
func (p *Pather) begin() {
	conn := p.conns[p.order[p.next]]
	start, _ := p.graph.Node(conn.Start)
	p.goal, _ = p.graph.Node(conn.End)
	p.straight = geom.Dist(start.Center, p.goal.Center)

	p.open = p.open[:0]
	p.best = make(map[int]float64)
	p.closed = make(map[int]bool)
	p.seq = 0
	p.searching = true

	pen := p.opts.CostModel.NodePenalty(start, PenaltyContext{
		Used:                 p.ledger.Used(start.ID),
		StraightLineDistance: p.straight,
		IsPathStart:          true,
	})
	h := geom.Dist(start.Center, p.goal.Center) + pen
	p.push(start.ID, pen, h, nil)
}

func (p *Pather) push(id int, g, h float64, prev *candidate) {
	p.best[id] = g
	heap.Push(&p.open, &candidate{
		id:   id,
		g:    g,
		h:    h,
		f:    g + h*p.opts.GreedyMultiplier,
		prev: prev,
		seq:  p.seq,
	})
	p.seq++
}

// expand relaxes every admissible neighbor of c in ascending id order.
func (p *Pather) expand(c *candidate, conn Connection) {
	cur, _ := p.graph.Node(c.id)
	for _, id := range p.graph.Neighbors(c.id) {
		if p.closed[id] {
			continue
		}
		nb, _ := p.graph.Node(id)
		isGoal := id == conn.End

		if nb.ContainsObstacle && !isGoal {
			continue
		}
		if p.opts.AvoidForeignTargets && !isGoal && nb.ContainsTarget && nb.TargetConnectionName != conn.Name {
			continue
		}
		used := p.ledger.Used(id)
		if p.opts.Gate == GateHard && !isGoal && float64(used) >= nb.TotalCapacity {
			continue
		}

		pen := p.opts.CostModel.NodePenalty(nb, PenaltyContext{Used: used, StraightLineDistance: p.straight})
		g := c.g + p.opts.CostModel.Distance(cur, nb) + pen
		if best, seen := p.best[id]; seen && g >= best {
			continue
		}
		p.push(id, g, geom.Dist(nb.Center, p.goal.Center)+pen, c)
	}
}

// commit stores the path ending at c, charges the ledger and moves on.
func (p *Pather) commit(c *candidate) {
	idx := p.order[p.next]
	conn := p.conns[idx]
	ids := c.path()

	p.paths[idx] = CapacityPath{ConnectionName: conn.Name, NodeIDs: ids}
	p.ledger.Add(ids)
	p.solved++
	p.next++
	p.searching = false
	p.SetProgress(float64(p.solved) / float64(len(p.conns)))

	p.Logger().Debug("connection routed",
		zap.String("connection", conn.Name),
		zap.Int("nodes", len(ids)),
		zap.Float64("cost", c.g),
		zap.Int("expanded", len(p.closed)))

	if p.next >= len(p.order) {
		p.MarkSolved()
	}
}

// Paths returns one path per connection in input order. Connections not yet
// routed have a nil NodeIDs.
func (p *Pather) Paths() []CapacityPath {
	out := make([]CapacityPath, len(p.paths))
	for i, cp := range p.paths {
		out[i] = CapacityPath{ConnectionName: cp.ConnectionName, NodeIDs: slices.Clone(cp.NodeIDs)}
		if out[i].ConnectionName == "" {
			out[i].ConnectionName = p.conns[i].Name
		}
	}
	return out
}

// Ledger returns a copy of the used-capacity ledger, seed included.
func (p *Pather) Ledger() Ledger { return p.ledger.Clone() }

// Options returns the resolved options.
func (p *Pather) Options() Options { return p.opts }
