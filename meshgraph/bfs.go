package meshgraph

import (
	"context"
	"fmt"
)

type queueItem struct {
	id    int
	depth int
}

// walker holds the mutable state of one BFS.
type walker struct {
	graph   *Graph
	opts    BFSOptions
	ctx     context.Context
	queue   []queueItem
	visited map[int]bool
	res     *BFSResult
}

// BFS walks g breadth-first from start.
//
// Errors: ErrNodeNotFound, ErrOptionViolation, context errors, and wrapped
// OnVisit errors.
func BFS(g *Graph, start int, opts ...Option) (*BFSResult, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, start)
	}

	n := g.Len()
	w := &walker{
		graph:   g,
		opts:    o,
		ctx:     o.Ctx,
		queue:   make([]queueItem, 0, n),
		visited: make(map[int]bool, n),
		res: &BFSResult{
			Order:  make([]int, 0, n),
			Depth:  make(map[int]int, n),
			Parent: make(map[int]int, n),
		},
	}
	w.enqueue(start, 0, -1)

	return w.res, w.loop()
}

func (w *walker) enqueue(id, depth, parent int) {
	w.visited[id] = true
	w.res.Depth[id] = depth
	if parent >= 0 {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: depth})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("meshgraph: OnVisit error at %d: %w", item.id, err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, nbr := range w.graph.Neighbors(item.id) {
			if w.visited[nbr] || !w.opts.FilterNeighbor(item.id, nbr) {
				continue
			}
			w.enqueue(nbr, next, item.id)
		}
	}
	return nil
}

// Component returns the ids reachable from start, ascending.
func Component(g *Graph, start int) ([]int, error) {
	res, err := BFS(g, start)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(res.Order))
	for _, id := range g.ids {
		if _, ok := res.Depth[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}
