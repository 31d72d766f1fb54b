package meshgraph

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and traversal.
var (
	// ErrNodeNotFound is returned when an id is not a node of the graph.
	ErrNodeNotFound = errors.New("meshgraph: node not found")

	// ErrDanglingEdge is returned when an edge names a node missing from the node list.
	ErrDanglingEdge = errors.New("meshgraph: edge references unknown node")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("meshgraph: invalid option supplied")
)

// Option configures BFS.
// An invalid Option is recorded and surfaced as ErrOptionViolation by BFS.
type Option func(*BFSOptions)

// BFSOptions holds the parameters of a breadth-first walk.
type BFSOptions struct {
	// Ctx allows cancellation.
	Ctx context.Context

	// MaxDepth, if > 0, stops exploring beyond this many hops.
	// Zero means no limit.
	MaxDepth int

	// FilterNeighbor can skip the step curr→neighbor by returning false.
	FilterNeighbor func(curr, neighbor int) bool

	// OnVisit runs for every visited node; an error aborts the walk.
	OnVisit func(id, depth int) error

	err error
}

// DefaultOptions returns a background context, no depth limit, no filter
// and a no-op visit hook.
func DefaultOptions() BFSOptions {
	return BFSOptions{
		Ctx:            context.Background(),
		FilterNeighbor: func(_, _ int) bool { return true },
		OnVisit:        func(int, int) error { return nil },
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *BFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxDepth limits the walk to d hops from the start (d == 0: no limit).
func WithMaxDepth(d int) Option {
	return func(o *BFSOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterNeighbor skips neighbors when fn returns false.
func WithFilterNeighbor(fn func(curr, neighbor int) bool) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// WithOnVisit registers a visit hook; returning an error stops the walk.
func WithOnVisit(fn func(id, depth int) error) Option {
	return func(o *BFSOptions) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// BFSResult is the outcome of a walk.
//   - Order: nodes in visit sequence.
//   - Depth: hop count from the start.
//   - Parent: predecessor in the BFS tree; the start has none.
type BFSResult struct {
	Order  []int
	Depth  map[int]int
	Parent map[int]int
}

// PathTo rebuilds the hop path from the start to dest.
func (r *BFSResult) PathTo(dest int) ([]int, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("meshgraph: no path to %d", dest)
	}
	path := []int{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
