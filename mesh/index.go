package mesh

import (
	"fmt"
	"slices"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/geom"
)

// R-tree branching factors.
const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

// adjacencyPad grows leaf query rectangles so touching neighbors intersect
// under rtreego's strict overlap test.
const adjacencyPad = 1e-6

// spatialItem adapts an indexed rectangle to rtreego.Spatial.
type spatialItem struct {
	idx  int
	rect rtreego.Rect
}

func (s *spatialItem) Bounds() rtreego.Rect { return s.rect }

// terminalIndex answers "which terminals lie in this box" without scanning
// every terminal.
type terminalIndex struct {
	board     r2.Box
	terminals []Terminal
	tree      *rtreego.Rtree
}

func newTerminalIndex(board r2.Box, terminals []Terminal) *terminalIndex {
	items := make([]rtreego.Spatial, len(terminals))
	for i, t := range terminals {
		items[i] = &spatialItem{idx: i, rect: geom.RTreePoint(t.Point)}
	}

	return &terminalIndex{
		board:     board,
		terminals: terminals,
		tree:      rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, items...),
	}
}

// within returns, in input order, the terminals inside box (half-open) whose
// layer is in zs.
func (ti *terminalIndex) within(box r2.Box, zs []int) []int {
	hits := ti.tree.SearchIntersect(geom.RTreeRect(box, geom.Eps))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		i := h.(*spatialItem).idx
		t := ti.terminals[i]
		if !geom.ContainsHalfOpen(box, ti.board, t.Point) {
			continue
		}
		if _, ok := slices.BinarySearch(zs, t.Z); !ok {
			continue
		}
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// LeafIndex is a spatial index over finished leaves. It derives the edge list
// and resolves terminals to leaf ids.
type LeafIndex struct {
	board  r2.Box
	leaves []Node
	byID   map[int]int
	tree   *rtreego.Rtree
}

// NewLeafIndex indexes leaves (as returned by Builder.Leaves) on the given board.
func NewLeafIndex(leaves []Node, board r2.Box) *LeafIndex {
	items := make([]rtreego.Spatial, len(leaves))
	byID := make(map[int]int, len(leaves))
	for i := range leaves {
		items[i] = &spatialItem{idx: i, rect: geom.RTreeRect(leaves[i].Box, geom.Eps)}
		byID[leaves[i].ID] = i
	}

	return &LeafIndex{
		board:  board,
		leaves: leaves,
		byID:   byID,
		tree:   rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, items...),
	}
}

// Edges returns every pair of leaves that share a border segment of
// positive length (or overlap, for stacked single-layer siblings) and have a
// layer in common, sorted by (A, B).
//
// Complexity: O(N log N + K) for N leaves and K candidate pairs.
func (li *LeafIndex) Edges() []Edge {
	var edges []Edge
	for i := range li.leaves {
		a := &li.leaves[i]
		for _, h := range li.tree.SearchIntersect(geom.RTreeRect(a.Box, adjacencyPad)) {
			b := &li.leaves[h.(*spatialItem).idx]
			if b.ID <= a.ID {
				continue
			}
			if !a.SharesLayer(b) {
				continue
			}
			if geom.SharedBorder(a.Box, b.Box) > 0 || geom.Overlaps(a.Box, b.Box) {
				edges = append(edges, Edge{A: a.ID, B: b.ID})
			}
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		if x.A != y.A {
			return x.A - y.A
		}
		return x.B - y.B
	})

	return edges
}

// Locate returns the id of the leaf containing p (half-open) on layer z.
func (li *LeafIndex) Locate(p r2.Vec, z int) (int, error) {
	found := -1
	for _, h := range li.tree.SearchIntersect(geom.RTreePoint(p)) {
		n := &li.leaves[h.(*spatialItem).idx]
		if !n.HasZ(z) || !geom.ContainsHalfOpen(n.Box, li.board, p) {
			continue
		}
		if found < 0 || n.ID < found {
			found = n.ID
		}
	}
	if found < 0 {
		return 0, fmt.Errorf("%w: (%g,%g) z=%d", ErrTerminalNotFound, p.X, p.Y, z)
	}
	return found, nil
}

// Leaf returns the indexed leaf with the given id.
func (li *LeafIndex) Leaf(id int) (Node, bool) {
	i, ok := li.byID[id]
	if !ok {
		return Node{}, false
	}
	return li.leaves[i], true
}

// ComputeEdges is shorthand for NewLeafIndex(leaves, board).Edges().
func ComputeEdges(leaves []Node, board r2.Box) []Edge {
	return NewLeafIndex(leaves, board).Edges()
}

// FindTerminalNode resolves one terminal without keeping an index around.
// Callers resolving many terminals should build a LeafIndex once.
func FindTerminalNode(leaves []Node, board r2.Box, p r2.Vec, z int) (int, error) {
	return NewLeafIndex(leaves, board).Locate(p, z)
}
