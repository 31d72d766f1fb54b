package mesh

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sentinel errors for mesh construction and lookup.
var (
	// ErrBadBounds indicates the board bounds have zero or negative area.
	ErrBadBounds = errors.New("mesh: board bounds must have positive area")

	// ErrTooFewLayers indicates LayerCount < 2.
	ErrTooFewLayers = errors.New("mesh: at least two layers are required")

	// ErrBadLayer indicates a z index or layer name outside the layer map.
	ErrBadLayer = errors.New("mesh: unknown layer")

	// ErrTerminalOutOfBounds indicates a terminal outside the board bounds.
	ErrTerminalOutOfBounds = errors.New("mesh: terminal outside board bounds")

	// ErrTerminalNotFound indicates no finished leaf holds a terminal on its layer.
	ErrTerminalNotFound = errors.New("mesh: no leaf contains terminal")

	// ErrOptionViolation indicates an invalid Option value.
	ErrOptionViolation = errors.New("mesh: invalid option supplied")
)

// NoParent marks the root node.
const NoParent = -1

// Node is a rectangular board region with a trace-capacity budget.
// Nodes live in the builder's arena and are addressed by ID; Parent is an
// arena index, so the tree carries no child lists and no pointer cycles.
type Node struct {
	ID     int
	Box    r2.Box
	Center r2.Vec
	Width  float64
	Height float64
	Depth  int

	// AvailableZ lists the layer indices the node may route through, ascending.
	AvailableZ []int

	ContainsObstacle         bool
	ContainsTarget           bool
	CompletelyInsideObstacle bool

	// TargetConnectionName names the first connection whose terminal lies in
	// the node, when ContainsTarget is set.
	TargetConnectionName string

	Parent int

	// TotalCapacity is set on finished leaves only.
	TotalCapacity float64

	// Finished marks a leaf. Finished nodes are never modified again.
	Finished bool
}

// HasZ reports whether z is one of the node's available layers.
func (n *Node) HasZ(z int) bool {
	_, ok := slices.BinarySearch(n.AvailableZ, z)
	return ok
}

// SharesLayer reports whether n and o have at least one layer in common.
func (n *Node) SharesLayer(o *Node) bool {
	for _, z := range n.AvailableZ {
		if o.HasZ(z) {
			return true
		}
	}
	return false
}

// MaxDim is the larger of the node's width and height.
func (n *Node) MaxDim() float64 {
	if n.Width > n.Height {
		return n.Width
	}
	return n.Height
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.AvailableZ = slices.Clone(n.AvailableZ)
	return n
}

// Edge joins two adjacent, layer-compatible leaves. A < B always.
type Edge struct {
	A, B int
}

// Other returns the endpoint of e that is not id.
func (e Edge) Other(id int) int {
	if e.A == id {
		return e.B
	}
	return e.A
}

// Obstacle is an axis-aligned keep-out rectangle present on the layers in Z.
// Layers carries the original layer names; Z is derived from them.
type Obstacle struct {
	Box    r2.Box
	Layers []string
	Z      []int
}

// HasZ reports whether the obstacle is present on layer z.
func (o *Obstacle) HasZ(z int) bool {
	return slices.Contains(o.Z, z)
}

// Terminal is one endpoint of a point-pair connection.
type Terminal struct {
	ConnectionName string
	Point          r2.Vec
	Z              int
}

// Input is everything the mesh builder consumes.
type Input struct {
	Bounds     r2.Box
	Obstacles  []Obstacle
	Terminals  []Terminal
	LayerCount int
}

// Layers maps layer names to z indices by position: Layers{"top","bottom"}
// gives top=0, bottom=1.
type Layers []string

// Index returns the z index of name.
func (l Layers) Index(name string) (int, error) {
	i := slices.Index(l, name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadLayer, name)
	}
	return i, nil
}

// Indices converts names to a sorted, de-duplicated z set.
func (l Layers) Indices(names []string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		z, err := l.Index(name)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// validate checks the input against the layer count and bounds.
func (in *Input) validate() error {
	if in.Bounds.Empty() {
		return ErrBadBounds
	}
	if in.LayerCount < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewLayers, in.LayerCount)
	}
	for i := range in.Obstacles {
		for _, z := range in.Obstacles[i].Z {
			if z < 0 || z >= in.LayerCount {
				return fmt.Errorf("%w: obstacle %d uses z=%d", ErrBadLayer, i, z)
			}
		}
	}
	for i, t := range in.Terminals {
		if t.Z < 0 || t.Z >= in.LayerCount {
			return fmt.Errorf("%w: terminal %d of %q uses z=%d", ErrBadLayer, i, t.ConnectionName, t.Z)
		}
		if !in.Bounds.Contains(t.Point) {
			return fmt.Errorf("%w: %q at (%g,%g)", ErrTerminalOutOfBounds, t.ConnectionName, t.Point.X, t.Point.Y)
		}
	}
	return nil
}
