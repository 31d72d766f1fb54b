package router

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/mesh"
	"github.com/katalvlaran/capmesh/pather"
)

// Sentinel errors.
var (
	// ErrBadInput indicates a malformed board description.
	ErrBadInput = errors.New("router: invalid input")

	// ErrMeshFailed wraps a mesh builder failure.
	ErrMeshFailed = errors.New("router: mesh build failed")

	// ErrPathingFailed wraps a pathing supervisor failure.
	ErrPathingFailed = errors.New("router: pathing failed")
)

// DefaultLayers is used when Input.LayerNames is empty.
var DefaultLayers = []string{"top", "bottom"}

// Rect is an axis-aligned rectangle in board units.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func (r Rect) box() r2.Box { return r2.NewBox(r.MinX, r.MinY, r.MaxX, r.MaxY) }

// Point is a connection terminal.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Layer string  `json:"layer"`
}

// Obstacle is a keep-out rectangle on the named layers.
type Obstacle struct {
	Rect   Rect     `json:"rect"`
	Layers []string `json:"layers"`
}

// Connection joins exactly two points.
type Connection struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Input describes one board to route.
type Input struct {
	Bounds      Rect         `json:"bounds"`
	Obstacles   []Obstacle   `json:"obstacles"`
	Connections []Connection `json:"connections"`
	// LayerNames maps z index to name, top first. Empty means DefaultLayers.
	LayerNames []string `json:"layers,omitempty"`
}

// Result is everything one run produced.
type Result struct {
	RunID string                `json:"run_id"`
	Nodes []mesh.Node           `json:"nodes"`
	Edges []mesh.Edge           `json:"edges"`
	Paths []pather.CapacityPath `json:"paths"`
	// Winner describes the adopted pather parameters.
	Winner string `json:"winner"`
	// Cached is set when the result came from the cache.
	Cached bool `json:"-"`
}

func (in *Input) layers() mesh.Layers {
	if len(in.LayerNames) == 0 {
		return DefaultLayers
	}
	return in.LayerNames
}

// meshInput converts the board to builder input. Terminals are emitted two
// per connection, in connection order.
func (in *Input) meshInput() (mesh.Input, error) {
	layers := in.layers()
	if len(layers) < 2 {
		return mesh.Input{}, fmt.Errorf("%w: need at least two layers, got %d", ErrBadInput, len(layers))
	}

	out := mesh.Input{Bounds: in.Bounds.box(), LayerCount: len(layers)}
	for i, o := range in.Obstacles {
		zs, err := layers.Indices(o.Layers)
		if err != nil {
			return mesh.Input{}, fmt.Errorf("%w: obstacle %d: %w", ErrBadInput, i, err)
		}
		if len(zs) == 0 {
			return mesh.Input{}, fmt.Errorf("%w: obstacle %d has no layers", ErrBadInput, i)
		}
		out.Obstacles = append(out.Obstacles, mesh.Obstacle{Box: o.Rect.box(), Layers: o.Layers, Z: zs})
	}

	seen := make(map[string]bool, len(in.Connections))
	for _, c := range in.Connections {
		if c.Name == "" {
			return mesh.Input{}, fmt.Errorf("%w: connection without a name", ErrBadInput)
		}
		if seen[c.Name] {
			return mesh.Input{}, fmt.Errorf("%w: connection %q declared twice", ErrBadInput, c.Name)
		}
		seen[c.Name] = true
		if len(c.Points) != 2 {
			return mesh.Input{}, fmt.Errorf("%w: connection %q has %d points, want 2", ErrBadInput, c.Name, len(c.Points))
		}
		for _, p := range c.Points {
			z, err := layers.Index(p.Layer)
			if err != nil {
				return mesh.Input{}, fmt.Errorf("%w: connection %q: %w", ErrBadInput, c.Name, err)
			}
			out.Terminals = append(out.Terminals, mesh.Terminal{
				ConnectionName: c.Name,
				Point:          r2.Vec{X: p.X, Y: p.Y},
				Z:              z,
			})
		}
	}
	return out, nil
}
