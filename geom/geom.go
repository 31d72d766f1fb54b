// Package geom holds the small set of planar helpers shared by the mesh
// builder and the pather. Boxes and points are gonum r2 values; boxes are
// always canonical (Min ≤ Max on both axes).
//
// Complexity: every helper is O(1).
package geom

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

// Eps is the tolerance used for touching and containment tests.
const Eps = 1e-9

// Box builds a canonical box from a center and a size.
func Box(center r2.Vec, width, height float64) r2.Box {
	return r2.NewBox(center.X-width/2, center.Y-height/2, center.X+width/2, center.Y+height/2)
}

// Dist is the Euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Overlaps reports whether a and b share a region of positive area.
func Overlaps(a, b r2.Box) bool {
	return a.Min.X < b.Max.X-Eps && b.Min.X < a.Max.X-Eps &&
		a.Min.Y < b.Max.Y-Eps && b.Min.Y < a.Max.Y-Eps
}

// ContainsBox reports whether inner lies entirely inside outer (boundaries
// may coincide).
func ContainsBox(outer, inner r2.Box) bool {
	return inner.Min.X >= outer.Min.X-Eps && inner.Max.X <= outer.Max.X+Eps &&
		inner.Min.Y >= outer.Min.Y-Eps && inner.Max.Y <= outer.Max.Y+Eps
}

// Outside reports whether a has no positive-area overlap with bounds.
func Outside(a, bounds r2.Box) bool {
	return !Overlaps(a, bounds)
}

// ContainsHalfOpen reports whether p lies in [Min,Max) of box on both axes.
// An axis whose Max coincides with the board edge is closed so that points on
// the far board boundary still belong to exactly one box.
func ContainsHalfOpen(box, board r2.Box, p r2.Vec) bool {
	return inHalfOpen(p.X, box.Min.X, box.Max.X, board.Max.X) &&
		inHalfOpen(p.Y, box.Min.Y, box.Max.Y, board.Max.Y)
}

func inHalfOpen(v, lo, hi, edge float64) bool {
	if v < lo {
		return false
	}
	if v < hi {
		return true
	}
	return math.Abs(hi-edge) <= Eps && math.Abs(v-hi) <= Eps
}

// SharedBorder returns the length of the border segment a and b have in
// common when they touch along a side, or 0 when they only meet at a corner,
// overlap, or are apart.
func SharedBorder(a, b r2.Box) float64 {
	switch {
	case math.Abs(a.Max.X-b.Min.X) <= Eps || math.Abs(b.Max.X-a.Min.X) <= Eps:
		return span(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	case math.Abs(a.Max.Y-b.Min.Y) <= Eps || math.Abs(b.Max.Y-a.Min.Y) <= Eps:
		return span(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	}
	return 0
}

// span is the overlap length of [a0,a1] and [b0,b1], or 0.
func span(a0, a1, b0, b1 float64) float64 {
	l := math.Min(a1, b1) - math.Max(a0, b0)
	if l <= Eps {
		return 0
	}
	return l
}

// Area of a box.
func Area(a r2.Box) float64 {
	s := a.Size()
	return s.X * s.Y
}

// Quadrants splits a box into its four equal children, ordered SW, SE, NW, NE.
func Quadrants(a r2.Box) [4]r2.Box {
	c := a.Center()
	return [4]r2.Box{
		r2.NewBox(a.Min.X, a.Min.Y, c.X, c.Y),
		r2.NewBox(c.X, a.Min.Y, a.Max.X, c.Y),
		r2.NewBox(a.Min.X, c.Y, c.X, a.Max.Y),
		r2.NewBox(c.X, c.Y, a.Max.X, a.Max.Y),
	}
}

// RTreeRect converts a box to an rtreego rectangle grown by pad on every side.
// Degenerate boxes are widened to pad so the rectangle stays valid.
func RTreeRect(a r2.Box, pad float64) rtreego.Rect {
	if pad <= 0 {
		pad = Eps
	}
	min := rtreego.Point{a.Min.X - pad, a.Min.Y - pad}
	max := rtreego.Point{a.Max.X + pad, a.Max.Y + pad}
	r, err := rtreego.NewRectFromPoints(min, max)
	if err != nil {
		// Dimensions always match; NewRectFromPoints only fails on a mismatch.
		panic(err)
	}
	return r
}

// RTreePoint converts a point to a small rtreego rectangle.
func RTreePoint(p r2.Vec) rtreego.Rect {
	return rtreego.Point{p.X, p.Y}.ToRect(Eps)
}
