package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/katalvlaran/capmesh/geom"
)

func TestOverlaps(t *testing.T) {
	a := r2.NewBox(0, 0, 2, 2)
	cases := []struct {
		name string
		b    r2.Box
		want bool
	}{
		{"inside", r2.NewBox(0.5, 0.5, 1, 1), true},
		{"partial", r2.NewBox(1, 1, 3, 3), true},
		{"touching side", r2.NewBox(2, 0, 3, 2), false},
		{"touching corner", r2.NewBox(2, 2, 3, 3), false},
		{"apart", r2.NewBox(5, 5, 6, 6), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, geom.Overlaps(a, tc.b))
			assert.Equal(t, tc.want, geom.Overlaps(tc.b, a))
		})
	}
}

func TestContainsBox(t *testing.T) {
	outer := r2.NewBox(0, 0, 4, 4)
	assert.True(t, geom.ContainsBox(outer, outer))
	assert.True(t, geom.ContainsBox(outer, r2.NewBox(1, 1, 2, 2)))
	assert.False(t, geom.ContainsBox(outer, r2.NewBox(3, 3, 5, 5)))
}

func TestContainsHalfOpen(t *testing.T) {
	board := r2.NewBox(0, 0, 10, 10)
	left := r2.NewBox(0, 0, 5, 10)
	right := r2.NewBox(5, 0, 10, 10)

	// A point on the shared edge belongs to the right box only.
	p := r2.Vec{X: 5, Y: 3}
	assert.False(t, geom.ContainsHalfOpen(left, board, p))
	assert.True(t, geom.ContainsHalfOpen(right, board, p))

	// A point on the board's far edge still belongs to the last box.
	q := r2.Vec{X: 10, Y: 10}
	assert.True(t, geom.ContainsHalfOpen(right, board, q))
	assert.False(t, geom.ContainsHalfOpen(left, board, q))
}

func TestSharedBorder(t *testing.T) {
	a := r2.NewBox(0, 0, 2, 2)
	assert.InDelta(t, 2.0, geom.SharedBorder(a, r2.NewBox(2, 0, 4, 2)), 1e-12)
	assert.InDelta(t, 1.0, geom.SharedBorder(a, r2.NewBox(0, 2, 1, 3)), 1e-12)
	assert.Zero(t, geom.SharedBorder(a, r2.NewBox(2, 2, 3, 3)), "corner contact")
	assert.Zero(t, geom.SharedBorder(a, r2.NewBox(3, 0, 4, 2)), "apart")
}

func TestQuadrants(t *testing.T) {
	q := geom.Quadrants(r2.NewBox(0, 0, 10, 6))
	total := 0.0
	for _, b := range q {
		assert.InDelta(t, 5.0, b.Size().X, 1e-12)
		assert.InDelta(t, 3.0, b.Size().Y, 1e-12)
		total += geom.Area(b)
	}
	assert.InDelta(t, 60.0, total, 1e-12)
	assert.Equal(t, r2.Vec{X: 0, Y: 0}, q[0].Min)
	assert.Equal(t, r2.Vec{X: 10, Y: 6}, q[3].Max)
}

func TestDistAndBox(t *testing.T) {
	assert.InDelta(t, 5.0, geom.Dist(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 4}), 1e-12)
	b := geom.Box(r2.Vec{X: 5, Y: 5}, 4, 2)
	assert.Equal(t, r2.NewBox(3, 4, 7, 6), b)
}
