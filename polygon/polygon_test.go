package polygon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/vec"
)

func square(x0, y0, side float64) []vec.Vector2 {
	return []vec.Vector2{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

func TestRingAnticlockwiseAndArea(t *testing.T) {
	r := NewRing(square(0, 0, 10))
	require.True(t, r.Anticlockwise())
	require.InDelta(t, 100.0, r.SignedArea(true), 1e-9)
}

func TestNestAssignsHoleToEnclosingOuter(t *testing.T) {
	outer := NewRing(square(0, 0, 10))
	var hole []vec.Vector2
	for _, v := range square(4, 4, 2) {
		hole = append(hole, v)
	}
	// reverse to make it clockwise (a hole, opposite winding to the outer)
	for i, j := 0, len(hole)-1; i < j; i, j = i+1, j-1 {
		hole[i], hole[j] = hole[j], hole[i]
	}
	holeRing := NewRing(hole)
	require.False(t, holeRing.Anticlockwise())

	polygons := Nest([]*Ring{outer, holeRing}, true)
	require.Len(t, polygons, 1)
	require.Len(t, polygons[0].Holes, 1)
}

func TestSimplifyRemovesCollinearCorner(t *testing.T) {
	verts := []vec.Vector2{
		{X: 0, Y: 0}, {X: 5, Y: 0.0000001}, {X: 10, Y: 0},
		{X: 10, Y: 10}, {X: 0, Y: 10},
	}
	r := NewRing(verts)
	polygons := []Polygon{{Outer: r}}
	Simplify(polygons, 1.0, false)
	require.LessOrEqual(t, r.Size(), 4)
}

func TestSmoothReducesSharpCorner(t *testing.T) {
	verts := []vec.Vector2{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 1}, {X: 0, Y: 10},
	}
	r := NewRing(verts)
	polygons := []Polygon{{Outer: r}}
	before := r.SignedArea(true)
	Smooth(polygons, 0.5, 15*math.Pi/180, true)
	require.NotZero(t, before)
	require.NotEqual(t, before, r.SignedArea(true))
}
