package region

import (
	"math"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/mesh"
	"github.com/mholling/las2poly/vec"
)

// rotateShortestFirst returns the triangle's three edges cyclically
// rotated so the shortest edge comes first, matching the original's
// std::rotate-to-min_element step (the water test treats the triangle's
// longest axis, opposite the shortest edge, as its "downhill" direction).
func rotateShortestFirst(store *lidarpoint.Store, t mesh.Triangle) mesh.Triangle {
	length := func(e mesh.Edge) float64 {
		return store.At(e.To).Position().Sub(store.At(e.From).Position()).SqNorm()
	}
	min := 0
	for i := 1; i < 3; i++ {
		if length(t[i]) < length(t[min]) {
			min = i
		}
	}
	return mesh.Triangle{t[min], t[(min+1)%3], t[(min+2)%3]}
}

func edgeVector3(store *lidarpoint.Store, e mesh.Edge) vec.Vector3 {
	return store.At(e.To).Vector3().Sub(store.At(e.From).Vector3())
}

// IsWater classifies a connected patch of oversized triangles as water
// when its ground-point surface is both nearly flat (little elevation
// change between adjacent ground points, scaled by delta) and nearly
// horizontal (surface normal within slope of vertical). A triangle with a
// withheld vertex adds its full normal length to the vertical component
// only, and counts as two height-difference samples of zero, since a
// withheld return carries no elevation to compare.
func IsWater(store *lidarpoint.Store, triangles []mesh.Triangle, delta, slope float64) bool {
	perpXY := vec.Vector2{}
	perpZ := vec.Summation{}
	deltaSum := vec.Summation{}
	deltaCount := 0

	for _, tri := range triangles {
		edges := rotateShortestFirst(store, tri)
		perp := edgeVector3(store, edges[1]).Cross(edgeVector3(store, edges[2]))

		p0 := store.At(edges[0].From)
		p1 := store.At(edges[1].From)
		p2 := store.At(edges[2].From)

		switch {
		case p0.Withheld || p1.Withheld || p2.Withheld:
			perpZ.Add(perp.Norm())
			deltaCount += 2
		case p0.Ground() && p1.Ground() && p2.Ground():
			perpXY.X += perp.X
			perpXY.Y += perp.Y
			perpZ.Add(perp.Z)
			deltaSum.Add(math.Abs(p1.Elevation - p2.Elevation))
			deltaSum.Add(math.Abs(p2.Elevation - p0.Elevation))
			deltaCount += 2
		}
	}

	if deltaCount == 0 {
		return false
	}
	norm := math.Sqrt(perpXY.X*perpXY.X + perpXY.Y*perpXY.Y + perpZ.Sum*perpZ.Sum)
	return deltaSum.Sum < delta*float64(deltaCount) && math.Abs(perpZ.Sum) > math.Cos(slope)*norm
}
