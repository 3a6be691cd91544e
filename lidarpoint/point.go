// Package lidarpoint holds the lidar Point type, point storage, the
// "better of two points at the same location" ordering, and the grid-cell
// thinning pass that reduces raw tile density down to at most one point
// per resolution cell.
package lidarpoint

import "github.com/mholling/las2poly/vec"

// groundClass is the LAS classification code for "ground".
const groundClass = 2

// Point is a single lidar return: a 2D key position plus elevation and the
// classification flags that drive thinning, ground selection, and
// region classification.
type Point struct {
	X, Y           float64
	Elevation      float64
	Classification byte
	KeyPoint       bool
	Withheld       bool
	Overlap        bool
}

// Position returns the point's 2D location.
func (p Point) Position() vec.Vector2 {
	return vec.Vector2{X: p.X, Y: p.Y}
}

// Vector3 returns the point as a 3D coordinate (x, y, elevation).
func (p Point) Vector3() vec.Vector3 {
	return vec.Vector3{X: p.X, Y: p.Y, Z: p.Elevation}
}

// Ground reports whether this point has already been classified as ground.
func (p Point) Ground() bool {
	return p.Classification == groundClass
}

// Synthetic reports whether this point was withheld/synthesized, rather
// than a genuine return (the original overloads "withheld" for this).
func (p Point) Synthetic() bool {
	return p.Withheld
}

// SetGround reclassifies the point as ground at the given interpolated
// elevation.
func (p Point) SetGround(elevation float64) Point {
	p.Elevation = elevation
	p.Classification = groundClass
	return p
}

// Better reports whether p should be preferred over other when the two
// occupy the same thinning cell: key points win outright, then ground
// points, and ties break toward the higher elevation of the *other* point
// — matching the cross-wired tuple comparison in the original, which
// favours retaining the lower of two competing elevations when neither
// point is a key point or ground.
func (p Point) Better(other Point) bool {
	if p.KeyPoint != other.KeyPoint {
		return p.KeyPoint
	}
	if p.Ground() != other.Ground() {
		return p.Ground()
	}
	return other.Elevation > p.Elevation
}
