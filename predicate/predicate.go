// Package predicate implements the two robust geometric predicates the
// mesh package depends on for correctness under floating point error:
// Orient (which side of a directed line a point lies on) and InCircle
// (whether a point lies inside the circle through three others). Both
// follow a three-tier adaptive evaluation: a fast floating-point
// determinant, an error-bound check, and an exact fallback via the exact
// package's expansion arithmetic.
package predicate

import (
	"math"

	"github.com/mholling/las2poly/exact"
	"github.com/mholling/las2poly/vec"
)

const (
	epsilon         = 0.5 * 2.220446049250313e-16 // 0.5*DBL_EPSILON
	orientErrScale  = epsilon * (3 + 16*epsilon)
	circleErrScale  = epsilon * (10 + 96*epsilon)
)

func minmax3(a, b, c float64) (lo, hi float64) {
	lo, hi = math.Min(a, b), math.Max(a, b)
	return math.Min(lo, c), math.Max(hi, c)
}

func minmax4(a, b, c, d float64) (lo, hi float64) {
	lo, hi = minmax3(a, b, c)
	return math.Min(lo, d), math.Max(hi, d)
}

// Orient returns the sign of the signed area of triangle (v1, v2, v3):
// positive if v3 lies to the left of the directed line v1->v2 (the triangle
// is counterclockwise), negative if to the right, zero if colinear.
func Orient(v1, v2, v3 vec.Vector2) int {
	det1 := (v2.X - v1.X) * (v3.Y - v2.Y)
	det2 := (v3.X - v2.X) * (v2.Y - v1.Y)
	det := det1 - det2

	if math.Abs(det) > orientErrScale*(math.Abs(det1)+math.Abs(det2)) {
		return sign(det)
	}

	xMin, xMax := minmax3(v1.X, v2.X, v3.X)
	yMin, yMax := minmax3(v1.Y, v2.Y, v3.Y)

	if (2*xMin > xMax || 2*xMax < xMin) && (2*yMin > yMax || 2*yMax < yMin) {
		d1 := exact.Of(v2.X - v1.X).Mul(exact.Of(v3.Y - v2.Y))
		d2 := exact.Of(v3.X - v2.X).Mul(exact.Of(v2.Y - v1.Y))
		return d1.Sub(d2).Sign()
	}

	ex1, ey1 := exact.Of(v1.X), exact.Of(v1.Y)
	ex2, ey2 := exact.Of(v2.X), exact.Of(v2.Y)
	ex3, ey3 := exact.Of(v3.X), exact.Of(v3.Y)
	d1 := ex1.Mul(ey2).Sub(ex2.Mul(ey1))
	d2 := ex2.Mul(ey3).Sub(ex3.Mul(ey2))
	d3 := ex3.Mul(ey1).Sub(ex1.Mul(ey3))
	return d1.Add(d2).Add(d3).Sign()
}

// InCircle returns the sign of whether v4 lies inside (positive), on
// (zero), or outside (negative) the circle through v1, v2, v3, assuming
// v1, v2, v3 are given in counterclockwise order.
func InCircle(v1, v2, v3, v4 vec.Vector2) int {
	dx1, dy1 := v1.X-v4.X, v1.Y-v4.Y
	dx2, dy2 := v2.X-v4.X, v2.Y-v4.Y
	dx3, dy3 := v3.X-v4.X, v3.Y-v4.Y
	dot1 := dx1*dx1 + dy1*dy1
	dot2 := dx2*dx2 + dy2*dy2
	dot3 := dx3*dx3 + dy3*dy3
	dx2dy3, dx3dy2 := dx2*dy3, dx3*dy2
	dx3dy1, dx1dy3 := dx3*dy1, dx1*dy3
	dx1dy2, dx2dy1 := dx1*dy2, dx2*dy1
	det1 := dot1 * (dx2dy3 - dx3dy2)
	det2 := dot2 * (dx3dy1 - dx1dy3)
	det3 := dot3 * (dx1dy2 - dx2dy1)
	det := det1 + det2 + det3

	errorBound := circleErrScale * (
		dot1*(math.Abs(dx2dy3)+math.Abs(dx3dy2)) +
			dot2*(math.Abs(dx3dy1)+math.Abs(dx1dy3)) +
			dot3*(math.Abs(dx1dy2)+math.Abs(dx2dy1)))

	if math.Abs(det) > errorBound {
		return sign(det)
	}

	xMin, xMax := minmax4(v1.X, v2.X, v3.X, v4.X)
	yMin, yMax := minmax4(v1.Y, v2.Y, v3.Y, v4.Y)

	if (2*xMin > xMax || 2*xMax < xMin) && (2*yMin > yMax || 2*yMax < yMin) {
		return inCircleExact(
			exact.Of(v1.X-v4.X), exact.Of(v1.Y-v4.Y),
			exact.Of(v2.X-v4.X), exact.Of(v2.Y-v4.Y),
			exact.Of(v3.X-v4.X), exact.Of(v3.Y-v4.Y),
		)
	}
	return inCircleExact(
		exact.Of(v1.X).Sub(exact.Of(v4.X)), exact.Of(v1.Y).Sub(exact.Of(v4.Y)),
		exact.Of(v2.X).Sub(exact.Of(v4.X)), exact.Of(v2.Y).Sub(exact.Of(v4.Y)),
		exact.Of(v3.X).Sub(exact.Of(v4.X)), exact.Of(v3.Y).Sub(exact.Of(v4.Y)),
	)
}

func inCircleExact(dx1, dy1, dx2, dy2, dx3, dy3 exact.Expansion) int {
	det1 := dx1.Mul(dx1).Add(dy1.Mul(dy1)).Mul(dx2.Mul(dy3).Sub(dx3.Mul(dy2)))
	det2 := dx2.Mul(dx2).Add(dy2.Mul(dy2)).Mul(dx3.Mul(dy1).Sub(dx1.Mul(dy3)))
	det3 := dx3.Mul(dx3).Add(dy3.Mul(dy3)).Mul(dx1.Mul(dy2).Sub(dx2.Mul(dy1)))
	return det1.Add(det2).Add(det3).Sign()
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
