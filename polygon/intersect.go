package polygon

import (
	"github.com/mholling/las2poly/predicate"
	"github.com/mholling/las2poly/vec"
)

// orient mirrors segment.hpp's segment<=>vertex: the same three-term
// shoelace determinant as predicate.Orient, reused here so the polygon
// package reads like the rest of the geometric code rather than naming
// predicate.Orient directly at every call site.
func orient(from, to, v vec.Vector2) int {
	return predicate.Orient(from, to, v)
}

// segmentsIntersect reports whether closed segments u0-u1 and v0-v1 cross
// or touch, including the touching-endpoint case, per segment.hpp's operator&.
func segmentsIntersect(u0, u1, v0, v1 vec.Vector2) bool {
	u0u1v0 := orient(u0, u1, v0)
	u0u1v1 := orient(u0, u1, v1)
	if u0u1v0 == 0 && u0u1v1 == 0 {
		return vec.BoundsOf(u0).Union(vec.BoundsOf(u1)).Overlaps(vec.BoundsOf(v0).Union(vec.BoundsOf(v1)))
	}
	v0v1u0 := orient(v0, v1, u0)
	v0v1u1 := orient(v0, v1, u1)
	return u0u1v0 != u0u1v1 && v0v1u0 != v0v1u1
}
