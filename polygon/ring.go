// Package polygon nests stitched rings into outer/hole polygons and
// simplifies/smooths their boundaries while preserving topology.
package polygon

import (
	"sort"

	"github.com/mholling/las2poly/vec"
)

// Ring is a closed boundary represented as a doubly linked list of
// corners, so Simplify and Smooth can erase or relocate a corner in O(1)
// without invalidating the rest of the ring (a plain []vec.Vector2 slice
// would shift every later index on each erase).
type Ring struct {
	any  *corner
	size int
}

// NewRing builds a ring from an ordered, non-repeating vertex loop (as
// produced by ring.Stitch).
func NewRing(vertices []vec.Vector2) *Ring {
	r := &Ring{size: len(vertices)}
	if len(vertices) == 0 {
		return r
	}
	corners := make([]*corner, len(vertices))
	for i, v := range vertices {
		corners[i] = &corner{ring: r, vertex: v}
	}
	n := len(corners)
	for i, c := range corners {
		c.prev = corners[(i-1+n)%n]
		c.next = corners[(i+1)%n]
	}
	r.any = corners[0]
	return r
}

func (r *Ring) Size() int { return r.size }

// Corners returns a snapshot of every corner in the ring, in order.
// Taking a snapshot up front means callers can erase corners mid-range
// without disturbing the iteration.
func (r *Ring) Corners() []*corner {
	if r.size == 0 {
		return nil
	}
	out := make([]*corner, 0, r.size)
	start := r.any
	for c := start; ; {
		out = append(out, c)
		c = c.next
		if c == start {
			break
		}
	}
	return out
}

// Vertices returns the ring's vertex loop in order.
func (r *Ring) Vertices() []vec.Vector2 {
	corners := r.Corners()
	out := make([]vec.Vector2, len(corners))
	for i, c := range corners {
		out[i] = c.vertex
	}
	return out
}

func lessVertex(a, b vec.Vector2) bool {
	return a.X < b.X || (a.X == b.X && a.Y < b.Y)
}

// Anticlockwise reports the ring's winding direction by examining the
// turn at its leftmost (lexicographically smallest) vertex.
func (r *Ring) Anticlockwise() bool {
	corners := r.Corners()
	leftmost := corners[0]
	for _, c := range corners[1:] {
		if lessVertex(c.vertex, leftmost.vertex) {
			leftmost = c
		}
	}
	return leftmost.Cross() > 0
}

// SignedArea returns the ring's signed area. ogc selects the OGC sign
// convention (positive for an anticlockwise ring); otherwise the result
// is its negative (positive for a clockwise ring). Nesting sorts rings by
// this value under the same convention it was given.
func (r *Ring) SignedArea(ogc bool) float64 {
	corners := r.Corners()
	origin := corners[0].vertex
	sum := vec.Summation{}
	for _, c := range corners {
		sum.Add(c.vertex.Sub(origin).Cross(c.next.vertex.Sub(origin)))
	}
	if ogc {
		return sum.Sum * 0.5
	}
	return sum.Sum * -0.5
}

// windingAt computes the winding number of this ring around v, used by
// Contains to test point-in-polygon membership.
func (r *Ring) windingAt(v vec.Vector2) int {
	winding := 0
	for _, c := range r.Corners() {
		v1, v2 := c.vertex, c.next.vertex
		switch {
		case v1 == v:
			return 0
		case lessVertex(v1, v) && !lessVertex(v2, v) && v1.Sub(v).Cross(v2.Sub(v)) > 0:
			winding++
		case lessVertex(v2, v) && !lessVertex(v1, v) && v2.Sub(v).Cross(v1.Sub(v)) > 0:
			winding--
		}
	}
	return winding
}

// Contains reports whether this ring encloses any vertex of other — since
// rings never cross (they derive from a single non-self-intersecting
// stitch), testing one vertex is enough to decide the whole ring.
func (r *Ring) Contains(other *Ring) bool {
	return r.windingAt(other.any.vertex) != 0
}

// sortRingsByArea orders rings by ascending signed area under the given
// convention, matching the nesting pass's containment-assignment order.
func sortRingsByArea(rings []*Ring, ogc bool) {
	sort.Slice(rings, func(i, j int) bool {
		return rings[i].SignedArea(ogc) < rings[j].SignedArea(ogc)
	})
}
