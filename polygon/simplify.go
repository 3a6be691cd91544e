package polygon

import (
	"math"
	"sort"

	"github.com/mholling/las2poly/rtree"
	"github.com/mholling/las2poly/vec"
)

// ordinal is the two-level ranking used to pick the next corner to
// remove: corners that would introduce a self-intersection (withhold)
// always sort after safe corners, and within each group the smallest
// turn area goes first.
type ordinal struct {
	withhold bool
	abs      float64
}

func ordLess(a, b ordinal) bool {
	if a.withhold != b.withhold {
		return !a.withhold
	}
	return a.abs < b.abs
}

type candidate struct {
	corner *corner
	ord    ordinal
	bounds vec.Bounds
}

func cornerEq(a, b *corner) bool { return a == b }

// simplifyOneSided repeatedly removes the least-area corner (on the
// erode or dilate side, per erode) whose removal would not cross another
// part of the polygon, until every remaining corner's turn area exceeds
// tolerance. Run twice with opposite erode values, it is a
// topology-preserving corner-removal simplification.
func simplifyOneSided(polygons []Polygon, tolerance float64, erode bool) {
	var all []*corner
	for _, p := range polygons {
		rings := append([]*Ring{p.Outer}, p.Holes...)
		for _, r := range rings {
			all = append(all, r.Corners()...)
		}
	}
	if len(all) == 0 {
		return
	}
	tree := rtree.New(all, 1)

	ordinalOf := func(c *corner) ordinal {
		cross := c.Cross()
		if erode == (cross < 0) || c.RingSize() <= 4 {
			return ordinal{true, math.Abs(cross)}
		}
		v0, v1, v2 := c.Vertices()
		for _, other := range tree.Search(c.Bounds()) {
			if other == c || other == c.prev || other == c.next {
				continue
			}
			v := other.vertex
			if v == v1 {
				return ordinal{true, math.Abs(cross)}
			}
			o0 := orient(v0, v1, v)
			o1 := orient(v1, v2, v)
			o2 := orient(v2, v0, v)
			if o0 == o1 && o1 == o2 {
				return ordinal{true, math.Abs(cross)}
			}
		}
		return ordinal{false, math.Abs(cross)}
	}

	var ordered []candidate
	insert := func(c *corner) {
		cand := candidate{corner: c, ord: ordinalOf(c), bounds: c.Bounds()}
		i := sort.Search(len(ordered), func(i int) bool { return !ordLess(ordered[i].ord, cand.ord) })
		ordered = append(ordered, candidate{})
		copy(ordered[i+1:], ordered[i:])
		ordered[i] = cand
	}
	removeCorner := func(c *corner) {
		for i, cand := range ordered {
			if cand.corner == c {
				ordered = append(ordered[:i], ordered[i+1:]...)
				return
			}
		}
	}

	for _, c := range all {
		insert(c)
	}

	limit := ordinal{false, 2 * tolerance}
	for len(ordered) > 0 && ordLess(ordered[0].ord, limit) {
		least := ordered[0]
		c := least.corner
		bounds := least.bounds
		ordered = ordered[1:]
		tree.Erase(c, bounds, cornerEq)

		neighbours := append([]*corner(nil), tree.Search(bounds)...)
		for _, n := range neighbours {
			removeCorner(n)
		}

		next, prev := c.next, c.prev
		nextBounds, prevBounds := next.Bounds(), prev.Bounds()
		c.Erase()
		tree.Update(next, nextBounds, next, cornerEq)
		tree.Update(prev, prevBounds, prev, cornerEq)

		for _, n := range neighbours {
			insert(n)
		}
	}
}

// Simplify runs both erode and dilate one-sided passes, in the order
// appropriate for the boundary's orientation convention (open selects
// which side is tried first; land boundaries and water boundaries erode
// in opposite order since their rings wind oppositely).
func Simplify(polygons []Polygon, tolerance float64, open bool) {
	if open {
		simplifyOneSided(polygons, tolerance, false)
		simplifyOneSided(polygons, tolerance, true)
	} else {
		simplifyOneSided(polygons, tolerance, true)
		simplifyOneSided(polygons, tolerance, false)
	}
}
