package polygon

import (
	"math"
	"sort"

	"github.com/mholling/las2poly/rtree"
	"github.com/mholling/las2poly/vec"
)

const perimeterChangeThreshold = 0.00001

// smoothCandidate describes replacing a corner with the average of it and
// its two neighbours, the single-vertex smoothing move (as opposed to the
// older two-vertex corner-cutting form used elsewhere in the lineage —
// see DESIGN.md).
type smoothCandidate struct {
	c              *corner
	bounds         vec.Bounds
	vertex         vec.Vector2
	cosine         float64
	rejectCurve    bool
	deltaPerimeter float64
}

func newSmoothCandidate(c *corner) smoothCandidate {
	v0, v1, v2 := c.prev.Vertices()  // v0=prev-prev, v1=prev, v2=this (prev.next==this)
	_, v3, v4 := c.next.Vertices()   // v3=next (this.next), v4=next-next
	vertex := v1.Add(v2).Add(v3).Scale(1.0 / 3.0)

	d01 := v1.Sub(v0)
	d12 := v2.Sub(v1)
	d1v := vertex.Sub(v1)
	dv3 := v3.Sub(vertex)
	d23 := v3.Sub(v2)
	d34 := v4.Sub(v3)

	n12, n23 := d12.Norm(), d23.Norm()
	n1v, nv3 := d1v.Norm(), dv3.Norm()

	u01 := d01.Normalize()
	u12 := d12.Normalize()
	u1v := d1v.Normalize()
	uv3 := dv3.Normalize()
	u23 := d23.Normalize()
	u34 := d34.Normalize()

	cosine := u12.Dot(u23)
	deltaPerimeter := n1v + nv3 - n12 - n23
	sumBefore := u01.Dot(u12) + u12.Dot(u23) + u23.Dot(u34)
	sumAfter := u01.Dot(u1v) + u1v.Dot(uv3) + uv3.Dot(u34)

	return smoothCandidate{
		c:              c,
		bounds:         c.Bounds(),
		vertex:         vertex,
		cosine:         cosine,
		rejectCurve:    sumBefore-sumAfter >= 0,
		deltaPerimeter: deltaPerimeter,
	}
}

// accepted reports whether moving c to its averaged vertex would both
// reduce curvature and not cross any other part of the polygon.
func (sc smoothCandidate) accepted(tree *rtree.Tree[*corner]) bool {
	if sc.rejectCurve {
		return false
	}
	c := sc.c
	prev, next := c.prev, c.next
	v0, v1, v2 := prev.vertex, sc.vertex, next.vertex
	for _, other := range tree.Search(sc.bounds) {
		if other == c || other == prev || other == next {
			continue
		}
		u0, u1, u2 := other.prev.vertex, other.vertex, other.next.vertex
		if segmentsIntersect(v0, v1, u0, u1) {
			return false
		}
		if other.next != prev && segmentsIntersect(v0, v1, u1, u2) {
			return false
		}
		if other.prev != next && segmentsIntersect(v1, v2, u0, u1) {
			return false
		}
		if segmentsIntersect(v1, v2, u1, u2) {
			return false
		}
	}
	return true
}

// smoothOrdered is a cosine-ascending priority queue (sharpest corners
// smoothed first), implemented as a sorted slice since Go has no
// multiset — fine at the corner counts a single polygon boundary runs to.
type smoothOrdered struct {
	items []smoothCandidate
}

func (q *smoothOrdered) insert(sc smoothCandidate) {
	i := sort.Search(len(q.items), func(i int) bool { return q.items[i].cosine >= sc.cosine })
	q.items = append(q.items, smoothCandidate{})
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = sc
}

func (q *smoothOrdered) removeCorner(c *corner) (smoothCandidate, bool) {
	for i, sc := range q.items {
		if sc.c == c {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return sc, true
		}
	}
	return smoothCandidate{}, false
}

func (q *smoothOrdered) popLeast() smoothCandidate {
	least := q.items[0]
	q.items = q.items[1:]
	return least
}

// Smooth rounds off sharp corners by iteratively replacing the sharpest
// eligible corner with the average of it and its neighbours, up to 100
// passes or until the boundary's total perimeter stops changing
// meaningfully. erodeThenDilate selects which one-sided simplify pass
// (run first, as a pre-pass) happens first.
func Smooth(polygons []Polygon, tolerance, angle float64, erodeThenDilate bool) {
	simplifyOneSided(polygons, tolerance, erodeThenDilate)
	simplifyOneSided(polygons, tolerance, !erodeThenDilate)

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

	perimeter := vec.Summation{}
	for _, c := range all {
		v0, v1, _ := c.Vertices()
		perimeter.Add(v0.Sub(v1).Norm())
	}

	tree := rtree.New(all, 1)
	cosineLimit := math.Cos(angle)

	for iteration := 0; iteration < 100; iteration++ {
		ordered := &smoothOrdered{}
		for _, c := range all {
			if cand := newSmoothCandidate(c); cand.cosine < cosineLimit && cand.accepted(tree) {
				ordered.insert(cand)
			}
		}

		deltaPerimeter := vec.Summation{}
		for len(ordered.items) > 0 {
			least := ordered.popLeast()

			var affected []*corner
			for _, other := range tree.Search(least.bounds) {
				if _, ok := ordered.removeCorner(other); ok {
					affected = append(affected, other)
				}
			}

			c := least.c
			next, prev := c.next, c.prev
			nextBounds, prevBounds := next.Bounds(), prev.Bounds()
			c.Update(least.vertex)
			tree.Update(c, least.bounds, c, cornerEq)
			tree.Update(next, nextBounds, next, cornerEq)
			tree.Update(prev, prevBounds, prev, cornerEq)
			deltaPerimeter.Add(least.deltaPerimeter)

			for _, other := range affected {
				if cand := newSmoothCandidate(other); cand.cosine < cosineLimit && cand.accepted(tree) {
					ordered.insert(cand)
				}
			}
		}

		if deltaPerimeter.Sum+perimeterChangeThreshold*perimeter.Sum > 0 {
			break
		}
		perimeter.Add(deltaPerimeter.Sum)
	}
}
