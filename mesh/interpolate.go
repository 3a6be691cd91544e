package mesh

import (
	"github.com/unixpickle/essentials"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/rtree"
	"github.com/mholling/las2poly/vec"
)

// idBounds adapts a point id to rtree.Bounded so non-ground points can be
// spatially indexed by the ground-triangle search below.
type idBounds struct {
	id    int32
	point lidarpoint.Point
}

func (b idBounds) Bounds() vec.Bounds {
	return vec.BoundsOf(b.point.Position())
}

// Interpolate assigns ground elevations to every non-ground point by
// locating the ground-mesh triangle it falls in and averaging the three
// corner elevations by barycentric weight. groundIDs must form a closed
// triangulated mesh (as built by Build); otherIDs are the remaining,
// not-yet-ground points being interpolated against it.
func (m *Mesh) Interpolate(groundIDs, otherIDs []int32, threads int) error {
	elements := make([]idBounds, len(otherIDs))
	essentials.ConcurrentMap(threads, len(otherIDs), func(i int) {
		elements[i] = idBounds{id: otherIDs[i], point: m.store.At(otherIDs[i])}
	})
	tree := rtree.New(elements, threads)

	if err := m.stripExterior(groundIDs, true, nil); err != nil {
		return err
	}

	idSet := make(map[int32]bool, len(groundIDs))
	for _, id := range groundIDs {
		idSet[id] = true
	}

	return m.walkTriangles(groundIDs, idSet, true, func(t Triangle) {
		p0 := m.position(t[0].From)
		p1 := m.position(t[1].From)
		p2 := m.position(t[2].From)
		e0 := m.position(t[0].To).Sub(m.position(t[0].From))
		e1 := m.position(t[1].To).Sub(m.position(t[1].From))
		e2 := m.position(t[2].To).Sub(m.position(t[2].From))

		bounds := vec.BoundsOf(p0).Union(vec.BoundsOf(p1)).Union(vec.BoundsOf(p2))
		for _, found := range tree.Search(bounds) {
			pt := found.point.Position()
			w0 := e1.Cross(pt.Sub(p1)) / e1.Cross(p0.Sub(p1))
			w1 := e2.Cross(pt.Sub(p2)) / e2.Cross(p1.Sub(p2))
			w2 := e0.Cross(pt.Sub(p0)) / e0.Cross(p2.Sub(p0))
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				elev := w0*m.store.At(t[0].From).Elevation +
					w1*m.store.At(t[1].From).Elevation +
					w2*m.store.At(t[2].From).Elevation
				m.store.Set(found.id, found.point.SetGround(elev))
			}
		}
	})
}
