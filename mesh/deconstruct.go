package mesh

import "github.com/pkg/errors"

// stripExterior walks the outer hull of the range [begin,end) once,
// disconnecting each hull edge as it goes and invoking visit on it; used
// both to peel the hull before ground interpolation and to collect the
// final outline edges before deconstruction.
func (m *Mesh) stripExterior(ids []int32, anticlockwise bool, visit func(Edge)) error {
	var start *iterator
	if anticlockwise {
		start = m.exteriorClockwiseRange(ids)
	} else {
		start = m.exteriorAnticlockwiseRange(ids)
	}
	edge := *start
	for {
		if visit != nil {
			visit(edge.edge)
		}
		m.disconnect(edge.edge)
		if edge.edge.To == start.edge.From {
			break
		}
		edge.advance()
	}
	return nil
}

// walkTriangles visits every triangle whose vertex ids all lie in
// [begin,end) exactly once, disconnecting its three edges as it completes
// each one, mirroring the original's recursive corner-peeling deconstruct.
func (m *Mesh) walkTriangles(ids []int32, idSet map[int32]bool, interior bool, visit func(Triangle)) error {
	for _, point := range ids {
		neighbours := append([]int32(nil), m.adjacent[point]...)
		for i := len(neighbours) - 1; i >= 0; i-- {
			neighbour := neighbours[i]
			if m.neighbourRemoved(point, neighbour) {
				continue
			}
			edge1 := &iterator{mesh: m, edge: Edge{From: point, To: neighbour}, interior: interior}
			if !idSet[edge1.edge.To] {
				continue
			}
			peek1 := edge1.peek()
			if !idSet[peek1.To] {
				continue
			}
			edge2 := &iterator{mesh: m, edge: peek1, interior: interior}
			peek2 := edge2.peek()
			if peek2.To != point {
				return errors.New("corrupted mesh during deconstruction")
			}
			triangle := Triangle{edge1.edge, edge2.edge, peek2}
			visit(triangle)
			for _, e := range triangle {
				m.disconnect(e)
			}
		}
	}
	return nil
}

// neighbourRemoved reports whether the directed edge point->neighbour has
// already been disconnected by an earlier triangle in this walk.
func (m *Mesh) neighbourRemoved(point, neighbour int32) bool {
	for _, n := range m.adjacent[point] {
		if n == neighbour {
			return false
		}
	}
	return true
}

// Deconstruct strips the mesh into its outline edges (the final polygon
// boundary material) and the triangles wider than width, testing each
// triangle as it is pulled apart. ids must be every point id in the
// mesh, pre-sorted is not required.
func (m *Mesh) Deconstruct(ids []int32, width float64, anticlockwise bool) ([]Triangle, []Edge, error) {
	var outline []Edge
	if err := m.stripExterior(ids, anticlockwise, func(e Edge) {
		outline = append(outline, e.Reversed())
	}); err != nil {
		return nil, nil, err
	}

	idSet := make(map[int32]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var large []Triangle
	err := m.walkTriangles(ids, idSet, anticlockwise, func(t Triangle) {
		if m.triangleWiderThan(t, width) {
			large = append(large, t)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return large, outline, nil
}

func (m *Mesh) triangleWiderThan(t Triangle, width float64) bool {
	d0 := m.position(t[0].To).Sub(m.position(t[0].From))
	d1 := m.position(t[1].To).Sub(m.position(t[1].From))
	d2 := m.position(t[2].To).Sub(m.position(t[2].From))
	cross := d0.X*d1.Y - d0.Y*d1.X
	if cross < 0 {
		cross = -cross
	}
	return d0.Norm()*d1.Norm()*d2.Norm() > cross*width
}
