package mesh

import (
	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/predicate"
	"github.com/mholling/las2poly/vec"
)

// Mesh is a Delaunay triangulation over a point store, represented as an
// adjacency list per point id, the same idiom model3d uses for its edge
// mesh: no separate triangle/face records, just point-to-point connectivity
// that triangles and edges are derived from by walking.
type Mesh struct {
	store     *lidarpoint.Store
	adjacent  [][]int32
}

// New allocates an empty mesh sized for the given store; points must be
// connected via Build before any traversal.
func New(store *lidarpoint.Store) *Mesh {
	return &Mesh{
		store:    store,
		adjacent: make([][]int32, store.Len()),
	}
}

func (m *Mesh) position(id int32) vec.Vector2 {
	return m.store.At(id).Position()
}

func (m *Mesh) connect(p1, p2 int32) {
	m.adjacent[p1] = append(m.adjacent[p1], p2)
	m.adjacent[p2] = append(m.adjacent[p2], p1)
}

func (m *Mesh) disconnectDirected(p1, p2 int32) {
	neighbours := m.adjacent[p1]
	for i, n := range neighbours {
		if n == p2 {
			m.adjacent[p1] = append(neighbours[:i], neighbours[i+1:]...)
			return
		}
	}
}

func (m *Mesh) disconnect(edge Edge) {
	m.disconnectDirected(edge.From, edge.To)
	m.disconnectDirected(edge.To, edge.From)
}

// orientSign is the sign of Orient(from, to, point): positive if point is
// left of the directed edge from->to.
func (m *Mesh) orientSign(from, to, point int32) int {
	return predicate.Orient(m.position(from), m.position(to), m.position(point))
}

func (m *Mesh) edgeVsPoint(e Edge, point int32) int {
	return m.orientSign(e.From, e.To, point)
}

func (m *Mesh) inCircleSign(a, b, c, d int32) int {
	return predicate.InCircle(m.position(a), m.position(b), m.position(c), m.position(d))
}

// lessThan implements the radial ordering used to pick the next edge
// around a vertex while walking interior or exterior turns.
func (m *Mesh) lessThan(edge Edge, p1, p2 int32) bool {
	if m.edgeVsPoint(edge, p1) < 0 {
		return m.edgeVsPoint(edge, p2) > 0 || m.orientSign(p1, p2, edge.To) > 0
	}
	return m.edgeVsPoint(edge, p2) > 0 && m.orientSign(p1, p2, edge.To) > 0
}

func (m *Mesh) nextInterior(edge Edge) Edge {
	neighbours := m.adjacent[edge.To]
	best := neighbours[0]
	for _, cand := range neighbours[1:] {
		var less bool
		switch {
		case best == edge.From:
			less = true
		case cand == edge.From:
			less = false
		default:
			less = m.lessThan(edge, best, cand)
		}
		if less {
			best = cand
		}
	}
	return Edge{From: edge.To, To: best}
}

func (m *Mesh) nextExterior(edge Edge) Edge {
	neighbours := m.adjacent[edge.To]
	best := neighbours[0]
	for _, cand := range neighbours[1:] {
		var less bool
		switch {
		case cand == edge.From:
			less = false
		case best == edge.From:
			less = true
		default:
			less = m.lessThan(edge, cand, best)
		}
		if less {
			best = cand
		}
	}
	return Edge{From: edge.To, To: best}
}

// iterator walks the mesh one turn at a time, following either the
// tightest interior turn (for stitching holes) or the tightest exterior
// turn (for walking the outer hull).
type iterator struct {
	mesh     *Mesh
	edge     Edge
	interior bool
}

func (it *iterator) peek() Edge {
	if it.interior {
		return it.mesh.nextInterior(it.edge)
	}
	return it.mesh.nextExterior(it.edge)
}

func (it *iterator) advance() {
	it.edge = it.peek()
}

func (it *iterator) reverse() {
	it.interior = !it.interior
	it.edge = it.edge.Reversed()
}

// search peeks two turns ahead with the orientation flipped in between,
// used by findCandidate to test the next Delaunay legalization circle.
func (it *iterator) search() Edge {
	next := iterator{mesh: it.mesh, edge: it.peek(), interior: !it.interior}
	return next.peek()
}

func (m *Mesh) exteriorClockwise(rightmost int32) *iterator {
	neighbours := m.adjacent[rightmost]
	best := neighbours[0]
	for _, cand := range neighbours[1:] {
		if m.orientSign(best, cand, rightmost) < 0 {
			best = cand
		}
	}
	return &iterator{mesh: m, edge: Edge{From: rightmost, To: best}, interior: true}
}

func (m *Mesh) exteriorAnticlockwise(leftmost int32) *iterator {
	neighbours := m.adjacent[leftmost]
	best := neighbours[0]
	for _, cand := range neighbours[1:] {
		if m.orientSign(cand, best, leftmost) < 0 {
			best = cand
		}
	}
	return &iterator{mesh: m, edge: Edge{From: leftmost, To: best}, interior: false}
}

func (m *Mesh) exteriorClockwiseRange(ids []int32) *iterator {
	rightmost := ids[0]
	for _, id := range ids[1:] {
		if m.store.At(id).X > m.store.At(rightmost).X ||
			(m.store.At(id).X == m.store.At(rightmost).X && m.store.At(id).Y > m.store.At(rightmost).Y) {
			rightmost = id
		}
	}
	return m.exteriorClockwise(rightmost)
}

func (m *Mesh) exteriorAnticlockwiseRange(ids []int32) *iterator {
	leftmost := ids[0]
	for _, id := range ids[1:] {
		if m.store.At(id).X < m.store.At(leftmost).X ||
			(m.store.At(id).X == m.store.At(leftmost).X && m.store.At(id).Y < m.store.At(leftmost).Y) {
			leftmost = id
		}
	}
	return m.exteriorAnticlockwise(leftmost)
}

// findCandidate performs the Guibas-Stolfi candidate search for the merge
// step of divide-and-conquer triangulation: walk around `edge`'s far
// endpoint, discarding non-Delaunay edges against `opposite`, until either
// a legal candidate is found or none remains on this side.
func (m *Mesh) findCandidate(edge *iterator, opposite int32, rhs bool) (int32, bool) {
	prev, point := edge.edge.From, edge.edge.To
	for {
		next := edge.search()
		candidate := next.From
		orientation := m.edgeVsPoint(Edge{From: point, To: candidate}, opposite)
		if rhs {
			if orientation <= 0 {
				return 0, false
			}
		} else if orientation >= 0 {
			return 0, false
		}
		if candidate == prev {
			return candidate, true
		}
		var legal bool
		if rhs {
			legal = m.inCircleSign(candidate, opposite, point, next.To) <= 0
		} else {
			legal = m.inCircleSign(point, opposite, candidate, next.To) <= 0
		}
		if legal {
			return candidate, true
		}
		m.disconnect(Edge{From: point, To: candidate})
	}
}
