// Package ring stitches a loose multiset of directed boundary segments
// (produced by mesh deconstruction) back into closed polygon rings, and
// classifies each ring as an outer boundary or a hole.
package ring

import (
	"github.com/mholling/las2poly/predicate"
	"github.com/mholling/las2poly/vec"
)

// Segment is a directed edge between two 2D vertices, detached from any
// point-id mesh — rings operate purely on coordinates once the mesh has
// been deconstructed.
type Segment struct {
	From, To vec.Vector2
}

func segmentOrient(from, to, v vec.Vector2) int {
	return predicate.Orient(from, to, v)
}

// lessThan mirrors mesh.lessThan but over raw coordinates: used to order
// candidate outgoing segments at a shared vertex by turn angle.
func lessThan(incoming Segment, v1, v2 vec.Vector2) bool {
	if segmentOrient(incoming.From, incoming.To, v1) < 0 {
		return segmentOrient(incoming.From, incoming.To, v2) > 0 || segmentOrient(v1, v2, incoming.To) > 0
	}
	return segmentOrient(incoming.From, incoming.To, v2) > 0 && segmentOrient(v1, v2, incoming.To) > 0
}

// Stitch walks the directed segment soup into closed rings. When
// allowSelfIntersection is true, at a vertex with multiple outgoing
// segments the tightest (minimal) turn is taken — appropriate for
// interior/hole rings, which may touch themselves at a pinch point; when
// false, the widest (maximal) turn is taken, appropriate for an outer
// boundary. When exterior is true, rings that come out clockwise are
// treated as holes and re-stitched with the opposite turn policy, the same
// two-pass process the original performs.
func Stitch(segments []Segment, allowSelfIntersection bool, exterior bool) [][]vec.Vector2 {
	return load(segments, allowSelfIntersection, exterior)
}

func load(segments []Segment, allowSelfIntersection bool, exterior bool) [][]vec.Vector2 {
	outgoingByVertex := make(map[vec.Vector2][]Segment)
	for _, s := range segments {
		outgoingByVertex[s.From] = append(outgoingByVertex[s.From], s)
	}

	connections := make(map[Segment]Segment, len(segments))
	for _, incoming := range segments {
		candidates := outgoingByVertex[incoming.To]
		best := candidates[0]
		for _, cand := range candidates[1:] {
			if allowSelfIntersection {
				if lessThan(incoming, cand.To, best.To) {
					best = cand
				}
			} else {
				if lessThan(incoming, best.To, cand.To) {
					best = cand
				}
			}
		}
		connections[incoming] = best
	}

	var rings [][]vec.Vector2
	var interior []Segment

	for len(connections) > 0 {
		var chain []Segment
		var start Segment
		for k := range connections {
			start = k
			break
		}
		seg := start
		for {
			next, ok := connections[seg]
			chain = append(chain, seg)
			delete(connections, seg)
			if !ok {
				break
			}
			seg = next
			if _, stillPending := connections[seg]; !stillPending {
				break
			}
		}

		verts := make([]vec.Vector2, len(chain))
		for i, s := range chain {
			verts[i] = s.From
		}

		if !exterior {
			rings = append(rings, verts)
			continue
		}
		if isAnticlockwise(verts) {
			rings = append(rings, verts)
		} else {
			interior = append(interior, chain...)
		}
	}

	if exterior && len(interior) > 0 {
		holes := load(interior, !allowSelfIntersection, false)
		rings = append(rings, holes...)
	}
	return rings
}

// isAnticlockwise reports the winding of a closed ring by checking the
// turn at its leftmost vertex, matching the original's min_element-based
// anticlockwise test.
func isAnticlockwise(verts []vec.Vector2) bool {
	if len(verts) < 3 {
		return false
	}
	leftmost := 0
	for i, v := range verts {
		lv := verts[leftmost]
		if v.X < lv.X || (v.X == lv.X && v.Y < lv.Y) {
			leftmost = i
		}
	}
	n := len(verts)
	prev := verts[(leftmost-1+n)%n]
	here := verts[leftmost]
	next := verts[(leftmost+1)%n]
	cross := here.Sub(prev).Cross(next.Sub(here))
	return cross > 0
}
