package region

import (
	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/mesh"
)

// EdgeSet is the running outline: a symmetric-difference accumulator of
// directed boundary edges, keyed by value.
type EdgeSet map[mesh.Edge]struct{}

func NewEdgeSet(edges []mesh.Edge) EdgeSet {
	set := make(EdgeSet, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return set
}

// Cancel folds a triangle's three edges into the set with symmetric-
// difference ("cancel") semantics: an edge already present is removed —
// it is now enclosed on both sides and is no longer a boundary —
// otherwise its reverse is inserted, extending the boundary around the
// triangle.
func (es EdgeSet) Cancel(t mesh.Triangle) {
	for _, e := range t {
		if _, ok := es[e]; ok {
			delete(es, e)
		} else {
			es[e.Reversed()] = struct{}{}
		}
	}
}

// Touches reports whether any edge of any given triangle already belongs
// to the set — meaning the patch is adjacent to a boundary decided by an
// earlier classification and should be folded in regardless of the water
// test.
func (es EdgeSet) Touches(triangles []mesh.Triangle) bool {
	for _, t := range triangles {
		for _, e := range t {
			if _, ok := es[e]; ok {
				return true
			}
		}
	}
	return false
}

func (es EdgeSet) Edges() []mesh.Edge {
	out := make([]mesh.Edge, 0, len(es))
	for e := range es {
		out = append(out, e)
	}
	return out
}

// Classify folds each connected component of oversized triangles into
// the outline edge set when it touches an already-decided boundary or
// passes the water test, producing the final set of directed boundary
// edges ready for stitching into rings.
func Classify(store *lidarpoint.Store, large []mesh.Triangle, outline []mesh.Edge, delta, slope float64, water bool) []mesh.Edge {
	edges := NewEdgeSet(outline)
	if water {
		edges = NewEdgeSet(nil)
	}
	NewTriangleSet(large).Explode(func(component []mesh.Triangle) {
		if edges.Touches(component) || IsWater(store, component, delta, slope) {
			for _, t := range component {
				edges.Cancel(t)
			}
		}
	})
	return edges.Edges()
}
