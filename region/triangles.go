// Package region groups the oversized triangles left behind by mesh
// deconstruction into connected patches, classifies each patch as land
// or water, and folds the result into the running outline edge set.
package region

import "github.com/mholling/las2poly/mesh"

// TriangleSet is an unordered collection of triangles pending
// classification, keyed directly by value since mesh.Triangle ([3]Edge
// of comparable int32 endpoints) is already comparable.
type TriangleSet map[mesh.Triangle]struct{}

func NewTriangleSet(triangles []mesh.Triangle) TriangleSet {
	set := make(TriangleSet, len(triangles))
	for _, t := range triangles {
		set[t] = struct{}{}
	}
	return set
}

// Explode splits the set into its connected components — two triangles
// are connected when one has an edge that is the reverse of the other's
// — and calls visit once per component. Each component is later judged
// as a whole (a lake's far shore shouldn't flip a near-shore sliver).
func (ts TriangleSet) Explode(visit func([]mesh.Triangle)) {
	neighbours := make(map[mesh.Edge]mesh.Triangle, len(ts)*3)
	for t := range ts {
		for _, e := range t {
			neighbours[e.Reversed()] = t
		}
	}
	eraseNeighbours := func(t mesh.Triangle) {
		for _, e := range t {
			delete(neighbours, e.Reversed())
		}
	}

	remaining := make(map[mesh.Triangle]struct{}, len(ts))
	for t := range ts {
		remaining[t] = struct{}{}
	}

	for len(remaining) > 0 {
		var start mesh.Triangle
		for t := range remaining {
			start = t
			break
		}
		pending := map[mesh.Triangle]struct{}{start: {}}
		var component []mesh.Triangle
		for len(pending) > 0 {
			var t mesh.Triangle
			for k := range pending {
				t = k
				break
			}
			delete(pending, t)
			delete(remaining, t)
			eraseNeighbours(t)
			component = append(component, t)
			for _, e := range t {
				if nb, ok := neighbours[e]; ok {
					pending[nb] = struct{}{}
				}
			}
		}
		visit(component)
	}
}
