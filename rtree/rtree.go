// Package rtree implements a bulk-loaded, median-split binary bounding-box
// tree, generic over any element that can report its own Bounds. Bulk
// construction alternates splitting on the x and y median at each level (the
// same scheme as model3d's GroupedSegmentsToCollider), rather than
// incremental R-tree insertion, since the whole point set is known upfront.
package rtree

import (
	"sort"

	"github.com/mholling/las2poly/vec"
)

// Bounded is anything that can report its own bounding box.
type Bounded interface {
	Bounds() vec.Bounds
}

// Tree is a bulk-loaded median-split tree over elements of type T.
type Tree[T Bounded] struct {
	bounds   vec.Bounds
	leaf     T
	isLeaf   bool
	children [2]*Tree[T]
}

// New builds a Tree from elements, splitting horizontally at the root.
// threads bounds the recursion's fan-out; pass 1 to build serially.
func New[T Bounded](elements []T, threads int) *Tree[T] {
	items := make([]T, len(elements))
	copy(items, elements)
	return build(items, true, threads)
}

func build[T Bounded](items []T, horizontal bool, threads int) *Tree[T] {
	switch len(items) {
	case 0:
		return &Tree[T]{bounds: vec.EmptyBounds()}
	case 1:
		return &Tree[T]{bounds: items[0].Bounds(), leaf: items[0], isLeaf: true}
	default:
		mid := len(items) / 2
		sortByAxis(items, horizontal)

		var left, right *Tree[T]
		if threads <= 1 {
			left = build(items[:mid], !horizontal, 1)
			right = build(items[mid:], !horizontal, 1)
		} else {
			done := make(chan struct{})
			go func() {
				left = build(items[:mid], !horizontal, threads/2)
				close(done)
			}()
			right = build(items[mid:], !horizontal, threads-threads/2)
			<-done
		}
		return &Tree[T]{
			bounds:   left.bounds.Union(right.bounds),
			children: [2]*Tree[T]{left, right},
		}
	}
}

// sortByAxis orders items along the x (horizontal split) or y axis, so the
// median element lands at len(items)/2. A full sort is simpler than a true
// quickselect and the element counts here (points/triangles per tile) don't
// warrant the extra complexity.
func sortByAxis[T Bounded](items []T, horizontal bool) {
	sort.Slice(items, func(i, j int) bool {
		bi, bj := items[i].Bounds(), items[j].Bounds()
		if horizontal {
			return bi.Xmin < bj.Xmin
		}
		return bi.Ymin < bj.Ymin
	})
}

// Search returns every leaf element whose bounds overlap the query bounds.
func (t *Tree[T]) Search(bounds vec.Bounds) []T {
	var result []T
	if t == nil || t.bounds.Empty() || !t.bounds.Overlaps(bounds) {
		return result
	}
	t.search(bounds, &result)
	return result
}

func (t *Tree[T]) search(bounds vec.Bounds, result *[]T) {
	if !t.bounds.Overlaps(bounds) {
		return
	}
	if t.isLeaf {
		*result = append(*result, t.leaf)
		return
	}
	t.children[0].search(bounds, result)
	t.children[1].search(bounds, result)
}

// Erase removes the first element equal to target (per the supplied eq
// function) whose bounds lie within elementBounds, rebalancing ancestor
// bounds on the way back up. It reports whether anything was removed.
func (t *Tree[T]) Erase(target T, elementBounds vec.Bounds, eq func(a, b T) bool) bool {
	if t == nil {
		return false
	}
	if t.isLeaf {
		// only reached for a single-leaf root; an inner node removes its
		// matching leaf child itself, below
		if !eq(t.leaf, target) {
			return false
		}
		*t = Tree[T]{bounds: vec.EmptyBounds()}
		return true
	}
	if !t.bounds.Contains(elementBounds) {
		return false
	}
	left, right := t.children[0], t.children[1]
	if left.isLeaf && eq(left.leaf, target) {
		*t = *right
		return true
	}
	if left.Erase(target, elementBounds, eq) {
		t.bounds = left.bounds.Union(right.bounds)
		return true
	}
	if right.isLeaf && eq(right.leaf, target) {
		*t = *left
		return true
	}
	if right.Erase(target, elementBounds, eq) {
		t.bounds = left.bounds.Union(right.bounds)
		return true
	}
	return false
}

// Update replaces an element's stored value after its geometry has changed
// in place (the containing leaf is found via oldBounds, which must still
// overlap the element's current position).
func (t *Tree[T]) Update(target T, oldBounds vec.Bounds, replacement T, eq func(a, b T) bool) bool {
	if t == nil {
		return false
	}
	if t.isLeaf {
		if eq(t.leaf, target) {
			t.leaf = replacement
			t.bounds = replacement.Bounds()
			return true
		}
		return false
	}
	if !t.bounds.Contains(oldBounds) {
		return false
	}
	left, right := t.children[0], t.children[1]
	found := left.Update(target, oldBounds, replacement, eq) || right.Update(target, oldBounds, replacement, eq)
	if found {
		t.bounds = left.bounds.Union(right.bounds)
	}
	return found
}

// Bounds returns the tree's overall bounding box.
func (t *Tree[T]) Bounds() vec.Bounds {
	if t == nil {
		return vec.EmptyBounds()
	}
	return t.bounds
}
