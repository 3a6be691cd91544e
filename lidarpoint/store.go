package lidarpoint

import "github.com/mholling/las2poly/vec"

// Store is a contiguous, indexable collection of points, the ground-truth
// backing array that mesh vertices and R-tree entries refer to by integer
// ID rather than by pointer, mirroring the original's PointIterator-based
// addressing (so that mesh adjacency stays cheap slices of int32).
type Store struct {
	Points []Point
}

// NewStore wraps an existing point slice without copying it.
func NewStore(points []Point) *Store {
	return &Store{Points: points}
}

// Len is the number of points in the store.
func (s *Store) Len() int {
	return len(s.Points)
}

// At returns the point with the given id.
func (s *Store) At(id int32) Point {
	return s.Points[id]
}

// Set replaces the point at id (used after ground interpolation assigns a
// new elevation).
func (s *Store) Set(id int32, p Point) {
	s.Points[id] = p
}

// Bounds returns the 2D bounding box of every point in the store.
func (s *Store) Bounds() vec.Bounds {
	b := vec.EmptyBounds()
	for _, p := range s.Points {
		b = b.Union(vec.BoundsOf(p.Position()))
	}
	return b
}
