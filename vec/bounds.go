package vec

import "math"

// Bounds is an axis-aligned bounding rectangle. An empty Bounds (no
// elements unioned in yet) has Xmin > Xmax, matching the original's
// infinities-facing-inward default.
type Bounds struct {
	Xmin, Ymin, Xmax, Ymax float64
}

// EmptyBounds returns the additive identity for Union.
func EmptyBounds() Bounds {
	return Bounds{
		Xmin: math.Inf(1),
		Ymin: math.Inf(1),
		Xmax: math.Inf(-1),
		Ymax: math.Inf(-1),
	}
}

// BoundsOf returns the smallest Bounds containing the point.
func BoundsOf(p Vector2) Bounds {
	return Bounds{Xmin: p.X, Ymin: p.Y, Xmax: p.X, Ymax: p.Y}
}

// Union returns the smallest Bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		Xmin: math.Min(b.Xmin, other.Xmin),
		Ymin: math.Min(b.Ymin, other.Ymin),
		Xmax: math.Max(b.Xmax, other.Xmax),
		Ymax: math.Max(b.Ymax, other.Ymax),
	}
}

// Contains reports whether other lies entirely within b.
func (b Bounds) Contains(other Bounds) bool {
	return b.Xmin <= other.Xmin && other.Xmax <= b.Xmax &&
		b.Ymin <= other.Ymin && other.Ymax <= b.Ymax
}

// Overlaps reports whether b and other share any area (touching counts).
func (b Bounds) Overlaps(other Bounds) bool {
	return b.Xmax >= other.Xmin && b.Xmin <= other.Xmax &&
		b.Ymax >= other.Ymin && b.Ymin <= other.Ymax
}

// Empty reports whether the bounds has never been unioned with anything.
func (b Bounds) Empty() bool {
	return b.Xmin > b.Xmax
}

// Width and Height of the bounds.
func (b Bounds) Width() float64  { return b.Xmax - b.Xmin }
func (b Bounds) Height() float64 { return b.Ymax - b.Ymin }

// UnionAll folds Union across the given bounds.
func UnionAll(bs []Bounds) Bounds {
	result := EmptyBounds()
	for _, b := range bs {
		result = result.Union(b)
	}
	return result
}
