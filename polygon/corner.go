package polygon

import "github.com/mholling/las2poly/vec"

// corner is a node in a ring's doubly linked vertex list. Ring mutation
// (erasing a corner, or replacing its vertex during smoothing) never
// invalidates other corners' identity the way a slice index would, so the
// simplify/smooth passes can hold onto corners across edits.
type corner struct {
	ring       *Ring
	prev, next *corner
	vertex     vec.Vector2
}

func (c *corner) Vertex() vec.Vector2 { return c.vertex }

// Vertices returns the corner's vertex together with its immediate
// neighbours, v0 (incoming), v1 (this corner), v2 (outgoing).
func (c *corner) Vertices() (v0, v1, v2 vec.Vector2) {
	return c.prev.vertex, c.vertex, c.next.vertex
}

// Cross returns the signed turn area at this corner: positive for a
// left (anticlockwise) turn, negative for a right turn.
func (c *corner) Cross() float64 {
	v0, v1, v2 := c.Vertices()
	return v1.Sub(v0).Cross(v2.Sub(v1))
}

// Cosine returns the cosine of the turn angle at this corner, used to
// rank corners from sharpest (-1) to straightest (1) during smoothing.
func (c *corner) Cosine() float64 {
	v0, v1, v2 := c.Vertices()
	u1 := v1.Sub(v0).Normalize()
	u2 := v2.Sub(v1).Normalize()
	return u1.Dot(u2)
}

// Bounds covers the corner's three vertices, wide enough that an R-tree
// search from it will find any corner whose removal or movement could
// interact with this one.
func (c *corner) Bounds() vec.Bounds {
	v0, v1, v2 := c.Vertices()
	return vec.BoundsOf(v0).Union(vec.BoundsOf(v1)).Union(vec.BoundsOf(v2))
}

func (c *corner) RingSize() int { return c.ring.size }

// Erase splices this corner out of its ring.
func (c *corner) Erase() {
	c.prev.next = c.next
	c.next.prev = c.prev
	c.ring.size--
	if c.ring.any == c {
		c.ring.any = c.next
	}
}

// Update replaces this corner's vertex in place (used by smoothing, which
// moves a corner to an averaged position rather than removing it).
func (c *corner) Update(v vec.Vector2) {
	c.vertex = v
}
