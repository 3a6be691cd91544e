package rtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/vec"
)

type boundedPoint vec.Vector2

func (b boundedPoint) Bounds() vec.Bounds {
	return vec.BoundsOf(vec.Vector2(b))
}

func TestSearchFindsOverlapping(t *testing.T) {
	points := []boundedPoint{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}
	tree := New(points, 1)
	found := tree.Search(vec.Bounds{Xmin: -1, Ymin: -1, Xmax: 1, Ymax: 1})
	require.Len(t, found, 1)
	require.Equal(t, points[0], found[0])
}

func TestSearchEmptyTree(t *testing.T) {
	tree := New([]boundedPoint{}, 1)
	require.Empty(t, tree.Search(vec.Bounds{Xmax: 1, Ymax: 1}))
}
