package region

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/mesh"
)

func twoTriangles() []mesh.Triangle {
	// two triangles sharing edge 1->2, forming a square split on the diagonal
	return []mesh.Triangle{
		{mesh.Edge{From: 0, To: 1}, mesh.Edge{From: 1, To: 2}, mesh.Edge{From: 2, To: 0}},
		{mesh.Edge{From: 2, To: 1}, mesh.Edge{From: 1, To: 3}, mesh.Edge{From: 3, To: 2}},
	}
}

func TestExplodeJoinsSharedEdgeTriangles(t *testing.T) {
	set := NewTriangleSet(twoTriangles())
	var components [][]mesh.Triangle
	set.Explode(func(c []mesh.Triangle) { components = append(components, c) })
	require.Len(t, components, 1)
	require.Len(t, components[0], 2)
}

func TestEdgeSetCancelTogglesSharedEdge(t *testing.T) {
	es := NewEdgeSet(nil)
	tris := twoTriangles()
	es.Cancel(tris[0])
	es.Cancel(tris[1])
	// the shared diagonal (1->2 / 2->1) cancels out; only the four
	// outer square edges remain
	require.Len(t, es.Edges(), 4)
}

func TestIsWaterFlatGroundClassifiesWater(t *testing.T) {
	store := lidarpoint.NewStore([]lidarpoint.Point{
		{X: 0, Y: 0, Elevation: 1.0, Classification: 2},
		{X: 10, Y: 0, Elevation: 1.0, Classification: 2},
		{X: 0, Y: 10, Elevation: 1.0, Classification: 2},
		{X: 10, Y: 10, Elevation: 1.0, Classification: 2},
	})
	triangles := []mesh.Triangle{
		{mesh.Edge{From: 0, To: 1}, mesh.Edge{From: 1, To: 2}, mesh.Edge{From: 2, To: 0}},
		{mesh.Edge{From: 2, To: 1}, mesh.Edge{From: 1, To: 3}, mesh.Edge{From: 3, To: 2}},
	}
	require.True(t, IsWater(store, triangles, 0.1, 0.2))
}
