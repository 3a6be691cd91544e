package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/lidarpoint"
)

func square() *lidarpoint.Store {
	return lidarpoint.NewStore([]lidarpoint.Point{
		{X: 0, Y: 0, Classification: 2},
		{X: 10, Y: 0, Classification: 2},
		{X: 10, Y: 10, Classification: 2},
		{X: 0, Y: 10, Classification: 2},
	})
}

func allIDs(n int) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i)
	}
	return ids
}

func TestBuildSquareHasFiveEdges(t *testing.T) {
	store := square()
	m := New(store)
	ids := allIDs(store.Len())
	require.NoError(t, m.Build(ids, 1))
	total := 0
	for _, n := range m.adjacent {
		total += len(n)
	}
	require.Equal(t, 10, total) // 4 boundary edges + 1 diagonal, each counted twice
}

func TestDeconstructSquareOutlineHasFourEdges(t *testing.T) {
	store := square()
	m := New(store)
	ids := allIDs(store.Len())
	require.NoError(t, m.Build(ids, 1))
	large, outline, err := m.Deconstruct(ids, 1000, true)
	require.NoError(t, err)
	require.Len(t, outline, 4)
	_ = large
}
