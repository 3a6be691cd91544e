package lidarpoint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThinKeepsOnePerCell(t *testing.T) {
	points := []Point{
		{X: 0.1, Y: 0.1, Classification: 2},
		{X: 0.2, Y: 0.2, Classification: 1},
		{X: 5, Y: 5, Classification: 2},
	}
	thinned, err := Thin(points, 1.0)
	require.NoError(t, err)
	require.Len(t, thinned, 2)
}

func TestThinRejectsTinyResolution(t *testing.T) {
	_, err := Thin([]Point{{X: 0, Y: 0}}, MinResolution/2)
	require.Error(t, err)
}

func TestMergeMatchesThinOfConcatenation(t *testing.T) {
	a, err := Thin([]Point{{X: 0.1, Y: 0.1}, {X: 10, Y: 10}}, 1.0)
	require.NoError(t, err)
	b, err := Thin([]Point{{X: 0.2, Y: 0.2, KeyPoint: true}, {X: 20, Y: 20}}, 1.0)
	require.NoError(t, err)
	merged := Merge(a, b, 1.0)
	require.Len(t, merged, 3)
	for _, p := range merged {
		if int(p.X) == 0 {
			require.True(t, p.KeyPoint)
		}
	}
}
