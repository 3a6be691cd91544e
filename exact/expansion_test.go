package exact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTwoSumExact(t *testing.T) {
	lo, hi := TwoSum(1.0, math.Pow(2, -60))
	require.Equal(t, 1.0, hi)
	require.InDelta(t, math.Pow(2, -60), lo, 0)
}

func TestExpansionAddMatchesFloat(t *testing.T) {
	a := Of(1.0)
	b := Of(2.0)
	require.Equal(t, 3.0, a.Add(b).Sum())
}

func TestExpansionSignCancellation(t *testing.T) {
	// catastrophic cancellation that a naive float sum would get wrong
	big := 1e16
	e := Of(big).Add(Of(1)).Sub(Of(big))
	require.Equal(t, 1, e.Sign())
	require.Equal(t, 1.0, e.Sum())
}

func TestExpansionMul(t *testing.T) {
	e := Of(3).Mul(Of(4))
	require.Equal(t, 12.0, e.Sum())
}
