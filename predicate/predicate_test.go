package predicate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/vec"
)

func TestOrientCCW(t *testing.T) {
	v1 := vec.Vector2{X: 0, Y: 0}
	v2 := vec.Vector2{X: 1, Y: 0}
	v3 := vec.Vector2{X: 0, Y: 1}
	require.Equal(t, 1, Orient(v1, v2, v3))
	require.Equal(t, -1, Orient(v1, v3, v2))
}

func TestOrientColinear(t *testing.T) {
	v1 := vec.Vector2{X: 0, Y: 0}
	v2 := vec.Vector2{X: 1, Y: 1}
	v3 := vec.Vector2{X: 2, Y: 2}
	require.Equal(t, 0, Orient(v1, v2, v3))
}

func TestOrientNearCancellation(t *testing.T) {
	// v3 lies one ulp above the line through v1 and v2, so the
	// floating-point determinant falls inside its error bound even though
	// the true orientation is nonzero, exercising the exact fallback tier.
	v1 := vec.Vector2{X: 0, Y: 0}
	v2 := vec.Vector2{X: 0.1, Y: 0.1}
	v3 := vec.Vector2{X: 0.2, Y: math.Nextafter(0.2, 1)}
	got := Orient(v1, v2, v3)
	require.NotEqual(t, 0, got)
}

func TestInCircleBasic(t *testing.T) {
	v1 := vec.Vector2{X: -1, Y: 0}
	v2 := vec.Vector2{X: 1, Y: 0}
	v3 := vec.Vector2{X: 0, Y: 1}
	inside := vec.Vector2{X: 0, Y: 0}
	outside := vec.Vector2{X: 0, Y: 10}
	require.Equal(t, 1, InCircle(v1, v2, v3, inside))
	require.Equal(t, -1, InCircle(v1, v2, v3, outside))
}
