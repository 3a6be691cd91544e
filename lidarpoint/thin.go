package lidarpoint

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// WebMercatorRange is the original's width-to-resolution sanity bound: a
// resolution finer than this divided by the int32 range can't be expressed
// by the grid-cell arithmetic below without overflow.
const WebMercatorRange = 40097932.2

// MinResolution is the smallest width value the thinning grid can support.
const MinResolution = WebMercatorRange / math.MaxInt32

// cell computes the integer grid cell a point falls in at the given
// resolution, matching the original's pair<int,int>(x/res, y/res) cast.
func cell(p Point, resolution float64) (int, int) {
	return int(p.X / resolution), int(p.Y / resolution)
}

func cellLess(a, b Point, resolution float64) bool {
	ax, ay := cell(a, resolution)
	bx, by := cell(b, resolution)
	if ax != bx {
		return ax < bx
	}
	return ay < by
}

// Thin sorts points into resolution-sized grid cells and keeps only the
// Better point in each occupied cell.
func Thin(points []Point, resolution float64) ([]Point, error) {
	if resolution < MinResolution {
		return nil, errors.New("width value too small")
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return cellLess(sorted[i], sorted[j], resolution)
	})

	result := make([]Point, 0, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i + 1
		best := sorted[i]
		for j < len(sorted) && !cellLess(sorted[i], sorted[j], resolution) {
			if sorted[j].Better(best) {
				best = sorted[j]
			}
			j++
		}
		result = append(result, best)
		i = j
	}
	return result, nil
}

// Merge combines two already-thinned, resolution-sorted point slices into
// one, resolving cell collisions the same way Thin does. Both inputs must
// already be individually thinned and sorted at the same resolution (as
// produced by Thin).
func Merge(a, b []Point, resolution float64) []Point {
	result := make([]Point, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case cellLess(a[i], b[j], resolution):
			result = append(result, a[i])
			i++
		case cellLess(b[j], a[i], resolution):
			result = append(result, b[j])
			j++
		default:
			if a[i].Better(b[j]) {
				result = append(result, a[i])
			} else {
				result = append(result, b[j])
			}
			i++
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}
