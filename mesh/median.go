package mesh

import "sort"

// MedianLength returns the median edge length across the mesh's current
// adjacency, used to estimate a sensible default minimum waterbody width
// from the point spacing of a sample of tiles.
func (m *Mesh) MedianLength() float64 {
	var lengths []float64
	for p1, neighbours := range m.adjacent {
		for _, p2 := range neighbours {
			if int32(p1) < p2 {
				lengths = append(lengths, m.position(int32(p1)).Sub(m.position(p2)).Norm())
			}
		}
	}
	if len(lengths) == 0 {
		return 0
	}
	sort.Float64s(lengths)
	return lengths[len(lengths)/2]
}
