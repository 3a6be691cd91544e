package polygon

// Polygon is an outer ring together with the holes nested directly
// inside it.
type Polygon struct {
	Outer *Ring
	Holes []*Ring
}

// Nest partitions a flat set of stitched rings into polygons. A ring
// whose winding matches ogc is an outer boundary; the rest are holes.
// Outer rings are visited smallest-area first so a hole is assigned to
// the tightest ring that encloses it, matching the ascending-area,
// partition-and-consume order of the original nesting pass.
func Nest(rings []*Ring, ogc bool) []Polygon {
	var outers, holes []*Ring
	for _, r := range rings {
		if r.Anticlockwise() == ogc {
			outers = append(outers, r)
		} else {
			holes = append(holes, r)
		}
	}
	sortRingsByArea(outers, ogc)

	polygons := make([]Polygon, 0, len(outers))
	remaining := holes
	for _, outer := range outers {
		var mine, rest []*Ring
		for _, hole := range remaining {
			if outer.Contains(hole) {
				mine = append(mine, hole)
			} else {
				rest = append(rest, hole)
			}
		}
		polygons = append(polygons, Polygon{Outer: outer, Holes: mine})
		remaining = rest
	}
	return polygons
}
