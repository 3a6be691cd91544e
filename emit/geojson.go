// Package emit writes the final nested polygon set out as GeoJSON or
// Esri Shapefile.
package emit

import (
	"encoding/json"
	"io"

	"github.com/mholling/las2poly/polygon"
	"github.com/mholling/las2poly/srs"
)

// No JSON library appears anywhere in the reference corpus, so this
// package reaches for encoding/json directly — the idiomatic standard
// tool for a format this structurally simple, see DESIGN.md.

type featureCollection struct {
	Type     string          `json:"type"`
	CRS      *crsObject      `json:"crs,omitempty"`
	Features []geoJSONFeature `json:"features"`
}

type crsObject struct {
	Type       string         `json:"type"`
	Properties crsProperties  `json:"properties"`
}

type crsProperties struct {
	Name string `json:"name"`
}

type geoJSONFeature struct {
	Type       string       `json:"type"`
	Properties interface{}  `json:"properties"`
	Geometry   geoJSONGeom  `json:"geometry"`
}

type geoJSONGeom struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// ringCoordinates closes the ring (GeoJSON requires the first and last
// positions to match, whereas Ring stores an open vertex loop).
func ringCoordinates(r *polygon.Ring) [][2]float64 {
	verts := r.Vertices()
	coords := make([][2]float64, 0, len(verts)+1)
	for _, v := range verts {
		coords = append(coords, [2]float64{v.X, v.Y})
	}
	if len(verts) > 0 {
		coords = append(coords, [2]float64{verts[0].X, verts[0].Y})
	}
	return coords
}

func polygonCoordinates(p polygon.Polygon) [][][2]float64 {
	coords := make([][][2]float64, 0, 1+len(p.Holes))
	coords = append(coords, ringCoordinates(p.Outer))
	for _, hole := range p.Holes {
		coords = append(coords, ringCoordinates(hole))
	}
	return coords
}

func polygonRings(p polygon.Polygon) [][][2]float64 {
	rings := make([][][2]float64, 0, 1+len(p.Holes))
	rings = append(rings, ringCoordinates(p.Outer))
	for _, hole := range p.Holes {
		rings = append(rings, ringCoordinates(hole))
	}
	return rings
}

// WriteGeoJSON writes the polygon set as a FeatureCollection, optionally
// tagging it with a named CRS. When lines is true, rings are emitted as
// MultiLineString geometry instead of (Multi)Polygon. When
// multi is true, all polygons are collected into a single feature;
// otherwise each polygon becomes its own feature.
func WriteGeoJSON(w io.Writer, polygons []polygon.Polygon, crs srs.SRS, hasCRS, multi, lines bool) error {
	fc := featureCollection{Type: "FeatureCollection"}
	if hasCRS {
		name := crs.WKT
		if crs.HasEPSG {
			name = epsgURN(crs.EPSG)
		}
		fc.CRS = &crsObject{Type: "name", Properties: crsProperties{Name: name}}
	}

	switch {
	case len(polygons) == 0:
		fc.Features = []geoJSONFeature{}

	case lines && multi:
		var rings [][][2]float64
		for _, p := range polygons {
			rings = append(rings, polygonRings(p)...)
		}
		fc.Features = []geoJSONFeature{{
			Type:     "Feature",
			Geometry: geoJSONGeom{Type: "MultiLineString", Coordinates: rings},
		}}

	case lines && !multi:
		fc.Features = make([]geoJSONFeature, len(polygons))
		for i, p := range polygons {
			fc.Features[i] = geoJSONFeature{
				Type:     "Feature",
				Geometry: geoJSONGeom{Type: "MultiLineString", Coordinates: polygonRings(p)},
			}
		}

	case multi:
		coords := make([][][][2]float64, len(polygons))
		for i, p := range polygons {
			coords[i] = polygonCoordinates(p)
		}
		fc.Features = []geoJSONFeature{{
			Type:     "Feature",
			Geometry: geoJSONGeom{Type: "MultiPolygon", Coordinates: coords},
		}}

	default:
		fc.Features = make([]geoJSONFeature, len(polygons))
		for i, p := range polygons {
			fc.Features[i] = geoJSONFeature{
				Type:     "Feature",
				Geometry: geoJSONGeom{Type: "Polygon", Coordinates: polygonCoordinates(p)},
			}
		}
	}

	encoder := json.NewEncoder(w)
	return encoder.Encode(fc)
}

func epsgURN(epsg int) string {
	return "urn:ogc:def:crs:EPSG::" + itoa(epsg)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
