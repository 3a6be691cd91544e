// Package srs resolves a coordinate reference system, by EPSG code or by
// a literal WKT string pulled from a tile's header, to a canonical WKT
// definition for embedding in emitted GeoJSON/Shapefile output.
package srs

import (
	"sort"

	"github.com/pkg/errors"
)

// SRS is a resolved coordinate reference system: its WKT text, and — when
// it came from an EPSG lookup rather than a tile's own embedded WKT — the
// code it was looked up under.
type SRS struct {
	WKT  string
	EPSG int
	// HasEPSG distinguishes a zero-value EPSG (not applicable) from an
	// actual code of 0, which is not a valid EPSG code, but keeps the
	// zero value of SRS unambiguous regardless.
	HasEPSG bool
}

// catalog holds a small, representative set of EPSG->WKT definitions.
// The full catalog the original embeds is a generated table of several
// thousand entries pulled from the EPSG registry; that table was not
// part of the retrieved reference sources, so only the handful of codes
// tiles most commonly carry (geographic WGS84, Web Mercator, and GDA94 /
// MGA zone 55) are embedded here — see DESIGN.md.
var catalog = []struct {
	epsg int
	wkt  string
}{
	{4326, `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`},
	{3857, `PROJCS["WGS 84 / Pseudo-Mercator",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Mercator_1SP"],PARAMETER["central_meridian",0],PARAMETER["scale_factor",1],PARAMETER["false_easting",0],PARAMETER["false_northing",0],UNIT["metre",1],AXIS["X",EAST],AXIS["Y",NORTH],AUTHORITY["EPSG","3857"]]`},
	{28355, `PROJCS["GDA94 / MGA zone 55",GEOGCS["GDA94",DATUM["Geocentric_Datum_of_Australia_1994",SPHEROID["GRS 1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",147],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",10000000],UNIT["metre",1],AUTHORITY["EPSG","28355"]]`},
}

func init() {
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].epsg < catalog[j].epsg })
}

// ErrUnknownEPSG is returned by Lookup when the code is not present in
// the embedded catalog.
var ErrUnknownEPSG = errors.New("unknown or unsupported EPSG code")

// Lookup resolves an EPSG code to its canonical WKT definition.
func Lookup(epsg int) (SRS, error) {
	i := sort.Search(len(catalog), func(i int) bool { return catalog[i].epsg >= epsg })
	if i == len(catalog) || catalog[i].epsg != epsg {
		return SRS{}, errors.Wrapf(ErrUnknownEPSG, "EPSG:%d", epsg)
	}
	return SRS{WKT: catalog[i].wkt, EPSG: epsg, HasEPSG: true}, nil
}

// FromWKT wraps a WKT string read directly from a tile's own VLR/header,
// with no associated EPSG code.
func FromWKT(wkt string) SRS {
	return SRS{WKT: wkt}
}
