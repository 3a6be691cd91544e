package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mholling/las2poly/polygon"
	"github.com/mholling/las2poly/srs"
	"github.com/mholling/las2poly/vec"
)

func square(x0, y0, side float64) []vec.Vector2 {
	return []vec.Vector2{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

func TestWriteGeoJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, nil, srs.SRS{}, false, true, false))
	require.Contains(t, buf.String(), `"features":[]`)
}

func TestWriteGeoJSONWithCRS(t *testing.T) {
	outer := polygon.Polygon{Outer: polygon.NewRing(square(0, 0, 10))}
	resolved, err := srs.Lookup(4326)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, []polygon.Polygon{outer}, resolved, true, true, false))
	out := buf.String()
	require.Contains(t, out, `"MultiPolygon"`)
	require.Contains(t, out, `urn:ogc:def:crs:EPSG::4326`)
}

func TestWriteShapefileRejectsEPSG(t *testing.T) {
	dir := t.TempDir()
	err := WriteShapefile(filepath.Join(dir, "out"), nil, true)
	require.Error(t, err)
}

func TestWriteShapefileProducesThreeFiles(t *testing.T) {
	outer := polygon.Polygon{
		Outer: polygon.NewRing(square(0, 0, 10)),
		Holes: []*polygon.Ring{polygon.NewRing(square(2, 2, 2))},
	}
	dir := t.TempDir()
	base := filepath.Join(dir, "out")
	require.NoError(t, WriteShapefile(base, []polygon.Polygon{outer}, false))

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		info, err := os.Stat(base + ext)
		require.NoError(t, err)
		require.Greater(t, info.Size(), int64(0))
	}

	shp, err := os.ReadFile(base + ".shp")
	require.NoError(t, err)
	require.Greater(t, len(shp), 100)
}
