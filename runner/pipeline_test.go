package runner

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// plyPoint is one synthetic ground-classified vertex for a test tile.
type plyPoint struct {
	x, y, z float64
}

func writePLYTile(t *testing.T, dir, name string, points []plyPoint) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("ply\n")
	require.NoError(t, err)
	_, err = f.WriteString("format binary_little_endian 1.0\n")
	require.NoError(t, err)
	_, err = f.WriteString("element vertex " + strconv.Itoa(len(points)) + "\n")
	require.NoError(t, err)
	for _, line := range []string{
		"property float64 x\n",
		"property float64 y\n",
		"property float64 z\n",
		"property uint8 classification\n",
		"end_header\n",
	} {
		_, err = f.WriteString(line)
		require.NoError(t, err)
	}

	buf := make([]byte, 8)
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(p.x))
		_, err = f.Write(buf)
		require.NoError(t, err)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(p.y))
		_, err = f.Write(buf)
		require.NoError(t, err)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(p.z))
		_, err = f.Write(buf)
		require.NoError(t, err)
		_, err = f.Write([]byte{2}) // ground
		require.NoError(t, err)
	}
	return path
}

// squareLakePoints builds a dense, flat land grid at z=0 surrounding a
// sparse, flat z=-1 square patch, spanning x,y in [40,60] — the sparseness
// of the patch (only its four corners, ~20m apart) against the dense 2m
// land grid is what makes mesh.Deconstruct classify it as "large" and
// region.IsWater then accept it as a single flat, nearly-horizontal body,
// mirroring how real lidar returns fewer points off a water surface than
// off the surrounding ground.
func squareLakePoints() []plyPoint {
	var points []plyPoint
	for x := 30.0; x <= 70.0; x += 2 {
		for y := 30.0; y <= 70.0; y += 2 {
			if x >= 40 && x <= 60 && y >= 40 && y <= 60 {
				continue
			}
			points = append(points, plyPoint{x: x, y: y, z: 0})
		}
	}
	for _, corner := range [][2]float64{{40, 40}, {60, 40}, {60, 60}, {40, 60}} {
		points = append(points, plyPoint{x: corner[0], y: corner[1], z: -1})
	}
	return points
}

type geoJSONDoc struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates [][][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// TestPipelineRunSquareLake exercises the full tile -> polygon pipeline
// in-process against a synthetic PLY tile shaped like the square-lake
// scenario: a single flat water patch, bounded by (40,40)-(60,40)-
// (60,60)-(40,60), expected back unperturbed since Raw skips simplify and
// smooth.
func TestPipelineRunSquareLake(t *testing.T) {
	dir := t.TempDir()
	tilePath := writePLYTile(t, dir, "lake.ply", squareLakePoints())
	outPath := filepath.Join(dir, "out.json")

	width := 5.0
	cfg := NewConfig()
	cfg.Width = &width
	cfg.Slope = 10
	cfg.Raw = true
	cfg.Quiet = true
	cfg.TilePaths = []string{tilePath}
	cfg.Path = outPath

	err := NewPipeline(cfg.Quiet).Run(cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc geoJSONDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Features, 1)
	require.Equal(t, "Polygon", doc.Features[0].Geometry.Type)

	outer := doc.Features[0].Geometry.Coordinates[0]
	require.Len(t, outer, 5) // 4 corners, ring closed back to the first

	expected := [][2]float64{{40, 40}, {60, 40}, {60, 60}, {40, 60}}
	for _, corner := range expected {
		found := false
		for _, v := range outer {
			if math.Abs(v[0]-corner[0]) < 0.5 && math.Abs(v[1]-corner[1]) < 0.5 {
				found = true
				break
			}
		}
		require.Truef(t, found, "missing corner %v in %v", corner, outer)
	}
}

// TestPipelineRunEmptyInputErrors exercises the empty-input scenario: a
// tile with zero points leaves nothing to triangulate, so Run must fail
// rather than silently emit an empty result.
func TestPipelineRunEmptyInputErrors(t *testing.T) {
	dir := t.TempDir()
	tilePath := writePLYTile(t, dir, "empty.ply", nil)
	outPath := filepath.Join(dir, "out.json")

	width := 5.0
	cfg := NewConfig()
	cfg.Width = &width
	cfg.Quiet = true
	cfg.TilePaths = []string{tilePath}
	cfg.Path = outPath

	err := NewPipeline(cfg.Quiet).Run(cfg)
	require.Error(t, err)

	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr), "no output should be written on failure")
}
