package runner

import (
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"golang.org/x/sync/errgroup"

	"github.com/mholling/las2poly/emit"
	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/mesh"
	"github.com/mholling/las2poly/polygon"
	"github.com/mholling/las2poly/region"
	"github.com/mholling/las2poly/ring"
	"github.com/mholling/las2poly/srs"
	"github.com/mholling/las2poly/vec"
)

// smoothAngleDegrees is the fixed corner-smoothing angle; the original
// CLI lineage this module follows (opts.hpp) has no --angle flag of its
// own, unlike the newer entry point's --angle, so this keeps the value
// that entry point defaults to.
const smoothAngleDegrees = 15.0

// Pipeline runs the full tile -> polygon extraction.
type Pipeline struct {
	Log *Log
}

// NewPipeline returns a Pipeline that logs to stderr unless quiet.
func NewPipeline(quiet bool) *Pipeline {
	return &Pipeline{Log: NewLog(!quiet)}
}

// Run validates and resolves config, then executes every stage of the
// extraction, writing the result to config.Path (or stdout for "-").
func (p *Pipeline) Run(c *Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	tilePaths, err := p.resolveTilePaths(c)
	if err != nil {
		return err
	}
	c.TilePaths = tilePaths

	r, err := c.resolve(estimateWidth)
	if err != nil {
		return errors.Wrap(err, "estimating defaults")
	}
	p.Log = NewLog(!r.quiet)

	if !r.overwrite && r.path != "-" {
		if _, err := os.Stat(r.path); err == nil {
			return errors.New("output file already exists")
		}
	}

	p.Log.Time("loading", Count(len(r.tilePaths), "tile"))
	points, resolvedSRS, hasSRS, err := p.loadPoints(r)
	if err != nil {
		return err
	}
	if r.epsg != nil {
		resolvedSRS, err = srs.Lookup(*r.epsg)
		if err != nil {
			return err
		}
		hasSRS = true
	}

	p.Log.Time("triangulating", Count(len(points), "point"))
	store := lidarpoint.NewStore(points)
	large, outline, err := p.triangulate(store, r)
	if err != nil {
		return err
	}

	p.Log.Time("classifying", Count(len(large), "triangle"))
	water := !r.land
	finalOutline := region.Classify(store, large, outline, r.delta, r.slope, water)

	ogc := outputIsOGC(r.path)

	p.Log.Time("stitching boundary")
	loops := p.stitch(store, finalOutline)
	loops = filterByArea(loops, r.area)

	rings := make([]*polygon.Ring, len(loops))
	for i, loop := range loops {
		rings[i] = polygon.NewRing(loop)
	}
	polygons := polygon.Nest(rings, ogc)

	if r.simplify || r.smooth {
		p.Log.Time(choose(r.smooth, "smoothing", "simplifying"), Count(len(rings), "ring"))
		tolerance := 4 * r.scale * r.scale
		open := water == ogc
		polygon.Simplify(polygons, tolerance, open)
	}

	if r.smooth {
		radians := smoothAngleDegrees * math.Pi / 180
		tolerance := 0.5 * r.scale / math.Sin(radians)
		erodeThenDilate := water == ogc
		polygon.Smooth(polygons, tolerance, radians, erodeThenDilate)
	}

	p.Log.Time("saving", Count(len(polygons), "polygon"))
	return p.write(r, polygons, resolvedSRS, hasSRS)
}

func choose(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// resolveTilePaths expands --tiles (a plain-text or YAML list file, or
// stdin) into the final tile path list; without --tiles, the positional
// tile paths are returned unchanged.
func (p *Pipeline) resolveTilePaths(c *Config) ([]string, error) {
	if c.TilesPath == "" {
		return c.TilePaths, nil
	}
	return readTilesList(c.TilesPath)
}

// loadPoints reads and thins every tile in parallel (bounded by the I/O
// thread count), then folds the per-tile results together with the same
// cell-collision resolution Thin uses internally, mirroring the original
// Points::Load's parallel divide-and-conquer merge.
func (p *Pipeline) loadPoints(r *resolved) ([]lidarpoint.Point, srs.SRS, bool, error) {
	resolution := r.width / math.Sqrt(8)
	thinned := make([][]lidarpoint.Point, len(r.tilePaths))
	srsFound := make([]srs.SRS, len(r.tilePaths))
	srsOK := make([]bool, len(r.tilePaths))

	group := new(errgroup.Group)
	group.SetLimit(essentials.MaxInt(1, r.ioThreads))
	for i, path := range r.tilePaths {
		i, path := i, path
		group.Go(func() error {
			raw, tileSRS, hasSRS, err := readTile(path, r.discard)
			if err != nil {
				return err
			}
			points, err := lidarpoint.Thin(raw, resolution)
			if err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			thinned[i] = points
			srsFound[i], srsOK[i] = tileSRS, hasSRS
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, srs.SRS{}, false, err
	}

	var merged []lidarpoint.Point
	var resolvedSRS srs.SRS
	hasSRS := false
	for i, points := range thinned {
		if merged == nil {
			merged = points
		} else {
			merged = lidarpoint.Merge(merged, points, resolution)
		}
		if !hasSRS && srsOK[i] {
			resolvedSRS, hasSRS = srsFound[i], true
		}
	}
	return merged, resolvedSRS, hasSRS, nil
}

// triangulate builds a ground-only mesh to interpolate every other
// point's elevation, then triangulates every point together for the
// final deconstruction into outline edges and over-wide triangles.
func (p *Pipeline) triangulate(store *lidarpoint.Store, r *resolved) ([]mesh.Triangle, []mesh.Edge, error) {
	var groundIDs, otherIDs []int32
	for i := 0; i < store.Len(); i++ {
		if store.At(int32(i)).Ground() {
			groundIDs = append(groundIDs, int32(i))
		} else {
			otherIDs = append(otherIDs, int32(i))
		}
	}

	if len(groundIDs) >= 2 {
		groundMesh := mesh.New(store)
		if err := groundMesh.Build(groundIDs, r.computeThreads); err != nil {
			return nil, nil, err
		}
		if len(otherIDs) > 0 {
			if err := groundMesh.Interpolate(groundIDs, otherIDs, r.computeThreads); err != nil {
				return nil, nil, err
			}
		}
	}

	allIDs := make([]int32, store.Len())
	for i := range allIDs {
		allIDs[i] = int32(i)
	}

	full := mesh.New(store)
	if err := full.Build(allIDs, r.computeThreads); err != nil {
		return nil, nil, err
	}

	water := !r.land
	ogc := outputIsOGC(r.path)
	anticlockwise := ogc != water
	return full.Deconstruct(allIDs, r.width, anticlockwise)
}

func (p *Pipeline) stitch(store *lidarpoint.Store, edges []mesh.Edge) [][]vec.Vector2 {
	segments := make([]ring.Segment, len(edges))
	for i, e := range edges {
		segments[i] = ring.Segment{
			From: store.At(e.From).Position(),
			To:   store.At(e.To).Position(),
		}
	}
	return ring.Stitch(segments, false, true)
}

// filterByArea drops rings that enclose less than minArea, at the
// ring-soup stage before nesting, so that an island too small to keep
// doesn't block its enclosing hole from also being dropped.
func filterByArea(loops [][]vec.Vector2, minArea float64) [][]vec.Vector2 {
	if minArea <= 0 {
		return loops
	}
	kept := loops[:0]
	for _, loop := range loops {
		if math.Abs(signedArea(loop)) >= minArea {
			kept = append(kept, loop)
		}
	}
	return kept
}

func signedArea(loop []vec.Vector2) float64 {
	sum := vec.Summation{}
	n := len(loop)
	for i := 0; i < n; i++ {
		a, b := loop[i], loop[(i+1)%n]
		sum.Add(a.X*b.Y - b.X*a.Y)
	}
	return 0.5 * sum.Sum
}

// outputIsOGC reports whether the output format's natural ring winding
// convention is OGC (counterclockwise-positive outers): true for
// GeoJSON, false for shapefile (ESRI convention).
func outputIsOGC(path string) bool {
	return !strings.EqualFold(extensionOf(path), ".shp")
}

func (p *Pipeline) write(r *resolved, polygons []polygon.Polygon, resolvedSRS srs.SRS, hasSRS bool) error {
	if strings.EqualFold(extensionOf(r.path), ".shp") {
		base := strings.TrimSuffix(r.path, extensionOf(r.path))
		return emit.WriteShapefile(base, polygons, resolvedSRS.HasEPSG)
	}

	if r.path == "-" {
		return emit.WriteGeoJSON(os.Stdout, polygons, resolvedSRS, hasSRS, r.multi, r.lines)
	}
	f, err := os.Create(r.path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", r.path)
	}
	defer f.Close()
	return emit.WriteGeoJSON(f, polygons, resolvedSRS, hasSRS, r.multi, r.lines)
}
