// Package runner wires the tile, lidarpoint, mesh, region, ring, polygon
// and emit packages together into the end-to-end tile -> polygon pipeline,
// and holds the CLI-facing configuration and progress logging for it.
package runner

import (
	"math"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// defaultDiscard is the LAS classification set dropped from consideration
// before thinning: never classified, unclassified, low noise, water,
// overlap, and high noise returns.
var defaultDiscard = []byte{0, 1, 7, 9, 12, 18}

// Config is the fully-parsed, not-yet-defaulted set of run options, one
// per CLI flag.
type Config struct {
	Width     *float64
	Delta     float64
	Slope     float64
	Land      bool
	Area      *float64
	Scale     *float64
	Simplify  bool
	Raw       bool
	Discard   []int
	Multi     bool
	Lines     bool
	EPSG      *int
	Threads   []int
	TilePaths []string
	TilesPath string
	Path      string
	Overwrite bool
	Quiet     bool
}

// NewConfig returns a Config with the same baked-in defaults as the
// original command line parser: a 1.5m delta, a 5 degree slope, the
// standard discard class set, and one worker per available core.
func NewConfig() *Config {
	cores := runtime.NumCPU()
	if cores < 1 {
		cores = 1
	}
	discard := make([]int, len(defaultDiscard))
	for i, d := range defaultDiscard {
		discard[i] = int(d)
	}
	return &Config{
		Delta:   1.5,
		Slope:   5.0,
		Discard: discard,
		Threads: []int{cores},
	}
}

// resolved holds the config after validation, default-filling, and unit
// conversion, consumed by Pipeline.
type resolved struct {
	width           float64
	delta           float64
	slope           float64 // radians
	land            bool
	area            float64
	scale           float64
	simplify        bool
	smooth          bool
	multi           bool
	lines           bool
	discard         map[byte]bool
	overwrite       bool
	quiet           bool
	tilePaths       []string
	path            string
	epsg            *int
	computeThreads  int
	ioThreads       int
}

// Validate checks every option the way the original parser did, returning
// the first violated constraint.
func (c *Config) Validate() error {
	if c.Width != nil && *c.Width <= 0 {
		return errors.New("width must be positive")
	}
	if c.Area != nil && *c.Area < 0 {
		return errors.New("area can't be negative")
	}
	if c.Delta <= 0 {
		return errors.New("delta must be positive")
	}
	if c.Slope <= 0 {
		return errors.New("slope must be positive")
	}
	if c.Slope >= 90 {
		return errors.New("slope must be less than 90")
	}
	if c.Scale != nil && *c.Scale < 0 {
		return errors.New("scale can't be negative")
	}
	for _, klass := range c.Discard {
		if klass < 0 || klass > 255 {
			return errors.Errorf("invalid lidar point class %d", klass)
		}
	}
	if len(c.Threads) > 2 {
		return errors.New("at most two thread count values allowed")
	}
	for _, count := range c.Threads {
		if count < 1 {
			return errors.New("number of threads must be positive")
		}
	}
	stdinCount := 0
	for _, p := range c.TilePaths {
		if p == "-" {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return errors.New("can't read standard input more than once")
	}
	if stdinCount > 0 && c.Width == nil {
		return errors.New("can't estimate width from standard input")
	}
	if c.Raw && c.Simplify {
		return errors.New("either raw or simplify but not both")
	}
	if len(c.TilePaths) == 0 && c.TilesPath == "" {
		return errors.New("missing argument: LAS input path")
	}
	if len(c.TilePaths) > 0 && c.TilesPath != "" {
		return errors.New("can't specify tiles as arguments and also in a file")
	}
	switch ext := strings.ToLower(extensionOf(c.Path)); {
	case c.Path == "-":
	case ext == ".json", ext == ".geojson":
	case ext == ".shp":
	default:
		return errors.New("output file extension must be .json or .shp")
	}
	return nil
}

func extensionOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func (c *Config) computeThreads() int {
	return c.Threads[0]
}

func (c *Config) ioThreads() int {
	return c.Threads[len(c.Threads)-1]
}

// resolve fills in width/area (estimating width from the tiles when it
// wasn't given), derives the simplify/smooth mode, and converts the slope
// from degrees to radians, mirroring App's constructor body.
func (c *Config) resolve(estimateWidth func([]string, map[byte]bool, int) (float64, error)) (*resolved, error) {
	discard := make(map[byte]bool, len(c.Discard))
	for _, d := range c.Discard {
		discard[byte(d)] = true
	}

	r := &resolved{
		delta:          c.Delta,
		slope:          c.Slope * math.Pi / 180,
		land:           c.Land,
		simplify:       !c.Raw,
		smooth:         !c.Raw && !c.Simplify,
		multi:          c.Multi,
		lines:          c.Lines,
		discard:        discard,
		overwrite:      c.Overwrite,
		quiet:          c.Quiet,
		tilePaths:      c.TilePaths,
		path:           c.Path,
		epsg:           c.EPSG,
		computeThreads: c.computeThreads(),
		ioThreads:      c.ioThreads(),
	}

	if c.Width != nil {
		r.width = *c.Width
	} else {
		width, err := estimateWidth(r.tilePaths, discard, r.ioThreads)
		if err != nil {
			return nil, err
		}
		r.width = width
	}

	if c.Area != nil {
		r.area = *c.Area
	} else {
		r.area = 4 * r.width * r.width
	}

	if c.Scale != nil {
		r.scale = *c.Scale
	} else {
		r.scale = r.width
	}

	return r, nil
}
