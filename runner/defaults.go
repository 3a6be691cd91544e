package runner

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"golang.org/x/sync/errgroup"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/mesh"
	"github.com/mholling/las2poly/srs"
	"github.com/mholling/las2poly/tile"
)

// estimateWidth loads each tile independently (in parallel, bounded by
// ioThreads), triangulates its discard-filtered points on their own, and
// takes the median edge length of that triangulation as the tile's
// characteristic point spacing. The overall estimate is four times the
// median of those per-tile medians, matching the original's rationale
// that a waterbody narrower than a few point spacings can't be resolved
// at all.
//
// The original's estimator recurses pairwise over the tile list and only
// computes a per-file median at its leaves (single-file) nodes; the
// parallel fan-out here produces the same leaf-level median set without
// needing the recursive tree shape, since nothing besides the final
// median-of-medians depends on how the files were grouped.
func estimateWidth(tilePaths []string, discard map[byte]bool, ioThreads int) (float64, error) {
	if len(tilePaths) == 0 {
		return 0, errors.New("no tiles to estimate width from")
	}

	medians := make([]float64, len(tilePaths))
	group := new(errgroup.Group)
	group.SetLimit(essentials.MaxInt(1, ioThreads))

	for i, path := range tilePaths {
		i, path := i, path
		group.Go(func() error {
			points, _, _, err := readTile(path, discard)
			if err != nil {
				return err
			}
			if len(points) < 2 {
				medians[i] = 0
				return nil
			}
			store := lidarpoint.NewStore(points)
			m := mesh.New(store)
			ids := make([]int32, len(points))
			for j := range ids {
				ids[j] = int32(j)
			}
			if err := m.Build(ids, 1); err != nil {
				return errors.Wrapf(err, "%s: estimating width", path)
			}
			medians[i] = m.MedianLength()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	sort.Float64s(medians)
	median := medians[len(medians)/2]
	return 4 * median, nil
}

// readTile opens path (or stdin for "-"), reads every point, and applies
// the withheld/key-point/discard filter from the tile loader: withheld
// points are always dropped, key points are always kept, everything else
// is kept unless its classification is in discard.
func readTile(path string, discard map[byte]bool) ([]lidarpoint.Point, srs.SRS, bool, error) {
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, srs.SRS{}, false, errors.Wrapf(err, "%s: problem reading file", path)
		}
		defer f.Close()
		r = f
	}

	t, err := tile.Open(r)
	if err != nil {
		return nil, srs.SRS{}, false, errors.Wrapf(err, "%s", path)
	}

	points := make([]lidarpoint.Point, 0, t.Size())
	for i := 0; i < t.Size(); i++ {
		p, err := t.Read()
		if err != nil {
			return nil, srs.SRS{}, false, errors.Wrapf(err, "%s", path)
		}
		if p.Withheld {
			continue
		}
		if !p.KeyPoint && discard[p.Classification] {
			continue
		}
		points = append(points, p)
	}

	tileSRS, hasSRS := t.SRS()
	return points, tileSRS, hasSRS, nil
}
