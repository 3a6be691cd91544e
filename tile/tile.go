// Package tile reads LAS and PLY point-cloud tiles, normalising both
// formats to the same lidarpoint.Point stream regardless of their very
// different on-disk layouts.
package tile

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/srs"
)

// Tile is an opened point-cloud source: its declared point count, its
// coordinate reference system if the file carried one, and a Read method
// that yields exactly Size() points.
type Tile interface {
	Size() int
	SRS() (srs.SRS, bool)
	Read() (lidarpoint.Point, error)
}

// Open sniffs the file's magic bytes and returns the matching reader.
// LAS tiles begin with the 4-byte signature "LASF"; PLY tiles begin with
// the 3-byte magic "ply" followed by a newline.
func Open(r io.Reader) (Tile, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "reading tile signature")
	}
	switch {
	case len(magic) >= 4 && string(magic[:4]) == "LASF":
		return newLAS(br)
	case len(magic) >= 3 && string(magic[:3]) == "ply":
		return newPLY(br)
	default:
		return nil, errors.New("unrecognised tile format")
	}
}
