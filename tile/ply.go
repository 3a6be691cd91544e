package tile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/srs"
)

// ply reads a fixed-layout binary-little-endian PLY tile: a four-property
// vertex element (x, y, z float64, classification uint8, in that order;
// a header listing any other properties is rejected) with no
// embedded coordinate system, the format this module's own tile writer
// (not implemented here — ply tiles are an input-only format) would
// produce as an intermediate between LAS tiles.
type ply struct {
	r    *bufio.Reader
	size int
}

func newPLY(r *bufio.Reader) (*ply, error) {
	p := &ply{r: r}
	if err := p.parseHeader(); err != nil {
		return nil, errors.Wrap(err, "reading PLY header")
	}
	return p, nil
}

func (p *ply) Size() int            { return p.size }
func (p *ply) SRS() (srs.SRS, bool) { return srs.SRS{}, false }

func (p *ply) line() (string, error) {
	for {
		text, err := p.r.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimRight(text, "\r\n")
		if strings.HasPrefix(text, "comment") {
			continue
		}
		return text, nil
	}
}

func (p *ply) expect(words string) error {
	text, err := p.line()
	if err != nil {
		return err
	}
	if text != words {
		return errors.Errorf("unable to process PLY file: expected %q, got %q", words, text)
	}
	return nil
}

func (p *ply) expectValue(prefix string) (string, error) {
	text, err := p.line()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(text, prefix) {
		return "", errors.Errorf("unable to process PLY file: expected %q prefix, got %q", prefix, text)
	}
	return strings.TrimSpace(strings.TrimPrefix(text, prefix)), nil
}

func (p *ply) parseHeader() error {
	if err := p.expect("ply"); err != nil {
		return err
	}
	if err := p.expect("format binary_little_endian 1.0"); err != nil {
		return err
	}
	sizeText, err := p.expectValue("element vertex")
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(sizeText)
	if err != nil {
		return errors.Wrap(err, "parsing vertex count")
	}
	p.size = size

	for _, property := range []string{
		"property float64 x",
		"property float64 y",
		"property float64 z",
		"property uint8 classification",
	} {
		if err := p.expect(property); err != nil {
			return err
		}
	}
	return p.expect("end_header")
}

func (p *ply) Read() (lidarpoint.Point, error) {
	buf := make([]byte, 25)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return lidarpoint.Point{}, err
	}
	x := math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
	y := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
	z := math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24]))
	classification := buf[24]
	return lidarpoint.Point{
		X:              x,
		Y:              y,
		Elevation:      z,
		Classification: classification,
		Overlap:        classification == 12,
	}, nil
}
