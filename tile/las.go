package tile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/mholling/las2poly/lidarpoint"
	"github.com/mholling/las2poly/srs"
)

// las reads an ASPRS LAS tile (versions 1.1 through 1.4, point data record
// formats 0-10). LAZ-compressed tiles (format flagged >127) are rejected
// explicitly rather than silently misread.
type las struct {
	r        *bufio.Reader
	position int64

	versionMinor          byte
	pointFormat            byte
	xScale, yScale, zScale float64
	xOffset, yOffset, zOffset float64

	size   int
	srs    srs.SRS
	hasSRS bool
}

func newLAS(r *bufio.Reader) (*las, error) {
	l := &las{r: r}
	if err := l.parseHeader(); err != nil {
		return nil, errors.Wrap(err, "reading LAS header")
	}
	return l, nil
}

func (l *las) Size() int            { return l.size }
func (l *las) SRS() (srs.SRS, bool) { return l.srs, l.hasSRS }

func (l *las) skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, l.r, int64(n))
	l.position += int64(n)
	return err
}

func (l *las) skipTo(pos int64) error {
	return l.skip(int(pos - l.position))
}

func (l *las) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(l.r, buf)
	l.position += int64(n)
	return buf, err
}

func (l *las) u8() (byte, error) {
	b, err := l.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (l *las) u16() (uint16, error) {
	b, err := l.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (l *las) u32() (uint32, error) {
	b, err := l.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (l *las) u64() (uint64, error) {
	b, err := l.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (l *las) f64() (float64, error) {
	b, err := l.read(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (l *las) parseHeader() error {
	l.position = 0
	if err := l.skip(4); err != nil { // "LASF" signature, already sniffed
		return err
	}
	if err := l.skip(20); err != nil {
		return err
	}
	versionMajor, err := l.u8()
	if err != nil {
		return err
	}
	l.versionMinor, err = l.u8()
	if err != nil {
		return err
	}
	if versionMajor != 1 {
		return errors.Errorf("unsupported LAS version %d.%d", versionMajor, l.versionMinor)
	}

	if err := l.skip(68); err != nil {
		return err
	}
	headerSize, err := l.u16()
	if err != nil {
		return err
	}
	offsetToPointData, err := l.u32()
	if err != nil {
		return err
	}
	numberOfVLRs, err := l.u32()
	if err != nil {
		return err
	}
	l.pointFormat, err = l.u8()
	if err != nil {
		return err
	}
	if l.pointFormat > 127 {
		return errors.New("LAZ compressed format not supported")
	}
	if l.pointFormat > 10 {
		return errors.Errorf("unsupported LAS point data record format %d", l.pointFormat)
	}

	if err := l.skip(2); err != nil {
		return err
	}
	legacyCount, err := l.u32()
	if err != nil {
		return err
	}

	if err := l.skip(20); err != nil {
		return err
	}
	if l.xScale, err = l.f64(); err != nil {
		return err
	}
	if l.yScale, err = l.f64(); err != nil {
		return err
	}
	if l.zScale, err = l.f64(); err != nil {
		return err
	}
	if l.xOffset, err = l.f64(); err != nil {
		return err
	}
	if l.yOffset, err = l.f64(); err != nil {
		return err
	}
	if l.zOffset, err = l.f64(); err != nil {
		return err
	}

	if l.versionMinor < 4 {
		l.size = int(legacyCount)
	} else {
		if err := l.skip(56); err != nil {
			return err
		}
		if _, err := l.u64(); err != nil { // start of extended VLRs
			return err
		}
		if _, err := l.u32(); err != nil { // number of extended VLRs
			return err
		}
		count, err := l.u64()
		if err != nil {
			return err
		}
		l.size = int(count)
	}

	if err := l.skipTo(int64(headerSize)); err != nil {
		return err
	}
	if err := l.readVLRs(numberOfVLRs, 2); err != nil {
		return err
	}
	return l.skipTo(int64(offsetToPointData))
}

// readVLRs scans the variable length records looking for a coordinate
// system: either an OGC WKT string (record id 2112) or a GeoTIFF
// ProjectedCSTypeGeoKey (record id 34735, key id 3072). lengthBytes is 2
// for ordinary VLRs and 8 for the extended VLRs following point data.
func (l *las) readVLRs(count uint32, lengthBytes int) error {
	for i := uint32(0); i < count && !l.hasSRS; i++ {
		if err := l.skip(2); err != nil {
			return err
		}
		userID, err := l.read(16)
		if err != nil {
			return err
		}
		recordID, err := l.u16()
		if err != nil {
			return err
		}
		var recordLength uint64
		if lengthBytes == 8 {
			recordLength, err = l.u64()
		} else {
			var v16 uint16
			v16, err = l.u16()
			recordLength = uint64(v16)
		}
		if err != nil {
			return err
		}
		if err := l.skip(32); err != nil {
			return err
		}

		isProjection := strings.HasPrefix(string(userID), "LASF_Projection")
		switch {
		case !isProjection:
			if err := l.skip(int(recordLength)); err != nil {
				return err
			}
		case recordID == 2112:
			wkt, err := l.read(int(recordLength))
			if err != nil {
				return err
			}
			if text := extractProjcs(string(wkt)); text != "" {
				l.srs = srs.FromWKT(text)
				l.hasSRS = true
			}
		case recordID == 34735:
			if _, err := l.u16(); err != nil { // key directory version
				return err
			}
			if _, err := l.u16(); err != nil { // key revision
				return err
			}
			if _, err := l.u16(); err != nil { // minor revision
				return err
			}
			numberOfKeys, err := l.u16()
			if err != nil {
				return err
			}
			for k := uint16(0); k < numberOfKeys; k++ {
				keyID, err := l.u16()
				if err != nil {
					return err
				}
				if _, err := l.u16(); err != nil { // tiff tag location
					return err
				}
				if _, err := l.u16(); err != nil { // count
					return err
				}
				valueOffset, err := l.u16()
				if err != nil {
					return err
				}
				if keyID == 3072 { // ProjectedCSTypeGeoKey
					if resolved, err := srs.Lookup(int(valueOffset)); err == nil {
						l.srs, l.hasSRS = resolved, true
					}
				}
			}
			if err := l.skip(int(recordLength) - 8*(int(numberOfKeys)+1)); err != nil {
				return err
			}
		default:
			if err := l.skip(int(recordLength)); err != nil {
				return err
			}
		}
	}
	return nil
}

// extractProjcs finds the balanced-bracket PROJCS[...] substring within a
// compound OGC WKT string.
func extractProjcs(wkt string) string {
	start := strings.Index(wkt, "PROJCS[")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(wkt); i++ {
		switch wkt[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return wkt[start : i+1]
			}
		}
	}
	return ""
}

// pointFormatLength is the on-disk byte length of each point data record
// format's fixed portion (0 through 10), per the ASPRS LAS specification.
var pointFormatLength = map[byte]int{
	0: 20, 1: 28, 2: 26, 3: 34, 4: 57, 5: 63,
	6: 30, 7: 36, 8: 38, 9: 59, 10: 67,
}

func (l *las) Read() (lidarpoint.Point, error) {
	n, ok := pointFormatLength[l.pointFormat]
	if !ok {
		return lidarpoint.Point{}, errors.Errorf("unsupported point format %d", l.pointFormat)
	}
	buf, err := l.read(n)
	if err != nil {
		return lidarpoint.Point{}, err
	}

	xi := int32(binary.LittleEndian.Uint32(buf[0:4]))
	yi := int32(binary.LittleEndian.Uint32(buf[4:8]))
	zi := int32(binary.LittleEndian.Uint32(buf[8:12]))

	var keyPoint, withheld, overlap bool
	var classification byte

	if l.pointFormat <= 5 {
		flags := buf[15]
		keyPoint = flags&0b01000000 != 0
		withheld = flags&0b10000000 != 0
		classification = flags & 0b00011111
		overlap = classification == 12
	} else {
		flags := buf[15]
		keyPoint = flags&0b00000010 != 0
		withheld = flags&0b00000100 != 0
		overlap = flags&0b00001000 != 0
		classification = buf[16]
	}

	return lidarpoint.Point{
		X:              l.xOffset + l.xScale*float64(xi),
		Y:              l.yOffset + l.yScale*float64(yi),
		Elevation:      l.zOffset + l.zScale*float64(zi),
		Classification: classification,
		KeyPoint:       keyPoint,
		Withheld:       withheld,
		Overlap:        overlap,
	}, nil
}

