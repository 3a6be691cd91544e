package emit

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/mholling/las2poly/polygon"
)

const (
	shpFileCode  = 9994
	shpVersion   = 1000
	shpShapeType = 5 // Polygon
)

// WriteShapefile writes basePath+".shp", ".shx" and ".dbf". Shapefile has
// no standard slot for a coordinate system short of a .prj sidecar, which
// this module doesn't write, so an EPSG-tagged CRS is rejected outright
// rather than silently dropped.
func WriteShapefile(basePath string, polygons []polygon.Polygon, hasEPSG bool) error {
	if hasEPSG {
		return errors.New("can't store EPSG for shapefile format")
	}
	if len(polygons) > math.MaxInt32 {
		return errors.New("too many polygons")
	}

	shpBody, shxBody, err := buildShpShx(polygons)
	if err != nil {
		return err
	}

	if err := writeFile(basePath+".shp", shpHeader(len(shpBody), polygons), shpBody); err != nil {
		return err
	}
	if err := writeFile(basePath+".shx", shpHeader(len(shxBody), polygons), shxBody); err != nil {
		return err
	}
	return writeDBF(basePath+".dbf", len(polygons))
}

func writeFile(path string, header, body []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if _, err := f.Write(header); err != nil {
		return err
	}
	_, err = f.Write(body)
	return err
}

func bounds(polygons []polygon.Polygon) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range polygons {
		for _, v := range p.Outer.Vertices() {
			minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
			minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	return
}

// shpHeader renders the shared 100-byte SHP/SHX file header. bodyLen is
// the byte length of the records following it.
func shpHeader(bodyLen int, polygons []polygon.Polygon) []byte {
	minX, minY, maxX, maxY := bounds(polygons)
	buf := make([]byte, 100)
	binary.BigEndian.PutUint32(buf[0:4], shpFileCode)
	fileWords := uint32((100 + bodyLen) / 2)
	binary.BigEndian.PutUint32(buf[24:28], fileWords)
	binary.LittleEndian.PutUint32(buf[28:32], shpVersion)
	binary.LittleEndian.PutUint32(buf[32:36], shpShapeType)
	putF64LE(buf[36:44], minX)
	putF64LE(buf[44:52], minY)
	putF64LE(buf[52:60], maxX)
	putF64LE(buf[60:68], maxY)
	putF64LE(buf[68:76], 0) // Zmin
	putF64LE(buf[76:84], 0) // Zmax
	putF64LE(buf[84:92], 0) // Mmin
	putF64LE(buf[92:100], 0) // Mmax
	return buf
}

func putF64LE(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

func ringPoints(r *polygon.Ring) [][2]float64 {
	verts := r.Vertices()
	points := make([][2]float64, 0, len(verts)+1)
	for _, v := range verts {
		points = append(points, [2]float64{v.X, v.Y})
	}
	if len(verts) > 0 {
		points = append(points, [2]float64{verts[0].X, verts[0].Y})
	}
	return points
}

// buildShpShx renders the SHP and SHX record bodies (everything after
// each file's shared 100-byte header) for the given polygon set.
func buildShpShx(polygons []polygon.Polygon) ([]byte, []byte, error) {
	var shp, shx bytes.Buffer
	offsetWords := uint32(50) // header is 100 bytes = 50 words

	for i, p := range polygons {
		rings := append([]*polygon.Ring{p.Outer}, p.Holes...)
		pointLists := make([][][2]float64, len(rings))
		numPoints := 0
		for j, r := range rings {
			pointLists[j] = ringPoints(r)
			numPoints += len(pointLists[j])
		}
		numParts := len(rings)
		if numPoints > math.MaxInt32 {
			return nil, nil, errors.New("too many points")
		}

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, pts := range pointLists {
			for _, pt := range pts {
				minX, maxX = math.Min(minX, pt[0]), math.Max(maxX, pt[0])
				minY, maxY = math.Min(minY, pt[1]), math.Max(maxY, pt[1])
			}
		}

		contentBytes := 4 + 32 + 4 + 4 + 4*numParts + 16*numPoints
		contentWords := uint32(contentBytes / 2)

		recordHeader := make([]byte, 8)
		binary.BigEndian.PutUint32(recordHeader[0:4], uint32(i+1))
		binary.BigEndian.PutUint32(recordHeader[4:8], contentWords)
		shp.Write(recordHeader)

		content := make([]byte, 4+32+4+4)
		binary.LittleEndian.PutUint32(content[0:4], shpShapeType)
		putF64LE(content[4:12], minX)
		putF64LE(content[12:20], minY)
		putF64LE(content[20:28], maxX)
		putF64LE(content[28:36], maxY)
		binary.LittleEndian.PutUint32(content[36:40], uint32(numParts))
		binary.LittleEndian.PutUint32(content[40:44], uint32(numPoints))
		shp.Write(content)

		start := 0
		partIndex := make([]byte, 4)
		for _, pts := range pointLists {
			binary.LittleEndian.PutUint32(partIndex, uint32(start))
			shp.Write(partIndex)
			start += len(pts)
		}

		coord := make([]byte, 16)
		for _, pts := range pointLists {
			for _, pt := range pts {
				putF64LE(coord[0:8], pt[0])
				putF64LE(coord[8:16], pt[1])
				shp.Write(coord)
			}
		}

		shxRecord := make([]byte, 8)
		binary.BigEndian.PutUint32(shxRecord[0:4], offsetWords)
		binary.BigEndian.PutUint32(shxRecord[4:8], contentWords)
		shx.Write(shxRecord)

		offsetWords += 4 + contentWords // 8-byte record header = 4 words
	}

	return shp.Bytes(), shx.Bytes(), nil
}

// fidWidth is the field width of the single numeric FID column, sized to
// hold any uint32 record count plus one digit of headroom.
const fidWidth = 11

func writeDBF(path string, numRecords int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	recordSize := 1 + fidWidth
	headerSize := 32 + 32 + 1

	header := make([]byte, 32)
	header[0] = 0x03
	now := time.Now()
	header[1] = byte(now.Year() - 1900)
	header[2] = byte(now.Month())
	header[3] = byte(now.Day())
	binary.LittleEndian.PutUint32(header[4:8], uint32(numRecords))
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerSize))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordSize))
	if _, err := f.Write(header); err != nil {
		return err
	}

	field := make([]byte, 32)
	copy(field[0:11], "FID")
	field[11] = 'N'
	field[16] = fidWidth
	field[17] = 0
	if _, err := f.Write(field); err != nil {
		return err
	}
	if _, err := f.Write([]byte{0x0d}); err != nil {
		return err
	}

	for i := 1; i <= numRecords; i++ {
		if err := writeDBFRecord(f, i); err != nil {
			return err
		}
	}
	_, err = f.Write([]byte{0x1a})
	return err
}

func writeDBFRecord(w io.Writer, fid int) error {
	text := itoa(fid)
	field := make([]byte, fidWidth)
	for i := range field {
		field[i] = ' '
	}
	copy(field[fidWidth-len(text):], text)
	record := append([]byte{' '}, field...)
	_, err := w.Write(record)
	return err
}
