package tile

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func float64Bytes(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func TestOpenRejectsUnrecognisedMagic(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte("not a tile")))
	require.Error(t, err)
}

func TestPLYRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 1\n")
	buf.WriteString("property float64 x\n")
	buf.WriteString("property float64 y\n")
	buf.WriteString("property float64 z\n")
	buf.WriteString("property uint8 classification\n")
	buf.WriteString("end_header\n")
	buf.Write(float64Bytes(1.5))
	buf.Write(float64Bytes(2.5))
	buf.Write(float64Bytes(3.5))
	buf.WriteByte(2)

	tl, err := Open(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, tl.Size())

	pt, err := tl.Read()
	require.NoError(t, err)
	require.Equal(t, 1.5, pt.X)
	require.Equal(t, 2.5, pt.Y)
	require.Equal(t, 3.5, pt.Elevation)
	require.True(t, pt.Ground())
}
