package ingest

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIQReaderFloat32RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	samples := []complex128{complex(0.5, -0.25), complex(-1.0, 1.0)}
	for _, s := range samples {
		var ib, qb [4]byte
		binary.LittleEndian.PutUint32(ib[:], math.Float32bits(float32(real(s))))
		binary.LittleEndian.PutUint32(qb[:], math.Float32bits(float32(imag(s))))
		buf.Write(ib[:])
		buf.Write(qb[:])
	}

	r := NewIQReaderFloat32(&buf)
	out, err := r.ReadSamples(2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.InDelta(t, 0.5, real(out[0]), 1e-6)
	require.InDelta(t, -0.25, imag(out[0]), 1e-6)
}

func TestIQReaderUint8Conversion(t *testing.T) {
	buf := bytes.NewBuffer([]byte{255, 0, 127, 127})
	r := NewIQReaderUint8(buf)
	out, err := r.ReadSamples(2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.InDelta(t, 1.0, real(out[0]), 0.01)
	require.InDelta(t, -1.0, imag(out[0]), 0.01)
}

func TestIQReaderReturnsEOFOnEmptyStream(t *testing.T) {
	r := NewIQReaderFloat32(bytes.NewReader(nil))
	out, err := r.ReadSamples(4)
	require.Equal(t, io.EOF, err)
	require.Empty(t, out)
}

func TestSoftBitReaderReadsFullFrame(t *testing.T) {
	frame := []byte{127, -127 & 0xFF, 0, 64}
	r := NewSoftBitReader(bytes.NewReader(frame), len(frame))
	bits, err := r.ReadFrame()
	require.NoError(t, err)
	require.Len(t, bits, len(frame))
	require.EqualValues(t, 127, bits[0])
	require.EqualValues(t, -127, bits[1])
}

func TestSoftBitReaderReturnsErrorOnShortFrame(t *testing.T) {
	r := NewSoftBitReader(bytes.NewReader([]byte{1, 2}), 4)
	_, err := r.ReadFrame()
	require.Error(t, err)
}
