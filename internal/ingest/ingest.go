// Package ingest reads the receive pipeline's two supported input formats
// at the system boundary: raw complex I/Q samples from an external SDR
// collaborator, or pre-demodulated soft bits from an external Viterbi
// front-end, per spec.md §6 External Interfaces.
package ingest

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/dabradio/dabradio/internal/viterbi"
)

// IQReader reads complex baseband samples at 2.048 MS/s from a binary
// stream, either interleaved little-endian float32 I/Q pairs or 8-bit
// unsigned I/Q converted to float32, matching what an external SDR driver
// would hand off.
type IQReader struct {
	r      io.Reader
	buf    []byte
	eightBit bool
}

// NewIQReaderFloat32 wraps r as a source of interleaved little-endian
// float32 I/Q pairs.
func NewIQReaderFloat32(r io.Reader) *IQReader {
	return &IQReader{r: r}
}

// NewIQReaderUint8 wraps r as a source of interleaved 8-bit unsigned I/Q
// pairs, converted to float32 centered at zero (value-127.5)/127.5.
func NewIQReaderUint8(r io.Reader) *IQReader {
	return &IQReader{r: r, eightBit: true}
}

// ReadSamples reads up to n complex samples, returning fewer at EOF.
func (ir *IQReader) ReadSamples(n int) ([]complex128, error) {
	if ir.eightBit {
		return ir.readUint8(n)
	}
	return ir.readFloat32(n)
}

func (ir *IQReader) readFloat32(n int) ([]complex128, error) {
	byteLen := n * 8 // 2 x float32 per sample
	if cap(ir.buf) < byteLen {
		ir.buf = make([]byte, byteLen)
	}
	buf := ir.buf[:byteLen]
	read, err := io.ReadFull(ir.r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("ingest: read I/Q: %w", err)
	}
	numSamples := read / 8
	out := make([]complex128, numSamples)
	for i := 0; i < numSamples; i++ {
		ib := binary.LittleEndian.Uint32(buf[i*8:])
		qb := binary.LittleEndian.Uint32(buf[i*8+4:])
		out[i] = complex(float64(math.Float32frombits(ib)), float64(math.Float32frombits(qb)))
	}
	if err == io.EOF && numSamples == 0 {
		return out, io.EOF
	}
	return out, nil
}

func (ir *IQReader) readUint8(n int) ([]complex128, error) {
	byteLen := n * 2
	if cap(ir.buf) < byteLen {
		ir.buf = make([]byte, byteLen)
	}
	buf := ir.buf[:byteLen]
	read, err := io.ReadFull(ir.r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("ingest: read I/Q: %w", err)
	}
	numSamples := read / 2
	out := make([]complex128, numSamples)
	for i := 0; i < numSamples; i++ {
		iv := (float64(buf[i*2]) - 127.5) / 127.5
		qv := (float64(buf[i*2+1]) - 127.5) / 127.5
		out[i] = complex(iv, qv)
	}
	if err == io.EOF && numSamples == 0 {
		return out, io.EOF
	}
	return out, nil
}

// SoftBitReader reads pre-demodulated frame soft-bit vectors: one frame is
// frame_bits bytes, each byte a viterbi soft value in [-127,+127].
type SoftBitReader struct {
	r         io.Reader
	frameBits int
}

// NewSoftBitReader wraps r as a source of frameBits-byte soft-bit frames.
func NewSoftBitReader(r io.Reader, frameBits int) *SoftBitReader {
	return &SoftBitReader{r: r, frameBits: frameBits}
}

// ReadFrame reads one complete frame of soft bits, or io.EOF if the stream
// is exhausted before a full frame is available.
func (sr *SoftBitReader) ReadFrame() ([]viterbi.SoftBit, error) {
	buf := make([]byte, sr.frameBits)
	_, err := io.ReadFull(sr.r, buf)
	if err != nil {
		return nil, err
	}
	out := make([]viterbi.SoftBit, sr.frameBits)
	for i, b := range buf {
		out[i] = viterbi.SoftBit(int8(b))
	}
	return out, nil
}

// Magnitude is a small helper observers use to gate on signal presence
// without importing math/cmplx directly.
func Magnitude(s complex128) float64 {
	return cmplx.Abs(s)
}
