package fic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/scrambler"
	"github.com/dabradio/dabradio/internal/viterbi"
)

func TestCRC16Deterministic(t *testing.T) {
	data := []byte("thirty byte fib payload, here!")
	require.Len(t, data, FIBPayloadBytes)
	c1 := CRC16(data)
	c2 := CRC16(data)
	require.Equal(t, c1, c2)
}

func TestVerifyFIBRejectsWrongLength(t *testing.T) {
	require.False(t, VerifyFIB([]byte{1, 2, 3}))
}

func TestBitsToBytes(t *testing.T) {
	bits := []byte{0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	out := bitsToBytes(bits)
	require.Equal(t, []byte{0x01, 0xFF}, out)
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

func withValidCRC(payload []byte) []byte {
	crc := ^CRC16(payload)
	return append(append([]byte{}, payload...), byte(crc>>8), byte(crc))
}

func softFromPunctured(coded []byte) []viterbi.SoftBit {
	soft := make([]viterbi.SoftBit, len(coded))
	for i, b := range coded {
		if b == 1 {
			soft[i] = viterbi.SoftOne
		} else {
			soft[i] = viterbi.SoftZero
		}
	}
	return soft
}

// TestDecodeFrameRoundTrips builds one Mode II transmission frame's worth of
// FIC soft bits (3 FIBs) by scrambling, rate-1/4 encoding, and puncturing the
// body with PI_16 and the 6 termination bits with PI_X — the inverse of what
// DecodeFrame does — then checks the decoded FIBs match and carry a valid
// CRC.
func TestDecodeFrameRoundTrips(t *testing.T) {
	params, err := dabparams.ForMode(dabparams.ModeII)
	require.NoError(t, err)
	d := NewDecoder(params)

	messageBitsPerFrame := d.messageBitsPerFrame()
	require.Equal(t, params.NbFibsPerFrame*FIBBits, messageBitsPerFrame)

	fibs := make([]byte, 0, params.NbFibsPerFrame*FIBBytes)
	for i := 0; i < params.NbFibsPerFrame; i++ {
		payload := make([]byte, FIBPayloadBytes)
		for j := range payload {
			payload[j] = byte((i*7 + j*3) % 256)
		}
		fibs = append(fibs, withValidCRC(payload)...)
	}
	require.Len(t, fibs, messageBitsPerFrame/8)

	payloadBits := bytesToBits(fibs)
	tailBits := make([]byte, 6)
	content := append(append([]byte{}, payloadBits...), tailBits...)
	scrambled := scrambler.Scramble(content)

	coded := viterbi.Encode(scrambled)
	bodyCodedBits := messageBitsPerFrame * viterbi.NumGenerators
	bodyCoded := coded[:bodyCodedBits]
	tailCoded := coded[bodyCodedBits:]

	bodyPunctured := viterbi.Puncture(bodyCoded, viterbi.PI16)
	tailPunctured := viterbi.Puncture(tailCoded, viterbi.PIX)

	soft := append(softFromPunctured(bodyPunctured), softFromPunctured(tailPunctured)...)
	want := params.FicBitsPerFrame()
	require.LessOrEqual(t, len(soft), want, "test fixture must fit within the frame's soft bit budget")
	for len(soft) < want {
		soft = append(soft, viterbi.SoftErase)
	}

	decodedFibs, err := d.DecodeFrame(soft)
	require.NoError(t, err)
	require.Len(t, decodedFibs, params.NbFibsPerFrame)
	for i, fib := range decodedFibs {
		require.True(t, fib.CRCOK, "fib %d CRC", i)
		require.Equal(t, fibs[i*FIBBytes:i*FIBBytes+FIBPayloadBytes], fib.Payload[:])
	}
}
