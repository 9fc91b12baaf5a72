package viterbi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bits := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0}
	coded := Encode(bits)
	require.Len(t, coded, len(bits)*NumGenerators)

	soft := make([]SoftBit, len(coded))
	for i, b := range coded {
		if b == 1 {
			soft[i] = SoftOne
		} else {
			soft[i] = SoftZero
		}
	}

	dec := NewDecoder()
	decoded, err := dec.Decode(soft)
	require.NoError(t, err)
	require.Equal(t, bits, decoded)
}

func TestDecodeToleratesNoise(t *testing.T) {
	bits := []byte{0, 1, 1, 0, 1, 0, 0, 1, 1, 0, 1, 1}
	coded := Encode(bits)

	soft := make([]SoftBit, len(coded))
	for i, b := range coded {
		if b == 1 {
			soft[i] = SoftOne
		} else {
			soft[i] = SoftZero
		}
	}
	// Flip the confidence, not the sign, of a couple of samples: a weak but
	// correctly-signed soft value should still decode correctly.
	soft[3] = 20
	soft[10] = -15

	dec := NewDecoder()
	decoded, err := dec.Decode(soft)
	require.NoError(t, err)
	require.Equal(t, bits, decoded)
}

func TestPunctureDepunctureRoundTrip(t *testing.T) {
	coded := Encode([]byte{1, 0, 1, 1, 0, 0, 1, 0})
	// pad to a multiple of 32 for a clean puncturing cycle
	for len(coded)%32 != 0 {
		coded = append(coded, 0)
	}

	punctured := Puncture(coded, PI16)
	require.Less(t, len(punctured), len(coded))

	soft := make([]SoftBit, len(punctured))
	for i, b := range punctured {
		if b == 1 {
			soft[i] = SoftOne
		} else {
			soft[i] = SoftZero
		}
	}

	depunctured := Depuncture(soft, PI16, len(coded))
	require.Len(t, depunctured, len(coded))
}

func TestPuncturedCodeLen(t *testing.T) {
	n := PuncturedCodeLen(320, PI16)
	require.Greater(t, n, 0)
	require.LessOrEqual(t, n, 320)
}
