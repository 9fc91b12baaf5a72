package msc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabradio/dabradio/internal/deinterleave"
	"github.com/dabradio/dabradio/internal/scrambler"
	"github.com/dabradio/dabradio/internal/viterbi"
)

func softFromCoded(coded []byte) []viterbi.SoftBit {
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

// encodeSubchannelCIF builds one CIF's worth of received (still punctured)
// soft bits for a subchannel decoder: scramble, rate-1/4 encode, then
// puncture and concatenate per the decoder's own segments — the transmit
// side of what depunctureSegments/DecodeCIFSlice undoes. content must have
// exactly enough bits to cover every segment, including the tail.
func encodeSubchannelCIF(d *SubchannelDecoder, content []byte) []viterbi.SoftBit {
	coded := viterbi.Encode(scrambler.Scramble(content))
	var soft []viterbi.SoftBit
	pos := 0
	for _, seg := range d.segments {
		punctured := viterbi.Puncture(coded[pos:pos+seg.codedLen], seg.vec)
		soft = append(soft, softFromCoded(punctured)...)
		pos += seg.codedLen
	}
	return soft
}

func TestEEPDecodeCIFSliceRoundTrips(t *testing.T) {
	d := NewEEPDecoder(3, 6, false, 3) // EEP 3-A, n=1
	require.Greater(t, d.messageBits, 0)

	payload := make([]byte, d.messageBits)
	for i := range payload {
		payload[i] = byte(i % 2)
	}
	tailFiller := make([]byte, tailBlockBits/viterbi.NumGenerators)
	content := append(append([]byte{}, payload...), tailFiller...)

	soft := encodeSubchannelCIF(d, content)

	var out []byte
	var ok bool
	for i := 0; i < deinterleave.NumBranches+1; i++ {
		var err error
		out, ok, err = d.DecodeCIFSlice(soft)
		require.NoError(t, err)
	}
	require.True(t, ok, "deinterleaver should have warmed up by now")

	want := make([]byte, d.messageBits/8)
	for i := range want {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (payload[i*8+j] & 1)
		}
		want[i] = b
	}
	require.Equal(t, want, out)
}

func TestUEPDecodeCIFSliceRoundTrips(t *testing.T) {
	d := NewUEPDecoder(5, 16, 0) // table row 0: 16 CU, 32 kbps, level 5
	require.Greater(t, d.messageBits, 0)

	payload := make([]byte, d.messageBits)
	for i := range payload {
		payload[i] = byte((i + 1) % 2)
	}
	tailFiller := make([]byte, tailBlockBits/viterbi.NumGenerators)
	content := append(append([]byte{}, payload...), tailFiller...)

	soft := encodeSubchannelCIF(d, content)

	var ok bool
	for i := 0; i < deinterleave.NumBranches+1; i++ {
		var err error
		_, ok, err = d.DecodeCIFSlice(soft)
		require.NoError(t, err)
	}
	require.True(t, ok)
}

func TestPuncturingPlanUsesIndependentSegments(t *testing.T) {
	d := NewEEPDecoder(1, 12, false, 1) // EEP 1-A, n=1
	require.Len(t, d.segments, 3)       // L1, L2, tail
	require.NotEqual(t, d.segments[0].vec, d.segments[1].vec)
}
