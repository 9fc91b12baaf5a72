package scrambler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScrambleIsInvolution(t *testing.T) {
	bits := []byte{1, 0, 0, 1, 1, 0, 1, 0, 0, 0, 1, 1, 1, 0, 1, 0}
	scrambled := Scramble(bits)
	require.NotEqual(t, bits, scrambled)

	recovered := Scramble(scrambled)
	require.Equal(t, bits, recovered)
}

func TestScrambleBytesIsInvolution(t *testing.T) {
	data := []byte("hello dab")
	scrambled := ScrambleBytes(data)
	require.NotEqual(t, data, scrambled)

	recovered := ScrambleBytes(scrambled)
	require.Equal(t, data, recovered)
}

func TestPRBSFirstBits(t *testing.T) {
	p := New()
	// First output bit is the XOR of bit4 and bit8 of the all-ones seed,
	// which is 0 — the sequence's first non-trivial property we can assert
	// without transcribing the full reference sequence.
	first := p.NextBit()
	require.Equal(t, byte(0), first)
}
