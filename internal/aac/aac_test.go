package aac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirecodeRoundTrip(t *testing.T) {
	header := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11}
	checksum := FirecodeCheck(header)
	require.True(t, VerifyFirecode(header, checksum))
}

func TestFirecodeDetectsCorruption(t *testing.T) {
	header := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11}
	checksum := FirecodeCheck(header)
	header[0] ^= 0xFF
	require.False(t, VerifyFirecode(header, checksum))
}

func TestNewProcessorRequiresValidShardCounts(t *testing.T) {
	p, err := NewProcessor(24)
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestPushCIFAccumulatesUntilSuperframe(t *testing.T) {
	p, err := NewProcessor(24)
	require.NoError(t, err)

	cifBytes := make([]byte, RSTotalShards)
	for i := 0; i < SuperframeCIFs-1; i++ {
		sf, err := p.PushCIF(cifBytes)
		require.NoError(t, err)
		require.Nil(t, sf)
	}
	sf, err := p.PushCIF(cifBytes)
	require.NoError(t, err)
	require.NotNil(t, sf)
}
