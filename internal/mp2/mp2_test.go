package mp2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaderRejectsBadSync(t *testing.T) {
	_, err := ParseHeader([]byte{0x00, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestParseHeaderStereo192kbps48k(t *testing.T) {
	// Layer II, MPEG-1, no CRC, bitrate index 10 (192kbps), sample rate
	// index 1 (48kHz), stereo, no padding.
	data := []byte{0xFF, 0xFD, 0xA4, 0x00}
	h, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, 192, h.BitrateKbps)
	require.Equal(t, 48000, h.SampleRate)
	require.Equal(t, ModeStereo, h.Mode)
	require.Equal(t, 2, h.NumChannels())
}

func TestParseHeaderMono(t *testing.T) {
	data := []byte{0xFF, 0xFD, 0xA0, 0xC0}
	h, err := ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, 1, h.NumChannels())
}

func TestFrameLengthBytesMatchesFormula(t *testing.T) {
	h := Header{BitrateKbps: 192, SampleRate: 48000}
	require.Equal(t, (144*192*1000)/48000, h.FrameLengthBytes())
}

func TestClassifySelectsClassAForLowBitrateMono(t *testing.T) {
	h := Header{BitrateKbps: 32, SampleRate: 48000, Mode: ModeMono}
	require.Equal(t, classA, classify(h))
}

func TestScaleFactorIsDecreasing(t *testing.T) {
	require.Greater(t, ScaleFactor(0), ScaleFactor(1))
	require.Greater(t, ScaleFactor(10), ScaleFactor(20))
}

func TestBitReaderReadsMSBFirst(t *testing.T) {
	r := newBitReader([]byte{0b10110000})
	require.Equal(t, uint32(1), r.ReadBits(1))
	require.Equal(t, uint32(0), r.ReadBits(1))
	require.Equal(t, uint32(0b11), r.ReadBits(2))
}

func TestDecodeFrameProducesPCMForEachChannel(t *testing.T) {
	h := Header{BitrateKbps: 192, SampleRate: 48000, Mode: ModeStereo}
	frameLen := h.FrameLengthBytes()
	frame := make([]byte, frameLen+2) // +2 bytes of trailing F-PAD
	frame[0], frame[1], frame[2], frame[3] = 0xFF, 0xFE, 0xA0, 0x00

	d := NewDecoder()
	out, err := d.DecodeFrame(h, frame)
	require.NoError(t, err)
	require.Len(t, out.PCM, 2)
	require.Len(t, out.PCM[0], 1152)
	require.Len(t, out.PCM[1], 1152)
	require.Len(t, out.FPAD, 2)
	require.EqualValues(t, 1, d.Stats())
}

func TestDecodeFrameRejectsShortFrame(t *testing.T) {
	h := Header{BitrateKbps: 192, SampleRate: 48000, Mode: ModeStereo}
	d := NewDecoder()
	_, err := d.DecodeFrame(h, make([]byte, 4))
	require.Error(t, err)
}
