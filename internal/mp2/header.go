// Package mp2 implements an ISO/IEC 11172-3 (MPEG-1) Layer II decoder: the
// format DAB (non-DAB+) services use for their MSC audio stream. Header
// parsing, bit allocation, scale factor decoding and polyphase synthesis
// are implemented; trailing F-PAD/X-PAD bytes are peeled off and handed to
// internal/pad.
package mp2

import "fmt"

// SampleRates by (version, index); DAB only uses the MPEG-1 48kHz row in
// practice but all three are implemented for completeness.
var SampleRates = [2][3]int{
	{44100, 48000, 32000}, // MPEG-1
	{22050, 24000, 16000}, // MPEG-2 (LSF)
}

// BitRatesLayerII in kbps, indexed by the 4-bit bitrate_index (1..14; 0 and
// 15 are reserved/free and not supported here).
var BitRatesLayerII = [15]int{
	0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384,
}

// ChannelMode enumerates the Layer II stereo modes.
type ChannelMode int

const (
	ModeStereo ChannelMode = iota
	ModeJointStereo
	ModeDualChannel
	ModeMono
)

// Header is a parsed Layer II frame header.
type Header struct {
	MPEG2       bool
	BitrateKbps int
	SampleRate  int
	Mode        ChannelMode
	ModeExtBits byte
	Padding     bool
	PrivateBit  bool
	Copyright   bool
	Original    bool
	Emphasis    byte
}

// NumChannels returns 1 for mono, 2 otherwise.
func (h Header) NumChannels() int {
	if h.Mode == ModeMono {
		return 1
	}
	return 2
}

// FrameLengthBytes computes the total Layer II frame length (including the
// 4-byte header), per the standard's frame-length formula.
func (h Header) FrameLengthBytes() int {
	pad := 0
	if h.Padding {
		pad = 1
	}
	return (144*h.BitrateKbps*1000)/h.SampleRate + pad
}

// ParseHeader decodes the 4-byte Layer II frame header. data must start at
// the 0xFFF sync word.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 4 {
		return Header{}, fmt.Errorf("mp2: header too short")
	}
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return Header{}, fmt.Errorf("mp2: sync word not found")
	}
	versionBit := (data[1] >> 3) & 1 // 1 = MPEG-1, 0 = MPEG-2 (LSF)
	layer := (data[1] >> 1) & 0x3
	if layer != 0x2 { // Layer II encoded as '10'
		return Header{}, fmt.Errorf("mp2: not a Layer II frame")
	}
	protectionAbsent := data[1] & 1

	bitrateIdx := data[2] >> 4
	sampleRateIdx := (data[2] >> 2) & 0x3
	padding := (data[2]>>1)&1 != 0
	private := data[2]&1 != 0

	modeIdx := (data[3] >> 6) & 0x3
	modeExt := (data[3] >> 4) & 0x3
	copyright := (data[3]>>3)&1 != 0
	original := (data[3]>>2)&1 != 0
	emphasis := data[3] & 0x3

	if bitrateIdx == 0 || bitrateIdx == 15 {
		return Header{}, fmt.Errorf("mp2: unsupported bitrate index %d", bitrateIdx)
	}
	if sampleRateIdx == 3 {
		return Header{}, fmt.Errorf("mp2: reserved sample rate index")
	}

	mpeg2 := versionBit == 0
	row := 0
	if mpeg2 {
		row = 1
	}

	_ = protectionAbsent

	return Header{
		MPEG2:       mpeg2,
		BitrateKbps: BitRatesLayerII[bitrateIdx],
		SampleRate:  SampleRates[row][sampleRateIdx],
		Mode:        ChannelMode(modeIdx),
		ModeExtBits: modeExt,
		Padding:     padding,
		PrivateBit:  private,
		Copyright:   copyright,
		Original:    original,
		Emphasis:    emphasis,
	}, nil
}
