package msc

import (
	"fmt"

	"github.com/dabradio/dabradio/internal/deinterleave"
	"github.com/dabradio/dabradio/internal/scrambler"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// SubchannelDecoder decodes one MSC subchannel's soft bit stream (already
// sliced out of the CIF by the orchestrator using the subchannel's start
// address and size) into its transport byte stream: depuncture + Viterbi
// decode, CIF de-interleave, then descramble.
type SubchannelDecoder struct {
	subChID     byte
	sizeCU      int // subchannel capacity, in 64-bit capacity units
	isUEP       bool
	uepIdx      byte
	eepProfileB bool
	eepLevel    int

	segments    []puncturedSegment // this subchannel's punctured regions, fixed for its lifetime
	messageBits int                // decoded payload bits per CIF, tail excluded

	vit   *viterbi.Decoder
	deint *deinterleave.Deinterleaver

	framesDecoded uint64
}

// NewUEPDecoder creates a decoder for a UEP-protected subchannel.
func NewUEPDecoder(subChID byte, sizeCU int, tableIdx byte) *SubchannelDecoder {
	d := &SubchannelDecoder{
		subChID: subChID,
		sizeCU:  sizeCU,
		isUEP:   true,
		uepIdx:  tableIdx,
		vit:     viterbi.NewDecoder(),
	}
	d.segments, d.messageBits = d.puncturingPlan()
	d.deint = deinterleave.New(d.messageBits)
	return d
}

// NewEEPDecoder creates a decoder for an EEP-protected subchannel.
func NewEEPDecoder(subChID byte, sizeCU int, profileB bool, level int) *SubchannelDecoder {
	d := &SubchannelDecoder{
		subChID:     subChID,
		sizeCU:      sizeCU,
		isUEP:       false,
		eepProfileB: profileB,
		eepLevel:    level,
		vit:         viterbi.NewDecoder(),
	}
	d.segments, d.messageBits = d.puncturingPlan()
	d.deint = deinterleave.New(d.messageBits)
	return d
}

// tailBlockBits is the fixed 24-output-bit tail segment every EEP/UEP
// subchannel ends with, coded with the shared PI_X puncturing vector
// regardless of protection profile (EN 300 401 clause 11.3).
const tailBlockBits = 24

// puncturedSegment is one independently-punctured region of a subchannel's
// coded stream: codedLen mother-code (rate-1/4) bits, punctured with vec.
type puncturedSegment struct {
	codedLen int
	vec      viterbi.PuncturingVector
}

// depunctureSegments walks soft (the subchannel's received, still-punctured
// bit stream) region by region, depuncturing each with its own vector and
// concatenating the results into one full rate-1/4 stream ready for a
// single Decode call. This mirrors the reference decoder's VITDEC_RUN loop,
// which runs each EEP/UEP partition through the trellis with its own
// puncturing pattern before the shared tail segment.
func depunctureSegments(soft []viterbi.SoftBit, segs []puncturedSegment) []viterbi.SoftBit {
	out := make([]viterbi.SoftBit, 0, len(soft)*4)
	pos := 0
	for _, seg := range segs {
		recvLen := viterbi.PuncturedCodeLen(seg.codedLen, seg.vec)
		end := pos + recvLen
		if end > len(soft) {
			end = len(soft)
		}
		var recv []viterbi.SoftBit
		if pos < end {
			recv = soft[pos:end]
		}
		pos += recvLen
		out = append(out, viterbi.Depuncture(recv, seg.vec, seg.codedLen)...)
	}
	return out
}

// DecodeCIFSlice processes one CIF's worth of soft bits for this subchannel
// (sizeCU*64 raw soft bits per EN 300 401 clause 5.2's capacity-unit
// addressing, still punctured) and returns the de-interleaved, descrambled
// transport bytes for that CIF once the 16-frame de-interleaver has filled
// (ok=false during warm-up).
func (d *SubchannelDecoder) DecodeCIFSlice(soft []viterbi.SoftBit) (out []byte, ok bool, err error) {
	depunctured := depunctureSegments(soft, d.segments)
	decoded, err := d.vit.Decode(depunctured)
	if err != nil {
		return nil, false, fmt.Errorf("msc: subchannel %d viterbi decode: %w", d.subChID, err)
	}
	if len(decoded) < d.messageBits {
		return nil, false, fmt.Errorf("msc: subchannel %d decoded %d bits, need %d", d.subChID, len(decoded), d.messageBits)
	}

	deinterleaved, ready := d.deint.PushCIF(decoded[:d.messageBits])
	if !ready {
		return nil, false, nil
	}

	descrambled := scrambler.Scramble(deinterleaved)
	d.framesDecoded++
	return bitsToBytes(descrambled), true, nil
}

// puncturingPlan returns this subchannel's independently-punctured regions
// (EEP: 2 plus the shared tail; UEP: 4 plus the shared tail) and the number
// of payload message bits they decode to, once the tail segment's own 6
// decoded bits (termination bits, not payload) are trimmed off.
func (d *SubchannelDecoder) puncturingPlan() ([]puncturedSegment, int) {
	tail := puncturedSegment{codedLen: tailBlockBits, vec: viterbi.PIX}

	if d.isUEP {
		row := UEPTable[clampUEPIndex(int(d.uepIdx))]
		segments := make([]puncturedSegment, 0, len(row.Lx)+1)
		total := 0
		for i, lx := range row.Lx {
			codedLen := 128 * lx
			segments = append(segments, puncturedSegment{codedLen: codedLen, vec: viterbi.PITable[clampPI(row.PIx[i])]})
			total += codedLen
		}
		segments = append(segments, tail)
		return segments, total / viterbi.NumGenerators
	}

	row := eepRowFor(d.eepProfileB, d.eepLevel, d.sizeCU)
	n := d.sizeCU / row.CapacityUnitMultiple
	l1 := row.Lx1.blocks(n) * 128
	l2 := row.Lx2.blocks(n) * 128
	segments := []puncturedSegment{
		{codedLen: l1, vec: viterbi.PITable[clampPI(row.PuncturingIndexL1)]},
		{codedLen: l2, vec: viterbi.PITable[clampPI(row.PuncturingIndexL2)]},
		tail,
	}
	return segments, (l1 + l2) / viterbi.NumGenerators
}

func clampPI(idx int) int {
	if idx < 1 {
		return 1
	}
	if idx > 24 {
		return 24
	}
	return idx
}

func clampUEPIndex(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx >= len(UEPTable) {
		return len(UEPTable) - 1
	}
	return idx
}

func clampLevel(level int) int {
	if level < 1 {
		return 0
	}
	if level > 4 {
		return 3
	}
	return level - 1
}

func bitsToBytes(bits []byte) []byte {
	n := len(bits) / 8
	out := make([]byte, n)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i*8+j] & 1)
		}
		out[i] = b
	}
	return out
}
