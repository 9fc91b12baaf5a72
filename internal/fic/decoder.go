// Package fic implements the Fast Information Channel decoder: depuncturing
// and Viterbi decoding of the FIC convolutional code, descrambling, and
// deframing into 32-byte Fast Information Blocks (FIBs), each verified by a
// trailing CRC-16.
package fic

import (
	"fmt"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/scrambler"
	"github.com/dabradio/dabradio/internal/viterbi"
)

const (
	FIBPayloadBytes = 30
	FIBCRCBytes     = 2
	FIBBytes        = FIBPayloadBytes + FIBCRCBytes // 32
	FIBBits         = FIBBytes * 8
)

// FIB is one deframed, CRC-verified Fast Information Block.
type FIB struct {
	Payload [FIBPayloadBytes]byte
	CRCOK   bool
}

// Decoder turns FIC soft bits (as extracted from the OFDM demodulator's
// DQPSK symbols for the FIC-carrying OFDM symbols of one transmission
// frame) into a slice of FIBs.
type Decoder struct {
	params  dabparams.Params
	viterbi *viterbi.Decoder

	totalFrames   uint64
	totalFibs     uint64
	totalCRCFails uint64
}

// NewDecoder creates a FIC decoder for the given transmission mode params.
func NewDecoder(params dabparams.Params) *Decoder {
	return &Decoder{
		params:  params,
		viterbi: viterbi.NewDecoder(),
	}
}

// messageBitsPerFrame is the number of FIC message bits carried per
// transmission frame: params.NbFibsPerFrame FIBs of FIBBits each. This
// varies by transmission mode (12/3/4/6 FIBs for modes I-IV) — it is not a
// fixed 2304 across modes.
func (d *Decoder) messageBitsPerFrame() int {
	return d.params.NbFibsPerFrame * FIBBits
}

// DecodeFrame decodes the FIC soft bits for a single transmission frame.
// soft must have length params.FicBitsPerFrame().
func (d *Decoder) DecodeFrame(soft []viterbi.SoftBit) ([]FIB, error) {
	d.totalFrames++
	want := d.params.FicBitsPerFrame()
	if len(soft) != want {
		return nil, fmt.Errorf("fic: expected %d soft bits, got %d", want, len(soft))
	}

	messageBitsPerFrame := d.messageBitsPerFrame()

	// The FIC payload is rate-1/4 encoded then punctured with PI_16 for the
	// bulk and PI_X for the 6 tail (termination) bits — two independently
	// punctured regions depunctured separately and concatenated before a
	// single Viterbi decode, the same two-region structure internal/msc uses
	// for its EEP/UEP tail segment. PITable's evenly-spread reconstruction of
	// the standard's PI_16/PI_X patterns (see internal/viterbi) means the
	// combined region lengths approximate, rather than exactly reproduce,
	// the frame's true received bit budget.
	bodyCodedBits := messageBitsPerFrame * viterbi.NumGenerators
	tailCodedBits := 6 * viterbi.NumGenerators
	bodyRecvLen := viterbi.PuncturedCodeLen(bodyCodedBits, viterbi.PI16)
	if bodyRecvLen > len(soft) {
		bodyRecvLen = len(soft)
	}
	depunctured := make([]viterbi.SoftBit, 0, bodyCodedBits+tailCodedBits)
	depunctured = append(depunctured, viterbi.Depuncture(soft[:bodyRecvLen], viterbi.PI16, bodyCodedBits)...)
	depunctured = append(depunctured, viterbi.Depuncture(soft[bodyRecvLen:], viterbi.PIX, tailCodedBits)...)

	decoded, err := d.viterbi.Decode(depunctured)
	if err != nil {
		return nil, fmt.Errorf("fic: viterbi decode: %w", err)
	}
	if len(decoded) < messageBitsPerFrame {
		return nil, fmt.Errorf("fic: decoded %d bits, need %d", len(decoded), messageBitsPerFrame)
	}
	messageBits := decoded[:messageBitsPerFrame]

	descrambled := scrambler.Scramble(messageBits)
	payload := bitsToBytes(descrambled)

	numFibs := len(payload) / FIBBytes
	fibs := make([]FIB, 0, numFibs)
	for i := 0; i < numFibs; i++ {
		raw := payload[i*FIBBytes : (i+1)*FIBBytes]
		var fib FIB
		copy(fib.Payload[:], raw[:FIBPayloadBytes])
		fib.CRCOK = VerifyFIB(raw)
		d.totalFibs++
		if !fib.CRCOK {
			d.totalCRCFails++
		}
		fibs = append(fibs, fib)
	}
	return fibs, nil
}

// Stats returns running FIB/CRC counters for observability.
func (d *Decoder) Stats() (frames, fibs, crcFails uint64) {
	return d.totalFrames, d.totalFibs, d.totalCRCFails
}

func bitsToBytes(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i*8+j] & 1)
		}
		out[i] = b
	}
	return out
}
