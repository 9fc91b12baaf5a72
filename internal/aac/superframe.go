package aac

import (
	"encoding/binary"
	"fmt"

	"github.com/dabradio/dabradio/internal/fic"
	"github.com/klauspost/reedsolomon"
)

const (
	// A DAB+ superframe spans 5 CIFs and is split into RS(204,188)
	// codewords of 188 data and 16 parity bytes; the number of codewords is
	// the superframe length divided by 204, so it depends on the subchannel
	// size.
	RSDataShards   = 188
	RSParityShards = 16
	RSTotalShards  = RSDataShards + RSParityShards
	SuperframeCIFs = 5
)

// Superframe holds one reassembled, RS-corrected DAB+ superframe.
type Superframe struct {
	Data           []byte // RS-corrected payload, header + AU directory + AUs
	FirecodeValid  bool
	RSErrorsFixed  int
	AudioUnits     [][]byte
}

// Processor reassembles DAB+ superframes from consecutive subchannel CIF
// payloads and performs RS correction and AU extraction.
type Processor struct {
	subChSizeCU int
	rsCodec     reedsolomon.Encoder
	cifBuffer   [][]byte

	superframesProcessed uint64
	firecodeErrors       uint64
	rsUncorrectable      uint64
	auCRCErrors          uint64
}

// NewProcessor creates an AAC superframe processor for a subchannel of the
// given capacity-unit size (used to size the superframe buffer).
func NewProcessor(subChSizeCU int) (*Processor, error) {
	codec, err := reedsolomon.New(RSDataShards, RSParityShards)
	if err != nil {
		return nil, fmt.Errorf("aac: create RS(204,188) codec: %w", err)
	}
	return &Processor{subChSizeCU: subChSizeCU, rsCodec: codec}, nil
}

// PushCIF accumulates one CIF's worth of subchannel bytes; once 5 CIFs have
// been collected (one superframe), it RS-corrects and parses the result.
func (p *Processor) PushCIF(cifBytes []byte) (*Superframe, error) {
	p.cifBuffer = append(p.cifBuffer, cifBytes)
	if len(p.cifBuffer) < SuperframeCIFs {
		return nil, nil
	}
	defer func() { p.cifBuffer = nil }()

	raw := make([]byte, 0, p.subChSizeCU*8*SuperframeCIFs)
	for _, cif := range p.cifBuffer {
		raw = append(raw, cif...)
	}

	corrected, fixed, err := p.rsCorrect(raw)
	if err != nil {
		p.rsUncorrectable++
		return nil, fmt.Errorf("aac: RS correction failed: %w", err)
	}

	sf, err := p.parseSuperframe(corrected)
	if err != nil {
		return nil, err
	}
	sf.RSErrorsFixed = fixed
	p.superframesProcessed++
	if !sf.FirecodeValid {
		p.firecodeErrors++
	}
	return sf, nil
}

// rsCorrect applies RS(204,188) across the superframe's interleaved
// codewords: byte i of codeword j is raw[i*numCodewords + j] for each of
// numCodewords = len(raw)/204 codewords (column-wise interleaving), and the
// data bytes are returned in their original order.
func (p *Processor) rsCorrect(raw []byte) ([]byte, int, error) {
	numCodewords := len(raw) / RSTotalShards
	if numCodewords == 0 {
		return raw, 0, nil
	}
	out := make([]byte, numCodewords*RSDataShards)
	fixed := 0
	for cw := 0; cw < numCodewords; cw++ {
		shards := make([][]byte, RSTotalShards)
		for i := 0; i < RSTotalShards; i++ {
			shards[i] = []byte{raw[i*numCodewords+cw]}
		}
		ok, _ := p.rsCodec.Verify(shards)
		if !ok {
			if err := p.rsCodec.Reconstruct(shards); err != nil {
				return nil, fixed, err
			}
			fixed++
		}
		for i := 0; i < RSDataShards; i++ {
			out[i*numCodewords+cw] = shards[i][0]
		}
	}
	return out, fixed, nil
}

// parseSuperframe verifies the Firecode header and splits the superframe
// body into individually CRC-16-checked audio units using the AU directory.
func (p *Processor) parseSuperframe(data []byte) (*Superframe, error) {
	if len(data) < 11 {
		return nil, fmt.Errorf("aac: superframe too short: %d bytes", len(data))
	}

	header := data[:9]
	checksum := binary.BigEndian.Uint16(data[9:11]) & 0x7FF
	valid := VerifyFirecode(header, checksum)

	numAUs := int(data[0]>>4) + 1 // DAC rate / SBR/PS flags pack the AU count into the header nibble
	dirBytes := numAUs * 2
	if len(data) < 11+dirBytes {
		return &Superframe{Data: data, FirecodeValid: valid}, nil
	}

	starts := make([]int, numAUs+1)
	dir := data[11 : 11+dirBytes]
	for i := 0; i < numAUs; i++ {
		starts[i] = int(binary.BigEndian.Uint16(dir[i*2:i*2+2])&0xFFF) + 11 + dirBytes
	}
	starts[numAUs] = len(data)

	aus := make([][]byte, 0, numAUs)
	for i := 0; i < numAUs; i++ {
		start, end := starts[i], starts[i+1]
		if start < 0 || end > len(data) || start+2 > end {
			continue
		}
		au := data[start:end]
		payload := au[:len(au)-2]
		crc := binary.BigEndian.Uint16(au[len(au)-2:])
		if fic.CRC16(payload) != crc {
			p.auCRCErrors++
			continue
		}
		aus = append(aus, payload)
	}

	return &Superframe{Data: data, FirecodeValid: valid, AudioUnits: aus}, nil
}

// Stats reports running error counters.
func (p *Processor) Stats() (superframes, firecodeErrs, rsUncorrectable, auCRCErrs uint64) {
	return p.superframesProcessed, p.firecodeErrors, p.rsUncorrectable, p.auCRCErrors
}
