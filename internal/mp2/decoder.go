package mp2

import "fmt"

// Frame is one decoded Layer II audio frame: 1152 PCM samples per channel,
// plus any trailing ancillary (F-PAD) bytes recovered from the frame tail.
type Frame struct {
	Header Header
	PCM    [][]int16 // PCM[channel][sample], interleave-ready
	FPAD   []byte
}

// Decoder decodes a sequence of Layer II frames, maintaining the per-channel
// synthesis filter history across frames.
type Decoder struct {
	synth [2]*synthesisState

	framesDecoded uint64
}

// NewDecoder creates a Layer II decoder.
func NewDecoder() *Decoder {
	return &Decoder{synth: [2]*synthesisState{newSynthesisState(), newSynthesisState()}}
}

// DecodeFrame decodes one complete Layer II frame (header already
// validated by ParseHeader). frame must contain at least h.FrameLengthBytes()
// bytes; any bytes beyond that length are treated as F-PAD.
func (d *Decoder) DecodeFrame(h Header, frame []byte) (*Frame, error) {
	frameLen := h.FrameLengthBytes()
	if len(frame) < frameLen {
		return nil, fmt.Errorf("mp2: frame too short: %d < %d", len(frame), frameLen)
	}
	body := frame[4:frameLen] // skip the 4-byte header already parsed
	fpad := frame[frameLen:]

	class := classify(h)
	allocBits := allocBitsTable[class]
	nch := h.NumChannels()

	r := newBitReader(body)

	allocIdx := make([][NumSubbands]int, nch)
	for sb := 0; sb < NumSubbands; sb++ {
		bits := allocBits[sb]
		for ch := 0; ch < nch; ch++ {
			if bits > 0 {
				allocIdx[ch][sb] = int(r.ReadBits(bits))
			}
		}
	}

	scfsiPresent := make([][NumSubbands]int, nch)
	for sb := 0; sb < NumSubbands; sb++ {
		for ch := 0; ch < nch; ch++ {
			if allocIdx[ch][sb] != 0 {
				scfsiPresent[ch][sb] = int(r.ReadBits(2))
			}
		}
	}

	scaleFactors := make([][NumSubbands][3]float64, nch)
	for sb := 0; sb < NumSubbands; sb++ {
		for ch := 0; ch < nch; ch++ {
			if allocIdx[ch][sb] == 0 {
				continue
			}
			switch scfsiPresent[ch][sb] {
			case 0:
				for g := 0; g < 3; g++ {
					scaleFactors[ch][sb][g] = ScaleFactor(int(r.ReadBits(6)))
				}
			case 1, 3:
				v := ScaleFactor(int(r.ReadBits(6)))
				scaleFactors[ch][sb][0] = v
				scaleFactors[ch][sb][1] = v
				scaleFactors[ch][sb][2] = ScaleFactor(int(r.ReadBits(6)))
			case 2:
				v := ScaleFactor(int(r.ReadBits(6)))
				scaleFactors[ch][sb] = [3]float64{v, v, v}
			}
		}
	}

	// 3 granules of 12 samples per subband make up the frame's 36 sample
	// slots, synthesized 32 samples (one per subband) at a time.
	pcm := make([][]int16, nch)
	for ch := range pcm {
		pcm[ch] = make([]int16, 0, 1152)
	}

	for granule := 0; granule < 3; granule++ {
		for sample := 0; sample < 12; sample++ {
			subbandSamples := make([][NumSubbands]float64, nch)
			for sb := 0; sb < NumSubbands; sb++ {
				for ch := 0; ch < nch; ch++ {
					idx := allocIdx[ch][sb]
					if idx == 0 {
						continue
					}
					levels := QuantizerLevels[idx]
					if levels == 0 {
						continue
					}
					raw := r.ReadBits(bitsForLevels(levels))
					quant := dequantize(raw, levels)
					subbandSamples[ch][sb] = quant * scaleFactors[ch][sb][granule]
				}
			}
			for ch := 0; ch < nch; ch++ {
				out := d.synth[ch].Synthesize(subbandSamples[ch])
				pcm[ch] = append(pcm[ch], out...)
			}
		}
	}

	d.framesDecoded++
	return &Frame{Header: h, PCM: pcm, FPAD: fpad}, nil
}

func bitsForLevels(levels int) int {
	bits := 0
	for (1 << bits) <= levels {
		bits++
	}
	return bits
}

// dequantize maps a raw code back to a centered [-1,1) fractional value,
// per the standard's requantization formula.
func dequantize(raw uint32, levels int) float64 {
	v := (float64(raw)/float64(levels+1))*2 - 1
	return v
}

// Stats returns the number of frames decoded so far.
func (d *Decoder) Stats() uint64 { return d.framesDecoded }
