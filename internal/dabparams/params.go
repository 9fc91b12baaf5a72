// Package dabparams holds the fixed per-transmission-mode bit and symbol
// counts defined by ETSI EN 300 401 clause 14.
package dabparams

import "fmt"

// TransmissionMode identifies one of the four DAB transmission modes.
type TransmissionMode int

const (
	ModeI TransmissionMode = iota + 1
	ModeII
	ModeIII
	ModeIV
)

func (m TransmissionMode) String() string {
	switch m {
	case ModeI:
		return "I"
	case ModeII:
		return "II"
	case ModeIII:
		return "III"
	case ModeIV:
		return "IV"
	default:
		return "unknown"
	}
}

// Params holds the derived OFDM/frame geometry for a transmission mode.
type Params struct {
	Mode TransmissionMode

	NbSymPerFrame    int // L: OFDM symbols per transmission frame, including the null symbol
	NbCarriers       int // K: number of carriers
	NbFftPoints      int // Nfft: FFT size
	NbNullSamples    int // Tnull: null symbol length in samples
	NbSymbolSamples  int // symbol length (Tu + Tg) in samples
	NbGuardSamples   int // Tg: guard interval length in samples

	NbFicSymbols  int // number of FIC symbols in the frame (FIC-carrying OFDM symbols)
	NbFibsPerFrame int // number of FIBs carried per transmission frame
	NbCifsPerFrame int // number of CIFs per transmission frame
	NbFrameBits   int // total MSC data bits per transmission frame
}

// All transmission modes, per EN 300 401 table 4.
var (
	ModeIParams = Params{
		Mode: ModeI, NbSymPerFrame: 76, NbCarriers: 1536, NbFftPoints: 2048,
		NbNullSamples: 2656, NbSymbolSamples: 2552, NbGuardSamples: 504,
		NbFicSymbols: 3, NbFibsPerFrame: 12, NbCifsPerFrame: 4,
	}
	ModeIIParams = Params{
		Mode: ModeII, NbSymPerFrame: 76, NbCarriers: 384, NbFftPoints: 512,
		NbNullSamples: 664, NbSymbolSamples: 638, NbGuardSamples: 126,
		NbFicSymbols: 3, NbFibsPerFrame: 3, NbCifsPerFrame: 1,
	}
	ModeIIIParams = Params{
		Mode: ModeIII, NbSymPerFrame: 153, NbCarriers: 192, NbFftPoints: 256,
		NbNullSamples: 345, NbSymbolSamples: 319, NbGuardSamples: 63,
		NbFicSymbols: 8, NbFibsPerFrame: 4, NbCifsPerFrame: 1,
	}
	ModeIVParams = Params{
		Mode: ModeIV, NbSymPerFrame: 76, NbCarriers: 768, NbFftPoints: 1024,
		NbNullSamples: 1328, NbSymbolSamples: 1276, NbGuardSamples: 252,
		NbFicSymbols: 3, NbFibsPerFrame: 6, NbCifsPerFrame: 2,
	}
)

// ForMode returns the fixed parameter set for a transmission mode.
func ForMode(mode TransmissionMode) (Params, error) {
	var p Params
	switch mode {
	case ModeI:
		p = ModeIParams
	case ModeII:
		p = ModeIIParams
	case ModeIII:
		p = ModeIIIParams
	case ModeIV:
		p = ModeIVParams
	default:
		return Params{}, fmt.Errorf("dabparams: unknown transmission mode %d", mode)
	}
	p.NbFrameBits = (p.NbSymPerFrame - 1 - p.NbFicSymbols) * p.NbCarriers * 2
	return p, nil
}

// NbMscSymbols is the number of MSC-carrying OFDM symbols in the frame. The
// "-1" excludes the frame's null symbol, which NbSymPerFrame counts but which
// carries no FIC or MSC data.
func (p Params) NbMscSymbols() int {
	return p.NbSymPerFrame - 1 - p.NbFicSymbols
}

// FicBitsPerFrame is the number of soft bits the FIC decoder sees per frame,
// before depuncturing (2 bits/carrier DQPSK over the FIC symbols).
func (p Params) FicBitsPerFrame() int {
	return p.NbFicSymbols * p.NbCarriers * 2
}

// CifBits is the number of bits a single CIF occupies (always 55296 for all
// modes — a CIF always carries 864 capacity units of 64 bits each).
const CifBits = 55296

// CifBytes is CifBits/8.
const CifBytes = CifBits / 8
