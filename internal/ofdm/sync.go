package ofdm

import (
	"math"
	"math/cmplx"

	"github.com/dabradio/dabradio/internal/dabparams"
)

// SyncState is the frame-synchronization state machine's current stage.
type SyncState int

const (
	FindingNullPowerDip SyncState = iota
	ReadingNullAndPRS
	RunningCoarseFreqSync
	RunningFineTimeSync
	ReadingSymbols
)

// blockSize is the number of samples consumed per power-averaging step
// while scanning for the null symbol.
const blockSize = 256

// Synchronizer runs the single-producer null-symbol/PRS frame sync state
// machine: it consumes a stream of baseband IQ samples and emits, for each
// detected frame, the sample offset of the first post-null symbol plus the
// current (coarse+fine) frequency offset estimate in Hz.
type Synchronizer struct {
	params dabparams.Params

	state       SyncState
	smoothedAvg float64
	freqOffset  float64 // total applied carrier frequency offset, Hz

	refPRS []complex128 // reference PRS spectrum, precomputed

	totalFramesDesync uint64
}

// NewSynchronizer creates a synchronizer for the given transmission mode
// parameters, with refPRS the known phase-reference symbol spectrum (all
// carriers known, per EN 300 401 Annex C).
func NewSynchronizer(params dabparams.Params, refPRS []complex128) *Synchronizer {
	return &Synchronizer{params: params, state: FindingNullPowerDip, refPRS: refPRS}
}

// FrameSync is the outcome of one successful null-symbol+PRS detection.
type FrameSync struct {
	FirstSymbolOffset int // sample index of the first post-null symbol, to blockSize resolution
	FreqOffsetHz      float64
}

// ProcessBlock consumes one block of samples and advances the state
// machine, returning a FrameSync when a frame start has just been located.
// Samples before the returned offset should be discarded by the caller.
func (s *Synchronizer) ProcessBlock(samples []complex128) (*FrameSync, bool) {
	switch s.state {
	case FindingNullPowerDip:
		return s.findNullDip(samples)
	default:
		// The previous frame has been handed off; scan for the next null.
		s.state = FindingNullPowerDip
		return s.findNullDip(samples)
	}
}

// findNullDip implements FindingNullPowerDip: an exponentially-smoothed
// L1-magnitude average is maintained over blocks; a null symbol is a run
// where the block average drops below 0.35·S followed by a rise above
// 0.75·S.
func (s *Synchronizer) findNullDip(samples []complex128) (*FrameSync, bool) {
	n := len(samples) / blockSize
	dipStart := -1
	for b := 0; b < n; b++ {
		block := samples[b*blockSize : (b+1)*blockSize]
		avg := l1Average(block)
		if s.smoothedAvg == 0 {
			s.smoothedAvg = avg
			continue
		}
		if dipStart < 0 && avg < 0.35*s.smoothedAvg {
			dipStart = b
		} else if dipStart >= 0 && avg > 0.75*s.smoothedAvg {
			offset := b * blockSize
			s.state = ReadingNullAndPRS
			s.smoothedAvg = 0.9*s.smoothedAvg + 0.1*avg
			return &FrameSync{FirstSymbolOffset: offset, FreqOffsetHz: s.freqOffset}, true
		}
		s.smoothedAvg = 0.9*s.smoothedAvg + 0.1*avg
	}
	return nil, false
}

func l1Average(block []complex128) float64 {
	var sum float64
	for _, s := range block {
		sum += math.Abs(real(s)) + math.Abs(imag(s))
	}
	return sum / float64(len(block))
}

// CoarseFreqSync implements RunningCoarseFreqSync: FFT the buffered PRS,
// take the conjugate product of adjacent bins, IFFT, correlate in time
// against the reference transform, FFT again and take the peak magnitude
// offset from the center bin as the coarse frequency error in Hz.
func (s *Synchronizer) CoarseFreqSync(prsSamples []complex128) float64 {
	n := s.params.NbFftPoints
	spec := FFT(prsSamples)

	diff := make([]complex128, n)
	for k := 0; k < n-1; k++ {
		diff[k] = spec[k+1] * cmplx.Conj(spec[k])
	}

	td := IFFT(diff)

	refDiff := make([]complex128, n)
	for k := 0; k < n-1 && k < len(s.refPRS)-1; k++ {
		refDiff[k] = s.refPRS[k+1] * cmplx.Conj(s.refPRS[k])
	}
	refTD := IFFT(refDiff)

	corr := make([]complex128, n)
	for i := range corr {
		corr[i] = td[i] * cmplx.Conj(refTD[i])
	}
	corrSpec := FFT(corr)

	peakIdx, peakMag := 0, 0.0
	for i, c := range corrSpec {
		if m := cmplx.Abs(c); m > peakMag {
			peakMag = m
			peakIdx = i
		}
	}

	binOffset := float64(peakIdx - n/2)
	carrierSpacing := 1000.0 // Hz, DAB's fixed 1kHz carrier spacing
	coarseError := binOffset * carrierSpacing

	const betaSmall = 0.1
	if math.Abs(coarseError) > 1.5*carrierSpacing {
		s.freqOffset += coarseError
	} else {
		s.freqOffset += betaSmall * coarseError
	}
	return s.freqOffset
}

// FineTimeSync implements RunningFineTimeSync: after applying the current
// frequency offset, the PRS impulse response (in dB) is computed and its
// peak located, weighted to prefer candidates near the expected cyclic
// prefix offset. Returns the PRS start sample index, or -1 on rejection
// (peak-to-mean ratio below 20dB).
func (s *Synchronizer) FineTimeSync(prsSamples []complex128) int {
	n := s.params.NbFftPoints
	corrected := applyPLL(prsSamples, s.freqOffset, s.params.NbSymbolSamples)
	spec := FFT(corrected)

	prod := make([]complex128, n)
	for k := 0; k < n && k < len(s.refPRS); k++ {
		prod[k] = spec[k] * cmplx.Conj(s.refPRS[k])
	}
	impulse := IFFT(prod)

	var sum, peak float64
	peakIdx := 0
	for i, c := range impulse {
		mag := cmplx.Abs(c)
		db := 20 * math.Log10(mag+1e-12)
		weight := 1 - 0.5*math.Abs(float64(i-s.params.NbGuardSamples))/float64(s.params.NbSymbolSamples)
		if weight < 0 {
			weight = 0
		}
		weighted := db * weight
		sum += db
		if weighted > peak {
			peak = weighted
			peakIdx = i
		}
	}
	mean := sum / float64(len(impulse))
	if peak-mean < 20 {
		s.state = FindingNullPowerDip
		s.totalFramesDesync++
		return -1
	}
	s.state = ReadingSymbols
	return peakIdx - s.params.NbGuardSamples
}

func applyPLL(samples []complex128, freqOffsetHz float64, sampleRate int) []complex128 {
	out := make([]complex128, len(samples))
	dt := 2 * math.Pi * freqOffsetHz / float64(sampleRate)
	for i, s := range samples {
		phase := math.Mod(dt*float64(i), 2*math.Pi)
		rot := cmplx.Exp(complex(0, -phase))
		out[i] = s * rot
	}
	return out
}

// Stats reports the number of times synchronization was lost and reset.
func (s *Synchronizer) Stats() uint64 { return s.totalFramesDesync }

// State returns the current sync stage.
func (s *Synchronizer) State() SyncState { return s.state }
