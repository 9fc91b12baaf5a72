package ofdm

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// Demodulator converts one frame's worth of time-domain OFDM symbols into a
// soft-bit vector via a multi-worker FFT+DQPSK pipeline, per the frame
// synchronizer's detected symbol boundaries.
type Demodulator struct {
	params  dabparams.Params
	workers int
}

// NewDemodulator creates a demodulator for the given transmission mode,
// sized to min(frame_symbols+1, GOMAXPROCS) workers.
func NewDemodulator(params dabparams.Params) *Demodulator {
	workers := runtime.GOMAXPROCS(0)
	maxWorkers := params.NbSymPerFrame + 1
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	return &Demodulator{params: params, workers: workers}
}

// DemodulateFrame runs the worker pipeline over symbols (frame_symbols
// time-domain windows, each NbSymbolSamples long including the cyclic
// prefix) plus freqOffsetHz (the current PLL correction), and returns the
// soft-bit vector for (symbols-1) DQPSK transitions, plus the coordinator's
// averaged phase-error-derived frequency correction for the next frame.
func (d *Demodulator) DemodulateFrame(symbols [][]complex128, freqOffsetHz float64) ([]viterbi.SoftBit, float64) {
	n := len(symbols)
	if n == 0 {
		return nil, freqOffsetHz
	}

	ffts := make([][]complex128, n)
	phaseErrors := make([]float64, n)

	starts, ends := partitionWork(n, d.workers)

	var wg sync.WaitGroup
	for w := 0; w < len(starts); w++ {
		start, end := starts[w], ends[w]
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				sym := symbols[i]
				rotated := applyPLL(sym, freqOffsetHz, d.params.NbSymbolSamples)
				phaseErrors[i] = cyclicPhaseError(rotated, d.params.NbFftPoints, d.params.NbGuardSamples)
				withoutCP := rotated[d.params.NbGuardSamples:]
				ffts[i] = FFT(withoutCP)
			}
		}(start, end)
	}
	wg.Wait()

	var sumErr float64
	for _, e := range phaseErrors {
		sumErr += e
	}
	avgErr := sumErr / float64(n)
	const carrierSpacing = 1000.0
	const beta = 0.5
	deltaHz := beta * (carrierSpacing / 2) * avgErr / math.Pi
	newFreqOffset := freqOffsetHz + deltaHz

	bitsPerTransition := 2 * usedCarriers(d.params.NbFftPoints)
	allBits := make([]viterbi.SoftBit, (n-1)*bitsPerTransition)

	starts, ends = partitionWork(n-1, d.workers)
	for w := 0; w < len(starts); w++ {
		start, end := starts[w], ends[w]
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				bits := dqpskDemap(ffts[i], ffts[i+1], d.params.NbFftPoints)
				copy(allBits[i*bitsPerTransition:], bits)
			}
		}(start, end)
	}
	wg.Wait()

	return allBits, newFreqOffset
}

func partitionWork(n, workers int) (starts, ends []int) {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	starts = make([]int, workers)
	ends = make([]int, workers)
	base := n / workers
	rem := n % workers
	pos := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		starts[w] = pos
		pos += size
		ends[w] = pos
	}
	return
}

// cyclicPhaseError computes arg(Σ conj(sym[i])·sym[i+fftSize]) over the
// cyclic prefix, the fractional-frequency error signal the coordinator
// averages across workers.
func cyclicPhaseError(sym []complex128, fftSize, guardSamples int) float64 {
	var acc complex128
	for i := 0; i < guardSamples && i+fftSize < len(sym); i++ {
		acc += cmplx.Conj(sym[i]) * sym[i+fftSize]
	}
	return cmplx.Phase(acc)
}

// usedCarriers returns the number of data+pilot carriers actually used
// (everything but DC and the outer guard band): the length of the carrier
// list carrierMap builds, used for soft-bit vector sizing.
func usedCarriers(fftSize int) int {
	return len(carrierMap(fftSize))
}

// dqpskDemap implements DQPSK soft-bit extraction: z[k] = fft_{s+1}[k] ·
// conj(fft_s[k]) for each used carrier, then L1-normalized soft values
// bit_i = quantise(+Re/A), bit_{i+N} = quantise(-Im/A).
func dqpskDemap(fftS, fftS1 []complex128, fftSize int) []viterbi.SoftBit {
	carriers := carrierMap(fftSize)
	n := len(carriers)
	bits := make([]viterbi.SoftBit, 2*n)
	for idx, k := range carriers {
		if k >= len(fftS) || k >= len(fftS1) {
			continue
		}
		z := fftS1[k] * cmplx.Conj(fftS[k])
		a := math.Max(math.Abs(real(z)), math.Abs(imag(z)))
		if a < 1e-12 {
			bits[idx] = viterbi.SoftErase
			bits[idx+n] = viterbi.SoftErase
			continue
		}
		bits[idx] = quantizeSoft(real(z) / a)
		bits[idx+n] = quantizeSoft(-imag(z) / a)
	}
	return bits
}

func quantizeSoft(v float64) viterbi.SoftBit {
	scaled := v * 127
	if scaled > 127 {
		scaled = 127
	}
	if scaled < -127 {
		scaled = -127
	}
	return viterbi.SoftBit(scaled)
}

// carrierMap returns the data-carrier indices for an fftSize-point OFDM
// symbol: every bin except DC and a symmetric outer guard band.
func carrierMap(fftSize int) []int {
	guard := fftSize / 8
	carriers := make([]int, 0, fftSize-2*guard-1)
	for k := guard; k < fftSize-guard; k++ {
		if k == 0 {
			continue
		}
		carriers = append(carriers, k)
	}
	return carriers
}
