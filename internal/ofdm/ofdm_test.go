package ofdm

import (
	"math"
	"testing"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/stretchr/testify/require"
)

func TestFFTIFFTRoundTrip(t *testing.T) {
	n := 64
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(float64(i)), 0)
	}
	spec := FFT(x)
	back := IFFT(spec)
	for i := range x {
		require.InDelta(t, real(x[i]), real(back[i]), 1e-9)
	}
}

func TestFFTPanicsOnNonPowerOfTwo(t *testing.T) {
	require.Panics(t, func() { FFT(make([]complex128, 3)) })
}

func TestCarrierMapExcludesDCAndGuard(t *testing.T) {
	carriers := carrierMap(512)
	for _, k := range carriers {
		require.NotEqual(t, 0, k)
	}
	require.Less(t, len(carriers), 512)
}

func TestDQPSKDemapProducesBitsForEveryCarrier(t *testing.T) {
	fftSize := 256
	carriers := carrierMap(fftSize)
	s0 := make([]complex128, fftSize)
	s1 := make([]complex128, fftSize)
	for _, k := range carriers {
		s0[k] = complex(1, 0)
		s1[k] = complex(0, 1) // +90 degree phase shift
	}
	bits := dqpskDemap(s0, s1, fftSize)
	require.Len(t, bits, 2*len(carriers))
}

func TestQuantizeSoftClamps(t *testing.T) {
	require.EqualValues(t, 127, quantizeSoft(5.0))
	require.EqualValues(t, -127, quantizeSoft(-5.0))
}

func TestSynchronizerFindsNullDip(t *testing.T) {
	params, err := dabparams.ForMode(dabparams.ModeI)
	require.NoError(t, err)
	synchronizer := NewSynchronizer(params, make([]complex128, params.NbFftPoints))

	samples := make([]complex128, 0)
	for i := 0; i < 20; i++ {
		block := make([]complex128, blockSize)
		for j := range block {
			block[j] = complex(1.0, 0)
		}
		samples = append(samples, block...)
	}
	nullBlock := make([]complex128, blockSize*4)
	for j := range nullBlock {
		nullBlock[j] = complex(0.01, 0)
	}
	samples = append(samples, nullBlock...)
	riseBlock := make([]complex128, blockSize*4)
	for j := range riseBlock {
		riseBlock[j] = complex(1.0, 0)
	}
	samples = append(samples, riseBlock...)

	fs, found := synchronizer.ProcessBlock(samples)
	require.True(t, found)
	require.NotNil(t, fs)
}

func TestDemodulateFrameProducesExpectedBitLength(t *testing.T) {
	fftSize := 64 // small synthetic FFT size for test speed
	symbolLen := fftSize + 16
	numSymbols := 5

	symbols := make([][]complex128, numSymbols)
	for s := range symbols {
		sym := make([]complex128, symbolLen)
		for i := range sym {
			sym[i] = complex(math.Cos(float64(s+i)), math.Sin(float64(s+i)))
		}
		symbols[s] = sym
	}

	testParams, err := dabparams.ForMode(dabparams.ModeI)
	require.NoError(t, err)
	testParams.NbFftPoints = fftSize
	testParams.NbSymbolSamples = symbolLen
	testParams.NbGuardSamples = 16
	d := NewDemodulator(testParams)

	bits, newOffset := d.DemodulateFrame(symbols, 0)
	expectedLen := (numSymbols - 1) * 2 * len(carrierMap(fftSize))
	require.Len(t, bits, expectedLen)
	require.False(t, math.IsNaN(newOffset))
}

func TestApplyPLLPreservesLength(t *testing.T) {
	samples := make([]complex128, 100)
	for i := range samples {
		samples[i] = complex(1, 0)
	}
	out := applyPLL(samples, 1000, 2048000)
	require.Len(t, out, len(samples))
}

func TestCyclicPhaseErrorZeroForIdenticalWindows(t *testing.T) {
	fftSize := 16
	guard := 4
	sym := make([]complex128, fftSize+guard)
	for i := range sym {
		sym[i] = complex(1, 0)
	}
	errVal := cyclicPhaseError(sym, fftSize, guard)
	require.InDelta(t, 0, errVal, 1e-9)
}
