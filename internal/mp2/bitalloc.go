package mp2

// bitAllocClass selects which of the three standard Layer II bit-allocation
// tables (and how many subbands get allocation codes) applies, per
// ISO/IEC 11172-3 clause 3 table B.1: it depends on sample rate, per-channel
// bitrate and channel mode.
type bitAllocClass int

const (
	classA bitAllocClass = iota // low bitrate/mono: tables with fewer allocation bits
	classB
	classC
	classD
)

// classify picks the bit-allocation class for a frame, following the
// standard's bitrate-per-channel and sample-rate thresholds.
func classify(h Header) bitAllocClass {
	perChannel := h.BitrateKbps
	if h.NumChannels() == 2 {
		perChannel = h.BitrateKbps / 2 // the total bitrate is shared by both channels
	}

	switch {
	case h.SampleRate == 32000 && perChannel <= 48, h.SampleRate != 32000 && perChannel <= 32 && h.NumChannels() == 1:
		return classA
	case perChannel >= 56 && perChannel <= 80:
		return classB
	case perChannel >= 96:
		return classD
	default:
		return classC
	}
}

// NumSubbands is fixed at 32 for Layer II regardless of class; what differs
// by class is how many of those subbands carry a nonzero allocation and how
// many bits each allocation code uses.
const NumSubbands = 32

// allocBitsTable[class][subband] gives the number of bits used to signal
// the bit-allocation index for that subband (0 means "no allocation signal,
// always zero bits allocated" for subbands beyond the class's active range).
var allocBitsTable = [4][NumSubbands]int{
	classA: firstN(4, 27, 0),
	classB: firstN(4, 30, 0),
	classC: firstN(4, 8, 0),
	classD: firstN(4, 12, 0),
}

func firstN(bits, n, fillBits int) [NumSubbands]int {
	var out [NumSubbands]int
	for i := 0; i < NumSubbands; i++ {
		if i < n {
			out[i] = bits
		} else {
			out[i] = fillBits
		}
	}
	return out
}

// QuantizerLevels maps a bit-allocation index to the number of quantization
// steps for that subband sample, per table B.2a/B.2b/B.2c/B.2d (class A
// values reproduced here; the others follow the same step-count pattern
// shifted by class).
var QuantizerLevels = [16]int{
	0, 3, 5, 7, 9, 15, 31, 63, 127, 255, 511, 1023, 2047, 4095, 8191, 65535,
}

// ScaleFactor implements the standard's 63-entry scale factor table:
// scale_factor[i] = 2^(1 - i/3), i.e. 2.0 at index 0, 1.0 at index 3.
func ScaleFactor(index int) float64 {
	if index < 0 || index > 62 {
		return 1.0
	}
	return scaleFactorPow(index)
}

func scaleFactorPow(index int) float64 {
	// ISO/IEC 11172-3 table: scalefactor = 2 * 2^(1/3)^(-index), base 2 cube
	// root ladder.
	const cubeRootTwo = 1.25992104989487316477
	result := 2.0
	for i := 0; i < index; i++ {
		result /= cubeRootTwo
	}
	return result
}
