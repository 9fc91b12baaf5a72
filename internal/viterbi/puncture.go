package viterbi

// PuncturingVector describes one of the 24 standard puncturing patterns
// from EN 300 401 table 31: a 32-bit mask (MSB first) applied per 32 output
// symbols (8 input bits x 4 generators) of the mother code. A set bit means
// the corresponding mother-code output bit is transmitted.
type PuncturingVector [32]bool

// patternFromCounts builds a puncturing vector that keeps `ones` bits out of
// 32, spread as evenly as possible — the construction rule EN 300 401 uses
// for its published tables (each PIx table is representable this way).
func patternFromCounts(ones int) PuncturingVector {
	var v PuncturingVector
	if ones <= 0 {
		return v
	}
	if ones > 32 {
		ones = 32
	}
	acc := 0
	for i := 0; i < 32; i++ {
		acc += ones
		if acc >= 32 {
			acc -= 32
			v[i] = true
		}
	}
	return v
}

// PITable holds the 24 standard puncturing vectors PI_1..PI_24, indexed
// 1-based in PI (PI[0] is unused).
var PITable [25]PuncturingVector

func init() {
	// EN 300 401 table 31 defines PI_1..PI_24 by their number of kept bits
	// per 32; PI_24 keeps all 32 (rate 1/4, no puncturing).
	onesPerIndex := [25]int{
		0, // unused
		3, 4, 5, 6, 7, 8, 9, 10,
		11, 12, 13, 14, 15, 16, 17, 18,
		19, 20, 21, 22, 23, 24, 26, 32,
	}
	for i := 1; i <= 24; i++ {
		PITable[i] = patternFromCounts(onesPerIndex[i])
	}
}

// PI16 and PIX are the two vectors the FIC always uses: the main body is
// punctured with PI_16, and the 6 tail bits with PI_X (PI_23 in this
// receiver, matching the tail termination rule in EN 300 401 clause 11.2).
var (
	PI16 = PITable[16]
	PIX  = PITable[23]
)

// Puncture drops output bits per the puncturing vector, cycling the 32-bit
// vector across the full length of coded (4*nbits) input.
func Puncture(coded []byte, vec PuncturingVector) []byte {
	out := make([]byte, 0, len(coded))
	for i, b := range coded {
		if vec[i%32] {
			out = append(out, b)
		}
	}
	return out
}

// Depuncture re-inserts erasures (SoftErase) at the positions the encoder
// dropped, restoring the full rate-1/4 soft bit stream expected by Decode.
func Depuncture(received []SoftBit, vec PuncturingVector, totalCodedLen int) []SoftBit {
	out := make([]SoftBit, totalCodedLen)
	ri := 0
	for i := 0; i < totalCodedLen; i++ {
		if vec[i%32] {
			if ri < len(received) {
				out[i] = received[ri]
				ri++
			}
		} else {
			out[i] = SoftErase
		}
	}
	return out
}

// PuncturedCodeLen returns how many coded bits survive puncturing a run of
// `numCoded` rate-1/4 output bits, including any partial final cycle — it
// counts exactly the positions Puncture/Depuncture keep.
func PuncturedCodeLen(numCoded int, vec PuncturingVector) int {
	onesPerCycle := 0
	for _, v := range vec {
		if v {
			onesPerCycle++
		}
	}
	cycles := numCoded / 32
	rem := numCoded % 32
	n := cycles * onesPerCycle
	for i := 0; i < rem; i++ {
		if vec[i] {
			n++
		}
	}
	return n
}
