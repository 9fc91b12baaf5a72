package radio

import (
	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// SplitFrame partitions one transmission frame's full soft-bit payload
// (as produced by internal/ofdm's demodulator) into the FIC portion and,
// per subchannel known to db, its sequence of per-CIF soft-bit slices —
// the glue basic_radio.cpp's own dispatcher performs inline, pulled out
// here so cmd/radio's run loop can build a FrameInput without duplicating
// the address-book arithmetic of clause 5.2 (start_address/size in CUs,
// 64 bits per CU).
func SplitFrame(params dabparams.Params, fullFrameSoftBits []viterbi.SoftBit, db database.Database) FrameInput {
	ficBits := params.NbFicSymbols * params.NbCarriers * 2
	mscBits := params.NbFrameBits
	cifBits := mscBits / params.NbCifsPerFrame

	in := FrameInput{
		CIFs: make(map[byte][][]viterbi.SoftBit, len(db.Subchannels)),
	}
	if len(fullFrameSoftBits) >= ficBits {
		in.FICSoftBits = fullFrameSoftBits[:ficBits]
	}
	msc := fullFrameSoftBits[ficBits:]

	for id, sc := range db.Subchannels {
		startBit := int(sc.StartAddr) * 64
		lenBit := int(sc.SubChSize) * 64
		if lenBit == 0 {
			continue // short-form UEP subchannels carry size implicitly via the table, not SubChSize
		}
		if startBit+lenBit > cifBits {
			continue // contradictory configuration; skip per spec.md §7's "report once, skip" policy
		}

		cifs := make([][]viterbi.SoftBit, 0, params.NbCifsPerFrame)
		for c := 0; c < params.NbCifsPerFrame; c++ {
			cifStart := c*cifBits + startBit
			cifEnd := cifStart + lenBit
			if cifEnd > len(msc) {
				break
			}
			cifs = append(cifs, msc[cifStart:cifEnd])
		}
		if len(cifs) > 0 {
			in.CIFs[id] = cifs
		}
	}
	return in
}
