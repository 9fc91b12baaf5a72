package radio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/viterbi"
)

func TestSplitFrameExtractsFICAndSubchannelCIFs(t *testing.T) {
	params := testParams(t)
	db := *database.New()
	db.Subchannels[5] = &database.Subchannel{SubChannelID: 5, StartAddr: 0, SubChSize: 72}

	total := params.NbFicSymbols*params.NbCarriers*2 + params.NbFrameBits
	full := make([]viterbi.SoftBit, total)
	for i := range full {
		full[i] = viterbi.SoftBit(i % 127)
	}

	in := SplitFrame(params, full, db)
	require.Len(t, in.FICSoftBits, params.NbFicSymbols*params.NbCarriers*2)

	cifs, ok := in.CIFs[5]
	require.True(t, ok)
	require.Len(t, cifs, params.NbCifsPerFrame)
	for _, c := range cifs {
		require.Len(t, c, 72*64)
	}
}

func TestSplitFrameSkipsSubchannelWithZeroSize(t *testing.T) {
	params := testParams(t)
	db := *database.New()
	db.Subchannels[9] = &database.Subchannel{SubChannelID: 9, StartAddr: 0, SubChSize: 0}

	total := params.NbFicSymbols*params.NbCarriers*2 + params.NbFrameBits
	full := make([]viterbi.SoftBit, total)

	in := SplitFrame(params, full, db)
	_, ok := in.CIFs[9]
	require.False(t, ok)
}
