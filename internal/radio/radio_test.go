package radio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/fig"
	"github.com/dabradio/dabradio/internal/viterbi"
)

func testParams(t *testing.T) dabparams.Params {
	t.Helper()
	p, err := dabparams.ForMode(dabparams.ModeI)
	require.NoError(t, err)
	return p
}

func TestNewRadioStartsEmpty(t *testing.T) {
	r := New(testParams(t))
	stats := r.DatabaseStats()
	require.Zero(t, stats.Updates)
	require.Equal(t, uint64(0), r.TotalFramesProcessed())
}

func TestProcessFrameWithNoSubchannelsStillRunsFIC(t *testing.T) {
	r := New(testParams(t))
	frame := FrameInput{
		FICSoftBits: make([]viterbi.SoftBit, r.params.NbFicSymbols*r.params.NbCarriers*2),
	}
	r.ProcessFrame(frame)
	require.Equal(t, uint64(1), r.TotalFramesProcessed())
}

func TestAddAudioSubchannelMP2AndProcessEmptyCIFDoesNotPanic(t *testing.T) {
	r := New(testParams(t))
	var gotAudio []AudioChannel
	err := r.AddAudioSubchannel(5, 72, true, 0, false, 0, false, func(a AudioChannel) {
		gotAudio = append(gotAudio, a)
	})
	require.NoError(t, err)

	frame := FrameInput{
		FICSoftBits: make([]viterbi.SoftBit, r.params.NbFicSymbols*r.params.NbCarriers*2),
		CIFs: map[byte][][]viterbi.SoftBit{
			5: {make([]viterbi.SoftBit, 72*64)},
		},
	}
	require.NotPanics(t, func() { r.ProcessFrame(frame) })
}

func TestAddDataSubchannelRegistersWorker(t *testing.T) {
	r := New(testParams(t))
	r.AddDataSubchannel(7, 24, false, 0, false, 2, func(DataChannel) {})
	r.mu.Lock()
	_, ok := r.subchannels[7]
	r.mu.Unlock()
	require.True(t, ok)
}

func TestRemoveSubchannelUnregisters(t *testing.T) {
	r := New(testParams(t))
	r.AddDataSubchannel(7, 24, false, 0, false, 2, func(DataChannel) {})
	r.RemoveSubchannel(7)
	r.mu.Lock()
	_, ok := r.subchannels[7]
	r.mu.Unlock()
	require.False(t, ok)
}

func TestSyncSubchannelsAddsCompleteAudioComponent(t *testing.T) {
	r := New(testParams(t))
	db := database.New()
	up := database.NewUpdater(db)
	up.SetSubchannelEEP(5, 0, fig.EEPTypeA, 2, 72)
	up.SetComponentStreamAudio(0, 0, 5, fig.AudioServiceDABPlus, true)

	r.SyncSubchannels(*db, func(AudioChannel) {}, func(DataChannel) {})

	r.mu.Lock()
	_, ok := r.subchannels[5]
	r.mu.Unlock()
	require.True(t, ok)
}

func TestSyncSubchannelsSkipsIncompleteComponent(t *testing.T) {
	r := New(testParams(t))
	db := database.New()
	up := database.NewUpdater(db)
	up.SetComponentStreamAudio(0, 0, 5, fig.AudioServiceDABPlus, true)
	// no matching subchannel entry, so the component/subchannel pair never completes

	r.SyncSubchannels(*db, func(AudioChannel) {}, func(DataChannel) {})

	r.mu.Lock()
	_, ok := r.subchannels[5]
	r.mu.Unlock()
	require.False(t, ok)
}

func TestSyncSubchannelsRemovesStaleSubscription(t *testing.T) {
	r := New(testParams(t))
	r.AddDataSubchannel(9, 24, false, 0, false, 2, func(DataChannel) {})

	r.SyncSubchannels(*database.New(), func(AudioChannel) {}, func(DataChannel) {})

	r.mu.Lock()
	_, ok := r.subchannels[9]
	r.mu.Unlock()
	require.False(t, ok)
}

func TestStopPreventsFurtherFrameProcessing(t *testing.T) {
	r := New(testParams(t))
	r.Stop()
	frame := FrameInput{FICSoftBits: make([]viterbi.SoftBit, r.params.NbFicSymbols*r.params.NbCarriers*2)}
	r.ProcessFrame(frame)
	require.Equal(t, uint64(0), r.TotalFramesProcessed())
}
