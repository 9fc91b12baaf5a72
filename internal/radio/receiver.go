package radio

import (
	"errors"
	"io"
	"log/slog"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/ofdm"
)

// SampleSource is the producer-side collaborator: a source of complex
// baseband I/Q samples at the transmission mode's fixed sample rate, as
// read from an external SDR collaborator by internal/ingest.
type SampleSource interface {
	ReadSamples(n int) ([]complex128, error)
}

// Receiver drives the full sample-to-frame pipeline: null-symbol/PRS frame
// synchronization, OFDM demodulation, and handoff to Radio.ProcessFrame,
// one transmission frame at a time. This is the producer + coordinator of
// spec.md §5's concurrency model; the per-frame fan-out/fan-in itself lives
// in Radio.ProcessFrame.
type Receiver struct {
	params dabparams.Params
	sync   *ofdm.Synchronizer
	demod  *ofdm.Demodulator
	radio  *Radio

	onAudio func(AudioChannel)
	onData  func(DataChannel)

	freqOffsetHz float64
}

// NewReceiver creates a receiver for the given transmission mode, wired to
// publish decoded frames into radio. onAudio/onData are passed through to
// every subchannel worker SyncSubchannels subscribes as FIG configuration
// reveals it; either may be nil.
func NewReceiver(params dabparams.Params, radio *Radio, onAudio func(AudioChannel), onData func(DataChannel)) *Receiver {
	refPRS := ofdm.ReferencePRS(params.NbFftPoints)
	return &Receiver{
		params:  params,
		sync:    ofdm.NewSynchronizer(params, refPRS),
		demod:   ofdm.NewDemodulator(params),
		radio:   radio,
		onAudio: onAudio,
		onData:  onData,
	}
}

// Run reads samples from src until it is exhausted (io.EOF) or ctx-less
// cancellation via radio.Stop, synchronizing to and demodulating one
// transmission frame at a time and feeding each through SplitFrame and
// Radio.ProcessFrame/SyncSubchannels.
func (rv *Receiver) Run(src SampleSource) error {
	const syncScanSamples = 8192
	for {
		block, err := src.ReadSamples(syncScanSamples)
		if len(block) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		fs, found := rv.sync.ProcessBlock(block)
		if !found {
			if errors.Is(err, io.EOF) {
				return nil
			}
			continue
		}
		rv.freqOffsetHz = fs.FreqOffsetHz

		if err := rv.readFrame(src); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			slog.Warn("frame resync after decode error", "error", err)
		}
	}
}

// readFrame reads and processes exactly one transmission frame's PRS and
// data symbols once the synchronizer has located a frame boundary.
func (rv *Receiver) readFrame(src SampleSource) error {
	prs, err := src.ReadSamples(rv.params.NbFftPoints)
	if err != nil {
		return err
	}
	rv.freqOffsetHz = rv.sync.CoarseFreqSync(prs)

	prs2, err := src.ReadSamples(rv.params.NbSymbolSamples)
	if err != nil {
		return err
	}
	startOffset := rv.sync.FineTimeSync(prs2)
	if startOffset < 0 {
		return nil // transient signal loss; synchronizer already reset itself
	}

	symbols := make([][]complex128, rv.params.NbSymPerFrame)
	for i := range symbols {
		sym, err := src.ReadSamples(rv.params.NbSymbolSamples)
		if err != nil {
			return err
		}
		symbols[i] = sym
	}

	bits, newOffset := rv.demod.DemodulateFrame(symbols, rv.freqOffsetHz)
	rv.freqOffsetHz = newOffset

	db := rv.radio.Database()
	frame := SplitFrame(rv.params, bits, db)
	rv.radio.ProcessFrame(frame)
	rv.radio.SyncSubchannels(rv.radio.Database(), rv.onAudio, rv.onData)
	return nil
}
