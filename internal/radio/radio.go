// Package radio implements the multithreaded orchestrator: per-frame
// fan-out over the FIC runner and one goroutine per subscribed subchannel,
// a database manager applying the force-update/cooldown publish policy,
// and an observer registration surface for decoded audio/data channels.
// Grounded on the reference decoder's Basic_Radio / Basic_FIC_Runner /
// Basic_Database_Manager trio.
package radio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/fig"
	"github.com/dabradio/dabradio/internal/msc"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// Radio is the top-level orchestrator: it owns the ensemble database, the
// FIC runner, and the set of subscribed subchannel workers, and drives one
// fan-out/fan-in pass per decoded transmission frame.
type Radio struct {
	params dabparams.Params

	mu          sync.Mutex
	db          *database.Database
	updater     *database.Updater
	dbManager   *DatabaseManager
	fic         *ficRunner
	subchannels map[byte]*subchannelWorker

	isRunning bool

	totalFramesProcessed uint64
}

// New creates a Radio orchestrator for the given transmission mode.
func New(params dabparams.Params) *Radio {
	db := database.New()
	updater := database.NewUpdater(db)
	return &Radio{
		params:      params,
		db:          db,
		updater:     updater,
		dbManager:   NewDatabaseManager(),
		fic:         newFICRunner(params, updater),
		subchannels: make(map[byte]*subchannelWorker),
		isRunning:   true,
	}
}

// AddAudioSubchannel subscribes an audio (AAC/DAB+ or MP2) subchannel for
// decoding. onAudio is invoked (on the subchannel's worker goroutine) with
// every decoded payload/PAD event for it; observers must not block.
func (r *Radio) AddAudioSubchannel(subChID byte, sizeCU int, isUEP bool, uepTableIdx byte, eepProfileB bool, eepLevel int, isDABPlus bool, onAudio func(AudioChannel)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	decoder := r.newSubchannelDecoder(subChID, sizeCU, isUEP, uepTableIdx, eepProfileB, eepLevel)
	worker, err := newAudioSubchannelWorker(subChID, decoder, isDABPlus, sizeCU)
	if err != nil {
		return fmt.Errorf("radio: add audio subchannel %d: %w", subChID, err)
	}
	worker.OnAudio = onAudio
	r.subchannels[subChID] = worker
	return nil
}

// AddDataSubchannel subscribes a packet-mode data subchannel. onData fires
// once per fully reassembled MOT object.
func (r *Radio) AddDataSubchannel(subChID byte, sizeCU int, isUEP bool, uepTableIdx byte, eepProfileB bool, eepLevel int, onData func(DataChannel)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	decoder := r.newSubchannelDecoder(subChID, sizeCU, isUEP, uepTableIdx, eepProfileB, eepLevel)
	worker := newDataSubchannelWorker(subChID, decoder)
	worker.OnData = onData
	r.subchannels[subChID] = worker
}

// RemoveSubchannel unsubscribes a previously added subchannel.
func (r *Radio) RemoveSubchannel(subChID byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subchannels, subChID)
}

func (r *Radio) newSubchannelDecoder(subChID byte, sizeCU int, isUEP bool, uepTableIdx byte, eepProfileB bool, eepLevel int) *msc.SubchannelDecoder {
	if isUEP {
		return msc.NewUEPDecoder(subChID, sizeCU, uepTableIdx)
	}
	return msc.NewEEPDecoder(subChID, sizeCU, eepProfileB, eepLevel)
}

// FrameInput is one decoded transmission frame's soft-bit payload, already
// split by the OFDM demodulator into the FIC portion and, per subchannel,
// the sequence of CIF slices (one per CIF carried in the frame) holding
// that subchannel's soft bits.
type FrameInput struct {
	FICSoftBits []viterbi.SoftBit
	CIFs        map[byte][][]viterbi.SoftBit // subchannel ID -> per-CIF soft bits, in frame order
}

// ProcessFrame runs one fan-out/fan-in pass: the FIC runner and every
// subscribed subchannel worker process their portion of the frame
// concurrently, barrier-joined with a sync.WaitGroup before the database
// manager evaluates whether to publish a new stable snapshot.
func (r *Radio) ProcessFrame(frame FrameInput) {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	workers := make(map[byte]*subchannelWorker, len(r.subchannels))
	for id, w := range r.subchannels {
		workers[id] = w
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.fic.ProcessFrame(frame.FICSoftBits); err != nil {
			slog.Debug("FIC decode failed for frame", "error", err)
		}
	}()

	for id, w := range workers {
		cifs, ok := frame.CIFs[id]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(w *subchannelWorker, cifs [][]viterbi.SoftBit) {
			defer wg.Done()
			for _, soft := range cifs {
				if err := w.ProcessCIF(soft); err != nil {
					slog.Debug("subchannel decode failed", "subchannel", w.subChannelID, "error", err)
				}
			}
		}(w, cifs)
	}
	wg.Wait()

	r.totalFramesProcessed++
	r.dbManager.OnDatabaseUpdate(r.db, r.updater)
}

// Database returns the last-published stable ensemble database snapshot.
func (r *Radio) Database() database.Database {
	return r.dbManager.Snapshot()
}

// DatabaseStats returns the last-published stable update statistics.
func (r *Radio) DatabaseStats() database.Statistics {
	return r.dbManager.Stats()
}

// TotalFramesProcessed reports how many frames this orchestrator has run
// through ProcessFrame.
func (r *Radio) TotalFramesProcessed() uint64 {
	return r.totalFramesProcessed
}

// Stop marks the orchestrator as no longer accepting frames; in-flight
// ProcessFrame calls complete normally, subsequent calls are no-ops.
func (r *Radio) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isRunning = false
}

// SyncSubchannels reconciles the set of subscribed subchannel workers
// against what the published stable ensemble database currently describes
// — one complete service component per subchannel, cross-referenced
// against its protection profile. Call periodically (e.g. once a stable
// snapshot is published) as FIG 0/2 and FIG 0/1/2 configuration arrives;
// components with missing or contradictory subchannel configuration are
// skipped and retried on the next call, per spec.md §7's "report once,
// skip" policy.
func (r *Radio) SyncSubchannels(db database.Database, onAudio func(AudioChannel), onData func(DataChannel)) {
	wanted := make(map[byte]bool)
	for _, comp := range db.Components {
		if !comp.IsComplete() {
			continue
		}
		sc, ok := db.Subchannels[comp.SubChannelID]
		if !ok || !sc.IsComplete() {
			continue
		}
		wanted[comp.SubChannelID] = true

		r.mu.Lock()
		_, already := r.subchannels[comp.SubChannelID]
		r.mu.Unlock()
		if already {
			continue
		}

		switch comp.TransportMode {
		case fig.TransportStreamModeAudio:
			isDABPlus := comp.AudioServiceType == fig.AudioServiceDABPlus
			if err := r.AddAudioSubchannel(sc.SubChannelID, int(sc.SubChSize), sc.IsUEP, sc.UEPTableIdx, sc.EEPType == fig.EEPTypeB, int(sc.EEPOption)+1, isDABPlus, onAudio); err != nil {
				slog.Warn("failed to add audio subchannel", "subchannel", sc.SubChannelID, "error", err)
			}
		case fig.TransportStreamModeData, fig.TransportPacketModeData:
			r.AddDataSubchannel(sc.SubChannelID, int(sc.SubChSize), sc.IsUEP, sc.UEPTableIdx, sc.EEPType == fig.EEPTypeB, int(sc.EEPOption)+1, onData)
		}
	}

	r.mu.Lock()
	for id := range r.subchannels {
		if !wanted[id] {
			delete(r.subchannels, id)
		}
	}
	r.mu.Unlock()
}
