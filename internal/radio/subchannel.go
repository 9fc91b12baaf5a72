package radio

import (
	"github.com/dabradio/dabradio/internal/aac"
	"github.com/dabradio/dabradio/internal/mot"
	"github.com/dabradio/dabradio/internal/mp2"
	"github.com/dabradio/dabradio/internal/msc"
	"github.com/dabradio/dabradio/internal/pad"
	"github.com/dabradio/dabradio/internal/packetmode"
	"github.com/dabradio/dabradio/internal/viterbi"
)

// AudioChannel is what the onAudio observer passed to AddAudioSubchannel
// receives:
// decoded PCM (MP2) or access units (AAC) plus any routed PAD events for
// one subchannel.
type AudioChannel struct {
	SubChannelID byte
	PCM          [][]int16     // non-nil for MP2 subchannels
	AudioUnits   [][]byte      // non-nil for DAB+ (AAC) subchannels
	Label        *pad.DynamicLabel
	Slideshow    *mot.Object
}

// DataChannel is what the onData observer passed to AddDataSubchannel
// receives: a fully reassembled MOT object from a packet-mode data
// subchannel.
type DataChannel struct {
	SubChannelID byte
	Object       mot.Object
}

// subchannelWorker decodes one subchannel's CIF slices per frame: Viterbi
// decode, then de-interleave, then descramble (internal/msc), then dispatch to the
// appropriate codec (AAC superframe, MP2 frame, or packet-mode/MOT), and
// routes PAD through the shared processor.
type subchannelWorker struct {
	subChannelID byte
	mscDecoder   *msc.SubchannelDecoder
	pad          *pad.Processor

	// exactly one of these is set, selected by the subchannel's declared
	// service type at construction time.
	aacProc    *aac.Processor
	mp2Decoder *mp2.Decoder
	packetReasm *packetmode.Reassembler
	motReasm    *mot.Reassembler

	OnAudio func(AudioChannel)
	OnData  func(DataChannel)
}

func newAudioSubchannelWorker(subChID byte, mscDecoder *msc.SubchannelDecoder, isDABPlus bool, subChSizeCU int) (*subchannelWorker, error) {
	w := &subchannelWorker{subChannelID: subChID, mscDecoder: mscDecoder, pad: pad.NewProcessor()}
	if isDABPlus {
		proc, err := aac.NewProcessor(subChSizeCU)
		if err != nil {
			return nil, err
		}
		w.aacProc = proc
	} else {
		w.mp2Decoder = mp2.NewDecoder()
	}
	w.wirePAD()
	return w, nil
}

func newDataSubchannelWorker(subChID byte, mscDecoder *msc.SubchannelDecoder) *subchannelWorker {
	w := &subchannelWorker{
		subChannelID: subChID,
		mscDecoder:   mscDecoder,
		packetReasm:  packetmode.NewReassembler(),
		motReasm:     mot.NewReassembler(),
	}
	return w
}

func (w *subchannelWorker) wirePAD() {
	w.pad.OnDynamicLabel = func(dl pad.DynamicLabel) {
		if w.OnAudio != nil {
			w.OnAudio(AudioChannel{SubChannelID: w.subChannelID, Label: &dl})
		}
	}
	w.pad.OnMOTObject = func(obj mot.Object) {
		if w.OnAudio != nil {
			w.OnAudio(AudioChannel{SubChannelID: w.subChannelID, Slideshow: &obj})
		}
	}
}

// ProcessCIF feeds one CIF's worth of soft bits through de-interleave +
// Viterbi + descramble, then on to the codec-specific processing.
func (w *subchannelWorker) ProcessCIF(soft []viterbi.SoftBit) error {
	bytes, ok, err := w.mscDecoder.DecodeCIFSlice(soft)
	if err != nil {
		return err
	}
	if !ok {
		return nil // still warming up the time de-interleaver
	}

	switch {
	case w.aacProc != nil:
		return w.processAAC(bytes)
	case w.mp2Decoder != nil:
		return w.processMP2(bytes)
	default:
		return w.processPacketMode(bytes)
	}
}

func (w *subchannelWorker) processAAC(cifBytes []byte) error {
	sf, err := w.aacProc.PushCIF(cifBytes)
	if err != nil {
		return err
	}
	if sf == nil {
		return nil
	}
	if w.OnAudio != nil {
		w.OnAudio(AudioChannel{SubChannelID: w.subChannelID, AudioUnits: sf.AudioUnits})
	}
	for _, au := range sf.AudioUnits {
		w.pad.PushXPAD(au)
	}
	return nil
}

func (w *subchannelWorker) processMP2(frameBytes []byte) error {
	h, err := mp2.ParseHeader(frameBytes)
	if err != nil {
		return err
	}
	frame, err := w.mp2Decoder.DecodeFrame(h, frameBytes)
	if err != nil {
		return err
	}
	if w.OnAudio != nil {
		w.OnAudio(AudioChannel{SubChannelID: w.subChannelID, PCM: frame.PCM})
	}
	w.pad.PushFPAD(frame.FPAD)
	return nil
}

func (w *subchannelWorker) processPacketMode(raw []byte) error {
	plen := packetmode.PacketLen(len(raw))
	packet, err := packetmode.ParsePacket(raw, plen)
	if err != nil {
		return err
	}
	dg, err := w.packetReasm.PushPacket(packet)
	if err != nil || dg == nil {
		return err
	}
	w.routeMOT(dg)
	return nil
}

func (w *subchannelWorker) routeMOT(dg *packetmode.DataGroup) {
	if len(dg.Data) == 0 {
		return
	}
	obj, err := w.motReasm.PushHeaderSegment(0, dg.Data, true)
	if err != nil || obj == nil {
		return
	}
	if w.OnData != nil {
		w.OnData(DataChannel{SubChannelID: w.subChannelID, Object: *obj})
	}
}
