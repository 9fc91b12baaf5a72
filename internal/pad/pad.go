// Package pad routes DAB Programme-Associated Data: X-PAD carried in AAC
// audio units and F-PAD carried in the trailing bytes of MP2 frames both
// feed the same dynamic-label and MOT-directory pipeline, per
// EN 300 401 clause 7.4 and TS 101 756's application type registry.
package pad

import (
	"github.com/dabradio/dabradio/internal/fig"
	"github.com/dabradio/dabradio/internal/mot"
)

// ApplicationType identifies an X-PAD/F-PAD application, per TS 101 756's
// registered application type table.
type ApplicationType int

const (
	AppTypeEndOfXPAD       ApplicationType = 0
	AppTypeDynamicLabel    ApplicationType = 2
	AppTypeDynamicLabelCmd ApplicationType = 3
	AppTypeMOTStart        ApplicationType = 12
	AppTypeMOTContinue     ApplicationType = 13
)

// DynamicLabel is one reassembled DL segment sequence: a scrolling text
// label, typically the "now playing" string.
type DynamicLabel struct {
	Text    string
	Charset fig.Charset
}

// Processor reassembles dynamic labels and MOT objects delivered via PAD,
// shared by both the AAC (X-PAD) and MP2 (F-PAD) decode paths.
type Processor struct {
	dlSegs    map[int][]byte
	dlToggle  int
	motReasm  *mot.Reassembler

	OnDynamicLabel func(DynamicLabel)
	OnMOTObject    func(mot.Object)
}

// NewProcessor creates a PAD processor.
func NewProcessor() *Processor {
	return &Processor{
		dlSegs:   make(map[int][]byte),
		motReasm: mot.NewReassembler(),
	}
}

// PushXPAD feeds one X-PAD field (from an AAC audio unit's appended X-PAD
// bytes) through the PAD pipeline. Application-type-tagged subfields are
// dispatched per clause 7.4.2's X-PAD data group layout.
func (p *Processor) PushXPAD(data []byte) {
	p.pushFields(data)
}

// PushFPAD feeds one F-PAD field pair (from an MP2 frame's trailing 2
// bytes) through the same pipeline, per clause 7.4.1.
func (p *Processor) PushFPAD(data []byte) {
	p.pushFields(data)
}

func (p *Processor) pushFields(data []byte) {
	pos := 0
	for pos < len(data) {
		appType := ApplicationType(data[pos] & 0x1F)
		pos++
		switch appType {
		case AppTypeDynamicLabel, AppTypeDynamicLabelCmd:
			if pos+1 >= len(data) {
				return
			}
			p.handleDLSegment(data[pos:])
			return
		case AppTypeMOTStart, AppTypeMOTContinue:
			if pos+2 >= len(data) {
				return
			}
			p.handleMOTSegment(data[pos:], appType == AppTypeMOTStart)
			return
		default:
			return
		}
	}
}

// handleDLSegment parses one dynamic label segment header (toggle bit,
// first/last flags, charset, segment length) and reassembles across
// segments keyed by the toggle bit per clause 7.4.2.1.
func (p *Processor) handleDLSegment(data []byte) {
	if len(data) < 2 {
		return
	}
	header := data[0]
	toggle := int((header >> 7) & 1)
	first := header&0x40 != 0
	last := header&0x20 != 0
	charset := fig.Charset((data[1] >> 4) & 0xF)
	segLen := int(data[1] & 0xF)
	if len(data) < 2+segLen {
		return
	}
	text := data[2 : 2+segLen]

	if first {
		p.dlSegs = make(map[int][]byte)
		p.dlToggle = toggle
	}
	if toggle != p.dlToggle {
		return
	}
	p.dlSegs[len(p.dlSegs)] = text

	if last && p.OnDynamicLabel != nil {
		var full []byte
		for i := 0; i < len(p.dlSegs); i++ {
			full = append(full, p.dlSegs[i]...)
		}
		p.OnDynamicLabel(DynamicLabel{Text: string(full), Charset: charset})
	}
}

// handleMOTSegment routes a PAD-carried MOT directory/header/body segment
// into the shared MOT reassembler, completing slideshow objects.
func (p *Processor) handleMOTSegment(data []byte, start bool) {
	if len(data) < 2 {
		return
	}
	segNum := int(data[0])
	last := data[1]&0x80 != 0
	body := data[2:]

	if start {
		if obj, err := p.motReasm.PushHeaderSegment(segNum, body, last); err == nil && obj != nil && p.OnMOTObject != nil {
			p.OnMOTObject(*obj)
		}
		return
	}
	if obj, err := p.motReasm.PushBodySegment(segNum, len(body), body, last); err == nil && obj != nil && p.OnMOTObject != nil {
		p.OnMOTObject(*obj)
	}
}
