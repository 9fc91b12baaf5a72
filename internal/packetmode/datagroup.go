package packetmode

import (
	"fmt"

	"github.com/dabradio/dabradio/internal/fec"
)

// DataGroup is a reassembled MSC data group: a variable-length session,
// addressed to a single target, spanning one or more packets delimited by
// the first/last flags and ordered by ContinuityIdx mod 4.
type DataGroup struct {
	Address int
	Data    []byte
	CRCOK   bool
}

// Reassembler accumulates packets per target address into complete data
// groups, tolerating interleaved packets from different addresses (as the
// subchannel may multiplex several packet-mode services).
type Reassembler struct {
	pending map[int]*pendingGroup

	groupsCompleted uint64
	packetsDropped  uint64
}

type pendingGroup struct {
	buf      []byte
	lastIdx  int
	started  bool
}

// NewReassembler creates an empty packet-mode reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{pending: make(map[int]*pendingGroup)}
}

// PushPacket feeds one parsed packet into the reassembler. It returns a
// completed DataGroup when the packet carries the Last flag.
func (r *Reassembler) PushPacket(p Packet) (*DataGroup, error) {
	if !p.CRCOK {
		r.packetsDropped++
		return nil, fmt.Errorf("packetmode: packet failed CRC check")
	}

	pg, ok := r.pending[p.AddressField]
	if ok && !p.First && p.ContinuityIdx != (pg.lastIdx+1)%4 {
		// A continuity jump means packets were lost: discard the group.
		delete(r.pending, p.AddressField)
		r.packetsDropped++
		return nil, fmt.Errorf("packetmode: continuity index jump on address %d", p.AddressField)
	}
	if !ok || p.First {
		pg = &pendingGroup{started: true}
		r.pending[p.AddressField] = pg
	}
	pg.buf = append(pg.buf, p.Data...)
	pg.lastIdx = p.ContinuityIdx

	if !p.Last {
		return nil, nil
	}
	delete(r.pending, p.AddressField)
	r.groupsCompleted++
	return &DataGroup{Address: p.AddressField, Data: pg.buf, CRCOK: true}, nil
}

// Stats reports reassembly counters.
func (r *Reassembler) Stats() (completed, dropped uint64) {
	return r.groupsCompleted, r.packetsDropped
}

// FECDecoder applies the optional outer RS(204,188) FEC a packet-mode
// subchannel may declare (EN 300 401 clause 5.3.3). Built on
// internal/fec.RSEncoder, the teacher's Reed-Solomon wrapper.
type FECDecoder struct {
	rs *fec.RSEncoder
}

// NewFECDecoder creates an RS(204,188) decoder for packet-mode outer FEC.
func NewFECDecoder() (*FECDecoder, error) {
	rs, err := fec.NewRSEncoderCustom(188, 16)
	if err != nil {
		return nil, fmt.Errorf("packetmode: create RS(204,188) codec: %w", err)
	}
	return &FECDecoder{rs: rs}, nil
}

// Correct reads raw as consecutive 204-byte codewords (no de-interleaving
// across codewords) and returns the data-shard payload with parity
// stripped. Only erasures are repaired: a data or parity byte of 0x00 is
// treated as an erasure at that shard position and rebuilt with
// internal/fec.RSEncoder.DecodeBlock; other corrupted bytes are not located.
func (f *FECDecoder) Correct(raw []byte) ([]byte, int, error) {
	const total = 204
	const data = 188
	numCodewords := len(raw) / total
	out := make([]byte, 0, numCodewords*data)
	fixed := 0
	for cw := 0; cw < numCodewords; cw++ {
		block := raw[cw*total : (cw+1)*total]
		var erasures []int
		for i, b := range block {
			if b == 0x00 {
				erasures = append(erasures, i)
			}
		}
		if len(erasures) == 0 {
			out = append(out, block[:data]...)
			continue
		}
		recovered, err := f.rs.DecodeBlock(block, erasures)
		if err != nil {
			return nil, fixed, err
		}
		fixed++
		out = append(out, recovered...)
	}
	return out, fixed, nil
}
