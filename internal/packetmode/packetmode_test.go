package packetmode

import (
	"testing"

	"github.com/dabradio/dabradio/internal/fic"
	"github.com/stretchr/testify/require"
)

func buildPacket(first, last bool, continuityIdx, address int, data []byte) []byte {
	header := uint16(0)
	if first {
		header |= 0x8000
	}
	if last {
		header |= 0x4000
	}
	header |= uint16(continuityIdx&0x3) << 12
	header |= uint16(address & 0x03FF)

	raw := make([]byte, 2+len(data)+2)
	raw[0] = byte(header >> 8)
	raw[1] = byte(header)
	copy(raw[2:], data)

	payload := raw[:len(raw)-2]
	crc := fic.CRC16(payload)
	raw[len(raw)-2] = byte(^crc >> 8)
	raw[len(raw)-1] = byte(^crc)
	return raw
}

func TestParsePacketRoundTrip(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	raw := buildPacket(true, false, 1, 42, data)
	p, err := ParsePacket(raw, PacketLen24)
	require.NoError(t, err)
	require.True(t, p.First)
	require.False(t, p.Last)
	require.Equal(t, 1, p.ContinuityIdx)
	require.Equal(t, 42, p.AddressField)
	require.True(t, p.CRCOK)
	require.Equal(t, data, p.Data)
}

func TestParsePacketRejectsWrongLength(t *testing.T) {
	_, err := ParsePacket(make([]byte, 10), PacketLen24)
	require.Error(t, err)
}

func TestReassemblerJoinsMultiplePackets(t *testing.T) {
	r := NewReassembler()

	raw1 := buildPacket(true, false, 0, 7, []byte("hello "))
	p1, err := ParsePacket(raw1, PacketLen(len(raw1)))
	require.NoError(t, err)
	dg, err := r.PushPacket(p1)
	require.NoError(t, err)
	require.Nil(t, dg)

	raw2 := buildPacket(false, true, 1, 7, []byte("world"))
	p2, err := ParsePacket(raw2, PacketLen(len(raw2)))
	require.NoError(t, err)
	dg, err = r.PushPacket(p2)
	require.NoError(t, err)
	require.NotNil(t, dg)
	require.Equal(t, "hello world", string(dg.Data))
	require.Equal(t, 7, dg.Address)

	completed, dropped := r.Stats()
	require.EqualValues(t, 1, completed)
	require.EqualValues(t, 0, dropped)
}

func TestReassemblerRejectsBadCRC(t *testing.T) {
	r := NewReassembler()
	raw := buildPacket(true, true, 0, 1, []byte("x"))
	raw[len(raw)-1] ^= 0xFF
	p, err := ParsePacket(raw, PacketLen(len(raw)))
	require.NoError(t, err)
	require.False(t, p.CRCOK)

	dg, err := r.PushPacket(p)
	require.Error(t, err)
	require.Nil(t, dg)
	_, dropped := r.Stats()
	require.EqualValues(t, 1, dropped)
}

func TestFECDecoderCorrectsErasedShard(t *testing.T) {
	f, err := NewFECDecoder()
	require.NoError(t, err)

	raw := make([]byte, 204)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	corrected, fixed, err := f.Correct(raw)
	require.NoError(t, err)
	require.Equal(t, 0, fixed)
	require.Len(t, corrected, 188)

	raw[10] = 0x00
	corrected, fixed, err = f.Correct(raw)
	require.NoError(t, err)
	require.Equal(t, 1, fixed)
	require.Len(t, corrected, 188)
}
