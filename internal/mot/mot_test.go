package mot

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildHeaderCore(bodySize, headerSize, contentType, subtype int) []byte {
	var v uint64
	v |= uint64(bodySize&0xFFFFFFF) << 28
	v |= uint64(headerSize&0x1FFF) << 15
	v |= uint64(contentType&0x3F) << 9
	v |= uint64(subtype & 0x1FF)

	full := make([]byte, 8)
	binary.BigEndian.PutUint64(full, v)
	return full[1:]
}

func TestParseHeaderCore(t *testing.T) {
	core := buildHeaderCore(1000, 7, 2, 3)
	h, err := ParseHeader(core)
	require.NoError(t, err)
	require.Equal(t, 1000, h.BodySize)
	require.Equal(t, 7, h.HeaderSize)
	require.Equal(t, ContentJPEG, h.ContentType)
}

func TestParseHeaderRejectsShortBuffer(t *testing.T) {
	_, err := ParseHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestReassemblerJoinsHeaderAndBody(t *testing.T) {
	r := NewReassembler()

	core := buildHeaderCore(5, 7, 2, 3)
	obj, err := r.PushHeaderSegment(0, core, true)
	require.NoError(t, err)
	require.Nil(t, obj)

	obj, err = r.PushBodySegment(0, 5, []byte("hello"), true)
	require.NoError(t, err)
	require.NotNil(t, obj)
	require.Equal(t, "hello", string(obj.Body))
	require.Equal(t, ContentJPEG, obj.Header.ContentType)
	require.EqualValues(t, 1, r.Stats())
}

func TestReassemblerWaitsForAllBodyBytes(t *testing.T) {
	r := NewReassembler()
	core := buildHeaderCore(10, 7, 2, 3)
	_, err := r.PushHeaderSegment(0, core, true)
	require.NoError(t, err)

	obj, err := r.PushBodySegment(0, 5, []byte("12345"), false)
	require.NoError(t, err)
	require.Nil(t, obj)

	obj, err = r.PushBodySegment(1, 5, []byte("67890"), true)
	require.NoError(t, err)
	require.NotNil(t, obj)
	require.Equal(t, "1234567890", string(obj.Body))
}
