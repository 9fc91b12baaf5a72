package pad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildDLField(toggle int, first, last bool, charset byte, text string) []byte {
	header := byte(AppTypeDynamicLabel)
	segHeader := byte(toggle&1) << 7
	if first {
		segHeader |= 0x40
	}
	if last {
		segHeader |= 0x20
	}
	segByte2 := (charset&0xF)<<4 | byte(len(text)&0xF)

	out := []byte{header, segHeader, segByte2}
	out = append(out, []byte(text)...)
	return out
}

func TestPushXPADReassemblesSingleSegmentLabel(t *testing.T) {
	p := NewProcessor()
	var got DynamicLabel
	p.OnDynamicLabel = func(dl DynamicLabel) { got = dl }

	field := buildDLField(0, true, true, 0, "hi")
	p.PushXPAD(field)

	require.Equal(t, "hi", got.Text)
}

func TestPushFPADIgnoresUnknownApplicationType(t *testing.T) {
	p := NewProcessor()
	called := false
	p.OnDynamicLabel = func(DynamicLabel) { called = true }
	p.PushFPAD([]byte{0x1F, 0x00, 0x00})
	require.False(t, called)
}

func TestPushXPADIgnoresMismatchedToggle(t *testing.T) {
	p := NewProcessor()
	var calls int
	p.OnDynamicLabel = func(DynamicLabel) { calls++ }

	first := buildDLField(0, true, false, 0, "ab")
	p.PushXPAD(first)

	mismatched := buildDLField(1, false, true, 0, "cd")
	p.PushXPAD(mismatched)

	require.Equal(t, 0, calls)
}
