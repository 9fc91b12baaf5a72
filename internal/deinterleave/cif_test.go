package deinterleave

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBranchOffsetsAreAPermutation(t *testing.T) {
	seen := make(map[int]bool)
	for _, o := range branchOffsets {
		require.False(t, seen[o], "duplicate offset %d", o)
		seen[o] = true
		require.GreaterOrEqual(t, o, 0)
		require.Less(t, o, NumBranches)
	}
	require.Len(t, seen, NumBranches)
}

func TestDeinterleaverWarmsUpThenEmits(t *testing.T) {
	d := New(32)
	var lastOK bool
	for i := 0; i < NumBranches+2; i++ {
		frame := make([]byte, 32)
		for j := range frame {
			frame[j] = byte((i + j) % 2)
		}
		_, ok := d.PushCIF(frame)
		lastOK = ok
	}
	require.True(t, lastOK)
}
