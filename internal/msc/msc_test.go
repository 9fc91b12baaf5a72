package msc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubchannelSizeSpecialCase(t *testing.T) {
	size, err := SubchannelSizeBytes(false, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 12, size)
}

func TestSubchannelSizeGeneralFormula(t *testing.T) {
	size, err := SubchannelSizeBytes(false, 1, 4)
	require.NoError(t, err)
	require.Equal(t, 48, size)
}

func TestSubchannelSizeInvalidLevel(t *testing.T) {
	_, err := SubchannelSizeBytes(false, 9, 1)
	require.Error(t, err)
}

func TestUEPTableHas64Rows(t *testing.T) {
	require.Len(t, UEPTable, 64)
	for _, row := range UEPTable {
		require.Greater(t, row.SubChannelSizeCU, 0)
	}
}
