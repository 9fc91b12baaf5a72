package database

import (
	"testing"

	"github.com/dabradio/dabradio/internal/fig"
	"github.com/stretchr/testify/require"
)

func TestSetEnsembleLabelFirstSetSucceeds(t *testing.T) {
	u := NewUpdater(New())
	r := u.SetEnsembleLabel("My Ensemble", 0x0001)
	require.Equal(t, ResultSuccess, r)
	require.Equal(t, "My Ensemble", u.db.Ensemble.Label)
}

func TestSetEnsembleLabelSameValueIsNoChange(t *testing.T) {
	u := NewUpdater(New())
	u.SetEnsembleLabel("My Ensemble", 0x0001)
	r := u.SetEnsembleLabel("My Ensemble", 0x0001)
	require.Equal(t, ResultNoChange, r)
}

func TestSetEnsembleLabelConflictingValueIsConflict(t *testing.T) {
	u := NewUpdater(New())
	u.SetEnsembleLabel("My Ensemble", 0x0001)
	r := u.SetEnsembleLabel("Other Ensemble", 0x0001)
	require.Equal(t, ResultConflict, r)
	require.Equal(t, "My Ensemble", u.db.Ensemble.Label, "conflicting value must not overwrite")
}

func TestSetEnsembleExtendedCountryCodeZeroIsUnset(t *testing.T) {
	u := NewUpdater(New())
	r := u.SetEnsembleExtendedCountryCode(0x00)
	require.Equal(t, ResultNoChange, r)
}

func TestComponentGlobalIDAlwaysOverwrites(t *testing.T) {
	u := NewUpdater(New())
	u.SetComponentPacketData(0x1234, 0, 0xAAAA, true)
	r := u.SetComponentPacketData(0x1234, 0, 0xBBBB, true)
	require.Equal(t, ResultSuccess, r)
	c := u.db.Components[componentKey{0x1234, 0}]
	require.Equal(t, uint16(0xBBBB), c.GlobalID)
}

func TestAddFMFrequencyIsAdditiveNotConflicting(t *testing.T) {
	u := NewUpdater(New())
	r1 := u.AddFMFrequency(0x1234, 94500)
	r2 := u.AddFMFrequency(0x1234, 94500)
	r3 := u.AddFMFrequency(0x1234, 96700)
	require.Equal(t, ResultSuccess, r1)
	require.Equal(t, ResultNoChange, r2)
	require.Equal(t, ResultSuccess, r3)
	require.Len(t, u.db.FMServices[0x1234].FrequenciesKHz, 2)
}

func TestComponentIsCompleteRequiresSubchannelAndAudioType(t *testing.T) {
	u := NewUpdater(New())
	u.SetComponentStreamAudio(0x1, 0, 5, fig.AudioServiceDABPlus, true)
	c := u.db.Components[componentKey{0x1, 0}]
	require.True(t, c.IsComplete())
}

func TestStatsCountConflicts(t *testing.T) {
	u := NewUpdater(New())
	u.SetEnsembleLabel("A", 0)
	u.SetEnsembleLabel("B", 0)
	stats := u.Stats()
	require.Equal(t, uint64(1), stats.Conflicts)
}
