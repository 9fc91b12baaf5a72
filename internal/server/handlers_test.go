package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabradio/dabradio/internal/dabparams"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/fig"
	"github.com/dabradio/dabradio/internal/mot"
	"github.com/dabradio/dabradio/internal/pad"
	"github.com/dabradio/dabradio/internal/radio"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	params, err := dabparams.ForMode(dabparams.ModeI)
	require.NoError(t, err)
	r := radio.New(params)
	return NewHandlers(r)
}

func TestSnapshotPayloadSortsServicesByRef(t *testing.T) {
	db := *database.New()
	db.Services = map[uint32]*database.Service{
		20: {ServiceRef: 20, Label: "Second", ProgrammeType: fig.ProgrammeType(5)},
		10: {ServiceRef: 10, Label: "First", ProgrammeType: fig.ProgrammeType(2)},
	}
	db.Ensemble.Label = "Test Ensemble"
	db.Ensemble.CountryID = 0xE

	payload := snapshotPayload(db, database.Statistics{Updates: 3})

	require.Equal(t, "Test Ensemble", payload.EnsembleLabel)
	require.Equal(t, byte(0xE), payload.CountryID)
	require.Len(t, payload.Services, 2)
	require.Equal(t, uint32(10), payload.Services[0].ServiceRef)
	require.Equal(t, uint32(20), payload.Services[1].ServiceRef)
	require.EqualValues(t, 3, payload.Stats.Updates)
}

func TestHandleDatabaseReturnsJSON(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/database", nil)
	rec := httptest.NewRecorder()
	h.HandleDatabase(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ensembleLabel")
}

func TestHandleStatusReportsFramesProcessed(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "framesProcessed")
}

func TestOnAudioChannelDoesNotPanicWithNoClients(t *testing.T) {
	h := newTestHandlers(t)
	require.NotPanics(t, func() {
		h.OnAudioChannel(radio.AudioChannel{SubChannelID: 3, Label: &pad.DynamicLabel{Text: "now playing"}})
	})
	require.NotPanics(t, func() {
		h.OnAudioChannel(radio.AudioChannel{SubChannelID: 3, Slideshow: &mot.Object{Header: mot.Header{ContentName: "pic.jpg"}}})
	})
}
