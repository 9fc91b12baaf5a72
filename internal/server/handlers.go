package server

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/dabradio/dabradio/internal/audio"
	"github.com/dabradio/dabradio/internal/database"
	"github.com/dabradio/dabradio/internal/radio"
)

// Handlers holds the HTTP API handlers exposing a running Radio's ensemble
// database and live PAD/slideshow events over HTTP and WebSocket.
type Handlers struct {
	radio *radio.Radio
	wsHub *WSHub
}

// NewHandlers wires handlers to a running radio orchestrator. It registers
// no observer itself: cmd/radio passes OnAudioChannel to the receiver as the
// audio observer, so decoded PAD events are pushed to connected WebSocket
// clients as they arrive.
func NewHandlers(r *radio.Radio) *Handlers {
	h := &Handlers{radio: r, wsHub: NewWSHub()}
	return h
}

// OnAudioChannel is registered with radio.Radio.AddAudioSubchannel per
// subscribed subchannel to forward dynamic-label/slideshow events to
// WebSocket clients.
func (h *Handlers) OnAudioChannel(a radio.AudioChannel) {
	if a.Label != nil {
		h.wsHub.BroadcastDynamicLabel(DynamicLabelPayload{
			SubChannelID: a.SubChannelID,
			Text:         a.Label.Text,
		})
	}
	if a.Slideshow != nil {
		h.wsHub.BroadcastSlideshow(SlideshowPayload{
			SubChannelID: a.SubChannelID,
			ContentName:  a.Slideshow.Header.ContentName,
			SizeBytes:    len(a.Slideshow.Body),
		})
	}
}

// HandleWebSocket upgrades the connection and registers it with the hub.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsHub.BroadcastStatus("error", "websocket upgrade failed")
		return
	}

	h.wsHub.AddClient(conn)

	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// HandleDatabase returns the last-published stable ensemble database as
// JSON.
func (h *Handlers) HandleDatabase(w http.ResponseWriter, r *http.Request) {
	db := h.radio.Database()
	json.NewEncoder(w).Encode(snapshotPayload(db, h.radio.DatabaseStats()))
}

// HandleStatus reports how many frames have been processed so far.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"framesProcessed": h.radio.TotalFramesProcessed(),
	})
}

// HandleDevices lists available audio devices (for client-side
// device selection UIs; this decoder itself never opens a playback stream).
func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := audio.ListDevices()
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"devices": devices,
	})
}

func snapshotPayload(db database.Database, stats database.Statistics) DatabaseSnapshotPayload {
	services := make([]ServiceSnapshot, 0, len(db.Services))
	for _, svc := range db.Services {
		services = append(services, ServiceSnapshot{
			ServiceRef:    svc.ServiceRef,
			Label:         svc.Label,
			ProgrammeType: int(svc.ProgrammeType),
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ServiceRef < services[j].ServiceRef })

	return DatabaseSnapshotPayload{
		EnsembleLabel: db.Ensemble.Label,
		CountryID:     db.Ensemble.CountryID,
		Services:      services,
		Stats:         stats,
	}
}

// PushDatabaseSnapshot broadcasts the current stable database to all
// connected clients; callers (typically cmd/radio's run loop) call this
// after each radio.Radio.ProcessFrame to keep clients current.
func (h *Handlers) PushDatabaseSnapshot() {
	db := h.radio.Database()
	h.wsHub.BroadcastDatabase(snapshotPayload(db, h.radio.DatabaseStats()))
}
