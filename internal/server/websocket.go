package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dabradio/dabradio/internal/database"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is one push sent to every connected client.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// DatabaseSnapshotPayload carries a published stable ensemble database.
type DatabaseSnapshotPayload struct {
	EnsembleLabel string                 `json:"ensembleLabel"`
	CountryID     byte                   `json:"countryId"`
	Services      []ServiceSnapshot      `json:"services"`
	Stats         database.Statistics    `json:"stats"`
}

// ServiceSnapshot is the per-service slice of a database snapshot shown to
// clients.
type ServiceSnapshot struct {
	ServiceRef    uint32 `json:"serviceRef"`
	Label         string `json:"label"`
	ProgrammeType int    `json:"programmeType"`
}

// DynamicLabelPayload carries one decoded PAD dynamic label.
type DynamicLabelPayload struct {
	SubChannelID byte   `json:"subChannelId"`
	Text         string `json:"text"`
}

// SlideshowPayload announces a reassembled MOT slideshow object.
type SlideshowPayload struct {
	SubChannelID byte   `json:"subChannelId"`
	ContentName  string `json:"contentName"`
	SizeBytes    int    `json:"sizeBytes"`
}

// WSHub fans out decoded-radio events to every connected browser client.
type WSHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewWSHub creates an empty hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// AddClient registers a new WebSocket connection.
func (h *WSHub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.Printf("WebSocket client connected (%d total)", len(h.clients))
}

// RemoveClient removes a WebSocket connection.
func (h *WSHub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	log.Printf("WebSocket client disconnected (%d remaining)", len(h.clients))
}

// Broadcast sends a message to all connected clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("WebSocket marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Printf("WebSocket write error: %v", err)
			go h.RemoveClient(conn)
		}
	}
}

// BroadcastDatabase pushes a freshly published stable ensemble snapshot.
func (h *WSHub) BroadcastDatabase(p DatabaseSnapshotPayload) {
	h.Broadcast(WSMessage{Type: "database", Payload: p})
}

// BroadcastDynamicLabel pushes a decoded dynamic label.
func (h *WSHub) BroadcastDynamicLabel(p DynamicLabelPayload) {
	h.Broadcast(WSMessage{Type: "dynamicLabel", Payload: p})
}

// BroadcastSlideshow pushes a reassembled MOT slideshow announcement.
func (h *WSHub) BroadcastSlideshow(p SlideshowPayload) {
	h.Broadcast(WSMessage{Type: "slideshow", Payload: p})
}

// BroadcastStatus pushes a plain status/log line.
func (h *WSHub) BroadcastStatus(status, message string) {
	h.Broadcast(WSMessage{
		Type: "status",
		Payload: map[string]string{
			"status":  status,
			"message": message,
		},
	})
}
