// Package ws pushes freshly ingested reading batches to connected
// dashboards so open charts refresh without polling.
package ws

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

// Event types pushed to subscribers.
const (
	EventReadingBatch = "reading_batch"
	EventWellUpdated  = "well_updated"
)

// Event is one live-feed message. Dataset and Well let clients filter; Data
// carries the event-specific payload.
type Event struct {
	Type    string      `json:"type"`
	Dataset string      `json:"dataset"`
	Well    string      `json:"well,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Time    time.Time   `json:"time"`
}

// Hub fans events out to connected clients. Broadcast never blocks on a
// client: a full send buffer drops that client instead of stalling the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     *logger.ScopedLogger
}

var hub *Hub

// Init creates the process-wide hub.
func Init() {
	hub = NewHub()
}

// Get returns the process-wide hub, or nil before Init.
func Get() *Hub {
	return hub
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     logger.WithScope("ws-hub"),
	}
}

// register adds a client to the fan-out set.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Info().Int("clients", count).Msg("Live client connected")
}

// unregister removes a client; safe to call more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()

	if present {
		h.log.Info().Int("clients", count).Msg("Live client disconnected")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers an event to every subscribed client whose filter
// matches. The message is marshaled once and shared.
func (h *Hub) Broadcast(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", ev.Type).Msg("Failed to marshal live event")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.matches(ev) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.trySend(data) {
			// Slow client: its buffer is full and it would stall the feed.
			h.log.Warn().
				Str("dataset", c.dataset).
				Str("well", c.well).
				Msg("Dropping slow live client")
			c.close()
		}
	}
}

// Shutdown disconnects every client, for graceful server stop.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.close()
	}
	h.log.Info().Int("clients", len(targets)).Msg("Live hub shut down")
}

// Broadcast sends through the process-wide hub when initialized.
func Broadcast(ev Event) {
	if hub != nil {
		hub.Broadcast(ev)
	}
}

// Shutdown stops the process-wide hub when initialized.
func Shutdown() {
	if hub != nil {
		hub.Shutdown()
	}
}
