// Package realtime fans wheel events out to WebSocket subscribers. Each wheel
// has its own logical channel; clients subscribe to exactly one wheel.
package realtime

import (
	"encoding/json"

	"github.com/winsim/wheel-backend/internal/models"
	"golang.org/x/exp/slog"
)

// Event is the wire format pushed to subscribers.
type Event struct {
	Type    string      `json:"type"`
	WheelID string      `json:"wheel_id"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	// EventSpinStarted carries the angle/duration/winner payload. It is sent in
	// addition to the row-update notification because a client that misses the
	// update still needs the exact animation parameters.
	EventSpinStarted = "spin_started"
	// EventWheelUpdated tells subscribers to re-fetch wheel state.
	EventWheelUpdated = "wheel_updated"
)

type broadcast struct {
	wheelID string
	data    []byte
}

// Hub owns the client registry and serializes all membership changes and
// broadcasts through its run loop, so no locks are needed on the maps.
type Hub struct {
	clients map[string]map[*Client]bool // wheelID -> subscribers

	register   chan *Client
	unregister chan *Client
	events     chan broadcast
}

// NewHub creates a hub. Call Run in its own goroutine before use.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan broadcast, 64),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.wheelID] == nil {
				h.clients[client.wheelID] = make(map[*Client]bool)
			}
			h.clients[client.wheelID][client] = true
			slog.Debug("realtime: client subscribed", "wheelId", client.wheelID, "clientId", client.id)

		case client := <-h.unregister:
			if subs := h.clients[client.wheelID]; subs != nil {
				if subs[client] {
					delete(subs, client)
					close(client.outgoing)
					if len(subs) == 0 {
						delete(h.clients, client.wheelID)
					}
				}
			}

		case msg := <-h.events:
			subs := h.clients[msg.wheelID]
			for client := range subs {
				select {
				case client.outgoing <- msg.data:
				default:
					// Slow consumer; drop it rather than blocking the hub.
					delete(subs, client)
					close(client.outgoing)
				}
			}
			if len(subs) == 0 {
				delete(h.clients, msg.wheelID)
			}
		}
	}
}

// Publish sends an event to every subscriber of a wheel.
func (h *Hub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("realtime: failed to marshal event", "error", err, "type", event.Type)
		return
	}
	h.events <- broadcast{wheelID: event.WheelID, data: data}
}

// PublishSpinStarted implements services.SpinPublisher
func (h *Hub) PublishSpinStarted(wheelID string, outcome models.SpinOutcome) {
	h.Publish(Event{Type: EventSpinStarted, WheelID: wheelID, Payload: outcome})
}

// PublishWheelUpdated implements services.SpinPublisher
func (h *Hub) PublishWheelUpdated(wheelID string) {
	h.Publish(Event{Type: EventWheelUpdated, WheelID: wheelID})
}
