package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Publisher broadcasts server-side events to connected browser clients.
// Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(event string, data any)
}

// envelope is the wire format pushed to browsers.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Hub fans events out to every connected client. There is no server-side
// filtering: clients receive all events and select what they render.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Publish sends {event, data} to every connected client. A client whose send
// buffer is full is disconnected rather than allowed to stall the hub.
func (h *Hub) Publish(event string, data any) {
	msg, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		h.log.Error("realtime marshal failed", "event", event, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("realtime client too slow, dropping", "event", event)
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount reports how many clients are currently registered.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// NopPublisher discards every event. Used where no hub is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}
