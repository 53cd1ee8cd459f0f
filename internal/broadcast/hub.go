package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

// streamMessage is the envelope pushed to stream subscribers.
type streamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans processed posts out to WebSocket subscribers. Clients that
// cannot drain their send buffer are evicted rather than slowing the
// pipeline down.
type Hub struct {
	clock clockwork.Clock

	mu      sync.Mutex
	clients map[*websocket.Conn]*clientWriter
	closed  bool
}

func NewHub(clock clockwork.Clock) *Hub {
	return &Hub{
		clock:   clock,
		clients: make(map[*websocket.Conn]*clientWriter),
	}
}

// Register starts a writer for the connection and adds it to the fan-out
// set. Returns false after Close.
func (h *Hub) Register(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[conn] = newClientWriter(conn, h.clock)
	metrics.StreamClientsCurrent.Set(float64(len(h.clients)))
	return true
}

// Unregister removes the connection and stops its writer.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	cw, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		metrics.StreamClientsCurrent.Set(float64(len(h.clients)))
	}
	h.mu.Unlock()

	if ok {
		cw.stop()
	}
}

// Publish fans one processed post out to every subscriber.
func (h *Hub) Publish(post *domain.Post) {
	h.broadcast(streamMessage{Type: "post", Data: post})
}

// PublishAlert fans one unusual-activity alert out to every subscriber.
func (h *Hub) PublishAlert(alert domain.Alert) {
	h.broadcast(streamMessage{Type: "alert", Data: alert})
}

func (h *Hub) broadcast(msg streamMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to encode stream message", "error", err)
		return
	}

	var evicted []*clientWriter

	h.mu.Lock()
	for conn, cw := range h.clients {
		if cw.trySend(payload) {
			metrics.StreamMessagesTotal.Inc()
			continue
		}
		delete(h.clients, conn)
		evicted = append(evicted, cw)
	}
	if len(evicted) > 0 {
		metrics.StreamClientsCurrent.Set(float64(len(h.clients)))
		metrics.StreamSlowClientsEvicted.Add(float64(len(evicted)))
	}
	h.mu.Unlock()

	for _, cw := range evicted {
		cw.stop()
	}
	if len(evicted) > 0 {
		slog.Warn("Evicted slow stream clients", "count", len(evicted))
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops all writers and rejects further registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	writers := make([]*clientWriter, 0, len(h.clients))
	for _, cw := range h.clients {
		writers = append(writers, cw)
	}
	h.clients = make(map[*websocket.Conn]*clientWriter)
	metrics.StreamClientsCurrent.Set(0)
	h.mu.Unlock()

	for _, cw := range writers {
		cw.stop()
	}
}
