package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"realtime-service/internal/models"
	"realtime-service/internal/observability"
	"realtime-service/internal/store"
)

// Hub maintains the active websocket clients keyed by connection id and
// delivers server events to them. Paired with the session registry it is the
// service-layer Emitter: ToUser resolves the user's live connection first and
// reports the unreachable branch to the caller.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	sessions store.SessionRegistry
}

// NewHub creates an empty hub over the given registry.
func NewHub(sessions store.SessionRegistry) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		sessions: sessions,
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.info.ConnID] = client
}

func (h *Hub) remove(connID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[connID]
	if !ok {
		return nil
	}
	delete(h.clients, connID)
	return client
}

func (h *Hub) get(connID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[connID]
	return client, ok
}

// ToConn sends an event to one connection. Unknown connections are ignored:
// the peer disconnected between resolve and send.
func (h *Hub) ToConn(connID string, event models.ServerEvent) {
	client, ok := h.get(connID)
	if !ok {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal server event", "event", event.Type, "error", err)
		return
	}
	observability.IncFanout(event.Type)
	client.enqueue(payload)
}

// ToUser sends an event to the user's live connection, reporting false when
// the user has none.
func (h *Hub) ToUser(userID string, event models.ServerEvent) bool {
	connID, ok := h.sessions.ResolveConnection(userID)
	if !ok {
		observability.IncUnreachable()
		return false
	}
	h.ToConn(connID, event)
	return true
}
