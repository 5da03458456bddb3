package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one history mutation pushed to connected clients.
type Event struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type WSClient struct {
	Conn *websocket.Conn
}

// EventHub broadcasts history events to every connected session. A nil hub is
// safe to publish to, so services can run without one.
type EventHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*WSClient]struct{})}
}

func (h *EventHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *EventHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *EventHub) Publish(ev Event) {
	if h == nil {
		return
	}
	msg, _ := json.Marshal(ev)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
