package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message tells clients that something changed. Clients re-fetch on receipt;
// the payload only says what to re-fetch.
type Message struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	ChartID string `json:"chartId,omitempty"`
	ID      string `json:"id,omitempty"`

	// Owner is the chart's owning user, "" for anonymous charts. It scopes
	// delivery and is never sent.
	Owner string `json:"-"`
}

// NewMessage builds a Message for a change to entity id within chartID.
// Type is "<entity>_<action>".
func NewMessage(entity, action, chartID, id string) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		ChartID: chartID,
		ID:      id,
	}
}

// Hub tracks connected clients and fans out change notifications. A client
// watching a chart only hears about that chart. A signed-in client watching
// "" hears about every chart it owns. Owned charts never reach other users.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", "chart_id", c.chartID)
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues msg for every interested client. Slow clients with a full
// buffer miss the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for c := range h.clients {
		if !c.wants(msg) {
			continue
		}
		select {
		case c.send <- data:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("broadcast dropped", "type", msg.Type, "clients", dropped)
	}
}

func (c *Client) wants(msg Message) bool {
	if msg.Owner != "" && msg.Owner != c.userID {
		return false
	}
	if c.chartID == "" {
		return c.userID != "" && msg.Owner == c.userID
	}
	return c.chartID == msg.ChartID
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
