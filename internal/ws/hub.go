package ws

import (
	"encoding/json"
	"sync"
)

// Client is one live feed connection for a recipient. A recipient may hold
// several connections (multiple tabs/devices).
type Client struct {
	RecipientID uint
	Send        chan []byte

	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub tracks live feed connections per recipient and fans created
// notifications out to them. Slow consumers are skipped, never waited on.
type Hub struct {
	mu          sync.RWMutex
	byRecipient map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byRecipient: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byRecipient[c.RecipientID] == nil {
		h.byRecipient[c.RecipientID] = make(map[*Client]struct{})
	}
	h.byRecipient[c.RecipientID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byRecipient[c.RecipientID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byRecipient, c.RecipientID)
		}
	}
}

// BroadcastToRecipient sends a payload to every open connection of one
// recipient. Implements the notification service's FeedPusher.
func (h *Hub) BroadcastToRecipient(recipientID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	m := h.byRecipient[recipientID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byRecipient {
		n += len(m)
	}
	return n
}
