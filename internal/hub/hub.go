package hub

import (
	"encoding/json"
	"sync"
)

// Client represents a single live session. It's essentially a channel that
// the websocket handler will listen to.
type Client chan []byte

// Hub fans live notifications out to every session subscribed to a user's
// topic. Delivery is best-effort and at-most-once: a full client channel is
// skipped, and reconnecting clients reconcile via the durable notification
// log.
type Hub struct {
	topics map[uint]map[Client]bool
	mu     sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a user's topic.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[userID]; !ok {
		h.topics[userID] = make(map[Client]bool)
	}
	h.topics[userID][client] = true
}

// Unsubscribe removes a client from a user's topic and closes its channel
// to signal the connection handler to stop.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.topics, userID)
			}
		}
	}
}

// Broadcast sends a payload to all sessions on a user's topic.
func (h *Hub) Broadcast(userID uint, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.topics[userID]
	if !ok {
		return nil
	}

	messageBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for client := range clients {
		// Non-blocking send so a slow client cannot block the hub.
		select {
		case client <- messageBytes:
		default:
			// Channel full; the client is slow or gone. Unsubscribe
			// cleans this up when the connection handler exits.
		}
	}
	return nil
}
