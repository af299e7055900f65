// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is pushed to dashboard clients watching a store's refill queue.
type Event struct {
	Type      string `json:"type"` // refill.submitted, refill.printed, refill.retry
	RequestID string `json:"request_id"`
	StoreID   string `json:"store_id"`
	Status    string `json:"status"`
}

type client struct {
	conn    *websocket.Conn
	storeID string
	// gorilla/websocket allows only one concurrent writer per connection.
	mu sync.Mutex
}

// Hub tracks all connected WebSocket clients and which store each one
// watches.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register adds a client watching the given store.
func (h *Hub) Register(connID, storeID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[connID] = &client{conn: conn, storeID: storeID}
	log.Printf("WebSocket client registered: %s (store %s)", connID, storeID)
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		log.Printf("WebSocket client unregistered: %s", connID)
	}
}

// Broadcast sends an event to every client watching the event's store.
// Delivery is best effort; a failed write only drops that client's message.
func (h *Hub) Broadcast(ev Event) {
	message, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Could not marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, c := range h.clients {
		if c.storeID != ev.StoreID {
			continue
		}
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, message)
		c.mu.Unlock()
		if err != nil {
			log.Printf("WebSocket write to %s failed: %v", connID, err)
		}
	}
}
