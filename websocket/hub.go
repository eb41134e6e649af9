package websocket

import (
	"sync"

	"lifeline/models"

	"github.com/sirupsen/logrus"
)

// Hub fans core events (state changes, log entries, dispatch outcomes, live
// locations, haptic feedback) out to connected presentation clients. It
// implements services.Broadcaster.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan models.WSMessage

	mutex sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.WSMessage, 64),
	}
}

// Run processes register/unregister/broadcast events. Start it once in a
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logrus.Infof("WebSocket client connected (%d active)", h.ClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			logrus.Infof("WebSocket client disconnected (%d active)", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop the message rather than
					// block the core.
					logrus.Warn("WebSocket send buffer full, dropping message")
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Broadcast queues a message for every connected client. Never blocks the
// caller.
func (h *Hub) Broadcast(message models.WSMessage) {
	select {
	case h.broadcast <- message:
	default:
		logrus.Warn("WebSocket broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
