package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// ClientMessageHandler handles incoming WebSocket messages from console clients.
type ClientMessageHandler interface {
	HandleRefresh(sessionID string) error
}

// Event represents a WebSocket event sent to console clients.
type Event struct {
	Type string      `json:"type"` // "active_year", "session_closed"
	Data interface{} `json:"data"`
}

type envelope struct {
	sessionID string
	event     *Event
}

// Hub keeps WebSocket clients grouped by session and delivers events to
// every connection of one session.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	handler    ClientMessageHandler
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

func (h *Hub) SetHandler(handler ClientMessageHandler) {
	h.handler = handler
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.sessionID != msg.sessionID {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients returns the number of connections open for a session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.sessionID == sessionID {
			n++
		}
	}
	return n
}

// Publish queues an event for every connection of the session.
func (h *Hub) Publish(sessionID, eventType string, data interface{}) {
	h.broadcast <- envelope{
		sessionID: sessionID,
		event:     &Event{Type: eventType, Data: data},
	}
}

// clientEvent represents an incoming WebSocket message from a client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming message from a client.
func (h *Hub) HandleClientMessage(sessionID string, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		if h.log != nil {
			h.log.Warn("failed to parse client ws message", slog.String("error", err.Error()))
		}
		return
	}

	switch event.Type {
	case "refresh_active_year":
		if err := h.handler.HandleRefresh(sessionID); err != nil {
			if h.log != nil {
				h.log.Error("failed to handle refresh",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
