package ladder

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

type WebSocketMessage struct {
	Type    string      `json:"type"`              // e.g. "MATCH_UPDATED", "MATCH_DELETED"
	Payload interface{} `json:"payload"`           // match view
	RoomID  string      `json:"room_id,omitempty"` // match room
}

const (
	MessageMatchUpdated = "MATCH_UPDATED"
	MessageMatchDeleted = "MATCH_DELETED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// MatchRoom is the hub room spectators of a match join.
func MatchRoom(matchID string) string {
	return "match_" + matchID
}

// Hub fans match snapshots out to read-only spectators grouped by room.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			slog.Debug("spectator joined", "room", client.Room, "clients", len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	roomClients, ok := h.rooms[client.Room]
	if !ok {
		return
	}
	if _, ok := roomClients[client]; !ok {
		return
	}
	client.Mu.Lock()
	if !client.IsClosed {
		close(client.Send)
		client.IsClosed = true
	}
	client.Mu.Unlock()
	delete(roomClients, client)
	if len(roomClients) == 0 {
		delete(h.rooms, client.Room)
		slog.Debug("room closed", "room", client.Room)
	} else {
		slog.Debug("spectator left", "room", client.Room, "clients", len(roomClients))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, roomClients := range h.rooms {
		for client := range roomClients {
			h.removeLocked(client)
		}
	}
}

// Join registers a client unless the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// RoomSize reports how many spectators are connected to a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends a message to every client in the room. Slow clients
// whose buffers are full miss the message.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.Error("failed to marshal room message", "room", roomID, "error", err)
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			slog.Warn("spectator send buffer full, dropping message", "room", roomID)
		}
		client.Mu.Unlock()
	}
}

// ReadPump drains the connection so pongs and close frames are processed.
// Spectators never send commands; anything they send is ignored.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("spectator connection closed unexpectedly", "room", c.Room, "error", err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("failed to write to spectator", "room", c.Room, "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("failed to ping spectator", "room", c.Room, "error", err)
				return
			}
		}
	}
}
