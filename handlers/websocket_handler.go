package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub          *ladder.Hub
	matchService services.MatchService
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any.
func NewWebSocketHandler(hub *ladder.Hub, ms services.MatchService, allowedOrigins []string) *WebSocketHandler {
	anyOrigin := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:          hub,
		matchService: ms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs подключает зрителя к комнате матча /ws/matches/{id}.
// Первым сообщением клиент получает текущее состояние матча.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	view, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	initial, err := json.Marshal(ladder.WebSocketMessage{
		Type:    ladder.MessageMatchUpdated,
		Payload: view,
		RoomID:  ladder.MatchRoom(matchID),
	})
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		slog.WarnContext(r.Context(), "websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}

	client := &ladder.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: ladder.MatchRoom(matchID),
	}
	client.Send <- initial

	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
