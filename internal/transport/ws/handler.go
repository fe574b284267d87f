package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"codeamongus/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.GameHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.GameHub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Rooms are public; any origin may connect
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Get room code from query params
	roomCode := strings.ToUpper(r.URL.Query().Get("roomCode"))
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	// Get the game session
	session, err := h.hub.GetSession(roomCode)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	// A known playerId resumes that player; anything else is a new player
	playerID := r.URL.Query().Get("playerId")
	isReconnect := false
	if playerID != "" {
		_, err := session.ReconnectPlayer(playerID)
		isReconnect = err == nil
		if !isReconnect {
			h.logger.Debug("reconnect failed, treating as new", "playerID", playerID, "error", err)
		}
	}
	if !isReconnect {
		if _, err := uuid.Parse(playerID); err != nil {
			playerID = uuid.New().String()
		}
		if !session.CanJoin() {
			http.Error(w, "Cannot join this game", http.StatusForbidden)
			return
		}
	}

	// Upgrade connection to WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	// Create client
	client := NewClient(conn, session, playerID, h.logger)

	// Register client with session
	session.RegisterClient(playerID, client)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"playerID", playerID,
		"isReconnect", isReconnect,
	)

	// Send current game state to returning players
	if isReconnect {
		client.sendConnected()
	}

	// Start the client
	client.Run()
}
