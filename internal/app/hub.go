package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"codeamongus/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleGameTimeout is how long before an inactive game is cleaned up
	StaleGameTimeout = 2 * time.Hour

	cleanupInterval = 10 * time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubConfig holds the settings every new room is created with
type HubConfig struct {
	Settings       domain.GameSettings
	RoomCodeLength int
	StaleTimeout   time.Duration
}

// GameHub manages all active game sessions
type GameHub struct {
	rooms     roomStore
	createMu  sync.Mutex
	cfg       HubConfig
	validator SolutionValidator
	logger    *slog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewGameHub creates a new game hub
func NewGameHub(cfg HubConfig, validator SolutionValidator, logger *slog.Logger) *GameHub {
	if cfg.RoomCodeLength <= 0 {
		cfg.RoomCodeLength = DefaultRoomCodeLength
	}
	if cfg.StaleTimeout <= 0 {
		cfg.StaleTimeout = StaleGameTimeout
	}

	hub := &GameHub{
		rooms:     newRoomStore(),
		cfg:       cfg,
		validator: validator,
		logger:    logger,
		done:      make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// Settings returns the settings new rooms are created with
func (h *GameHub) Settings() domain.GameSettings {
	return h.cfg.Settings
}

// CreateGame creates a new game and returns its session
func (h *GameHub) CreateGame() (*GameSession, error) {
	h.createMu.Lock()
	defer h.createMu.Unlock()

	// Generate unique room code
	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		candidate, err := h.generateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		if _, exists := h.rooms.get(candidate); !exists {
			roomCode = candidate
			break
		}
	}

	if roomCode == "" {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	session := NewGameSession(roomCode, h.cfg.Settings, h.validator, h.logger)
	h.rooms.set(roomCode, session)

	h.logger.Info("game created", "roomCode", roomCode)

	return session, nil
}

// GetSession returns a game session by room code
func (h *GameHub) GetSession(roomCode string) (*GameSession, error) {
	session, ok := h.rooms.get(roomCode)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session, nil
}

// DeleteSession removes a game session
func (h *GameHub) DeleteSession(roomCode string) {
	if session, ok := h.rooms.get(roomCode); ok {
		h.rooms.del(roomCode)
		session.Close()
		h.logger.Info("game deleted", "roomCode", roomCode)
	}
}

// GetSessionCount returns the number of active sessions
func (h *GameHub) GetSessionCount() int {
	return len(h.rooms.list())
}

// GetTotalPlayerCount returns the total number of players across all sessions
func (h *GameHub) GetTotalPlayerCount() int {
	total := 0
	h.rooms.each(func(session *GameSession) {
		total += session.GetPlayerCount()
	})
	return total
}

// Close shuts down the hub and all sessions
func (h *GameHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	for _, session := range h.rooms.list() {
		h.rooms.del(session.GetRoomCode())
		session.Close()
	}
}

// generateRoomCode generates a random room code
func (h *GameHub) generateRoomCode() (string, error) {
	b := make([]byte, h.cfg.RoomCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	code := make([]byte, h.cfg.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code), nil
}

// cleanupLoop periodically cleans up stale games
func (h *GameHub) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleGames(time.Now())
		}
	}
}

// cleanupStaleGames removes games that are empty or finished and older
// than the stale timeout
func (h *GameHub) cleanupStaleGames(now time.Time) int {
	removed := 0
	for _, session := range h.rooms.list() {
		if now.Sub(session.GetCreatedAt()) <= h.cfg.StaleTimeout {
			continue
		}
		if session.GetPlayerCount() > 0 && session.GetStatus() != domain.StatusCompleted {
			continue
		}

		roomCode := session.GetRoomCode()
		h.rooms.del(roomCode)
		session.Close()
		removed++
		h.logger.Info("stale game cleaned up", "roomCode", roomCode)
	}
	return removed
}
