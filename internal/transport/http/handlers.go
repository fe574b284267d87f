package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"codeamongus/internal/app"
	"codeamongus/internal/domain"
)

// qrSize is the edge length of invite QR codes in pixels
const qrSize = 320

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	InviteLink string `json:"inviteLink"`
	QRCode     string `json:"qrCode"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode    string            `json:"roomCode"`
	PlayerCount int               `json:"playerCount"`
	Status      domain.GameStatus `json:"status"`
	CanJoin     bool              `json:"canJoin"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveGames  int `json:"activeGames"`
	TotalPlayers int `json:"totalPlayers"`
}

// TaskInfo describes a task station for clients
type TaskInfo struct {
	ID              string            `json:"id"`
	X               float64           `json:"x"`
	Y               float64           `json:"y"`
	Question        string            `json:"question"`
	Description     string            `json:"description"`
	BoilerplateCode string            `json:"boilerplateCode"`
	HintComment     string            `json:"hintComment,omitempty"`
	TestCases       []domain.TestCase `json:"testCases"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, err := s.hub.CreateGame()
	if err != nil {
		s.logger.Error("failed to create room", "error", err)
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	roomCode := session.GetRoomCode()
	s.writeJSON(w, http.StatusCreated, &Response{
		Success: true,
		Data: &CreateRoomResponse{
			RoomCode:   roomCode,
			InviteLink: s.inviteLink(r, roomCode),
			QRCode:     "/api/rooms/" + roomCode + "/qr",
		},
	})
}

// handleGetRoom handles GET /api/rooms/:roomCode
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := s.lookupRoom(w, ps)
	if !ok {
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:    session.GetRoomCode(),
		PlayerCount: session.GetPlayerCount(),
		Status:      session.GetStatus(),
		CanJoin:     session.CanJoin(),
	})
}

// handleRoomExists handles GET /api/rooms/:roomCode/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	_, err := s.hub.GetSession(normalizeRoomCode(ps.ByName("roomCode")))

	s.sendSuccess(w, &RoomExistsResponse{
		Exists: err == nil,
	})
}

// handleRoomQR handles GET /api/rooms/:roomCode/qr with a PNG of the invite link
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := s.lookupRoom(w, ps)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(r, session.GetRoomCode()), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "roomCode", session.GetRoomCode(), "error", err)
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleTasks handles GET /api/tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tasks := app.DefaultTasks()
	infos := make([]TaskInfo, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, TaskInfo{
			ID:              t.ID,
			X:               t.X,
			Y:               t.Y,
			Question:        t.Question,
			Description:     t.Description,
			BoilerplateCode: t.BoilerplateCode,
			HintComment:     t.HintComment,
			TestCases:       t.TestCases,
		})
	}
	s.sendSuccess(w, infos)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.sendSuccess(w, &StatsResponse{
		ActiveGames:  s.hub.GetSessionCount(),
		TotalPlayers: s.hub.GetTotalPlayerCount(),
	})
}

// handleSPA serves the single-page application for every unmatched page
// route (e.g. /join/ABC123). Unknown API paths get a JSON 404.
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
		return
	}

	file, err := s.webFS.Open("index.html")
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", stat.ModTime(), seeker)
}

// lookupRoom resolves the :roomCode parameter, writing an error response
// when the room does not exist
func (s *Server) lookupRoom(w http.ResponseWriter, ps httprouter.Params) (*app.GameSession, bool) {
	roomCode := normalizeRoomCode(ps.ByName("roomCode"))
	if roomCode == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	session, err := s.hub.GetSession(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}
	return session, true
}

// inviteLink builds the join URL for a room, preferring the configured
// public URL over the request's host
func (s *Server) inviteLink(r *http.Request, roomCode string) string {
	base := s.config.Server.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + roomCode
}

func normalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	s.writeJSON(w, http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}
