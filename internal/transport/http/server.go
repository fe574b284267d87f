package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"codeamongus/internal/app"
	"codeamongus/internal/config"
	"codeamongus/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *httprouter.Router
	hub    *app.GameHub
	config *config.Config
	logger *slog.Logger
	webFS  fs.FS
}

// NewServer creates a new HTTP server. webFS holds index.html and a
// static/ directory at its root.
func NewServer(cfg *config.Config, hub *app.GameHub, logger *slog.Logger, webFS fs.FS) *Server {
	s := &Server{
		router: httprouter.New(),
		hub:    hub,
		config: cfg,
		logger: logger,
		webFS:  webFS,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.GetAddr(),
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// API routes
	r.POST("/api/rooms", s.handleCreateRoom)
	r.GET("/api/rooms/:roomCode", s.handleGetRoom)
	r.GET("/api/rooms/:roomCode/exists", s.handleRoomExists)
	r.GET("/api/rooms/:roomCode/qr", s.handleRoomQR)
	r.GET("/api/tasks", s.handleTasks)
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/stats", s.handleStats)

	// WebSocket
	r.Handler(http.MethodGet, "/ws", ws.NewHandler(s.hub, s.logger))

	// Static files and SPA
	if static, err := fs.Sub(s.webFS, "static"); err == nil {
		r.ServeFiles("/static/*filepath", http.FS(static))
	} else {
		s.logger.Error("failed to get static subdirectory", "error", err)
	}
	r.NotFound = http.HandlerFunc(s.handleSPA)

	r.PanicHandler = func(w http.ResponseWriter, req *http.Request, v interface{}) {
		s.logger.Error("handler panic", "path", req.URL.Path, "panic", v)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	return s.middleware(s.router)
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Log request (skip static files in production)
		if s.config.IsDevelopment() || !isStaticRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// isStaticRequest checks if the request is for a static file
func isStaticRequest(path string) bool {
	return strings.HasPrefix(path, "/static/")
}
