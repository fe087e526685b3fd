// Package http exposes the session and dashboard operations as a small JSON
// API.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gofinances/internal/services"
	"gofinances/internal/session"
)

type Server struct {
	http.Server
	sessions  *session.Manager
	dashboard *services.DashboardService
}

// NewServer configures routes and timeouts, returning a ready-to-run server.
func NewServer(addr string, sessions *session.Manager, dashboard *services.DashboardService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sessions:  sessions,
		dashboard: dashboard,
	}

	mux.HandleFunc("/healthz", s.withLogging(s.handleHealth))
	mux.HandleFunc("/session", s.withLogging(s.handleSession))
	mux.HandleFunc("/session/sign-in", s.withLogging(s.handleSignIn))
	mux.HandleFunc("/session/sign-out", s.withLogging(s.handleSignOut))
	mux.HandleFunc("/dashboard", s.withLogging(s.handleDashboard))

	return s
}

// withLogging wraps a handler with request start/completion logging.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := r.Context()

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter captures the status code for the completion log line.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
