// Package api is the HTTP surface of the gateway: the Ferma-compatible
// endpoints, the admin panel API and the operational endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ecomkassa/ferma-gateway/internal/atol"
	"github.com/ecomkassa/ferma-gateway/internal/auditlog"
	"github.com/ecomkassa/ferma-gateway/internal/config"
	"github.com/ecomkassa/ferma-gateway/internal/metrics"
	"github.com/ecomkassa/ferma-gateway/internal/session"
)

const maxBodySize = 1 << 20

type contextKey string

const requestIDKey contextKey = "request_id"

// Server wires the gateway collaborators behind the HTTP routes.
type Server struct {
	cfg      *config.Config
	upstream *atol.Client
	audit    *auditlog.Store
	sessions *session.Store
	metrics  *metrics.Registry
}

// NewServer assembles the server from its collaborators.
func NewServer(cfg *config.Config, upstream *atol.Client, audit *auditlog.Store, sessions *session.Store, m *metrics.Registry) *Server {
	return &Server{
		cfg:      cfg,
		upstream: upstream,
		audit:    audit,
		sessions: sessions,
		metrics:  m,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders)

	// Ferma-compatible surface.
	r.Post("/api/Authorization/CreateAuthToken", s.handleAuth)
	r.Post("/api/kkt/cloud/receipt", s.handleReceipt)
	r.Get("/api/kkt/cloud/status", s.handleStatus)
	r.Post("/api/kkt/cloud/status", s.handleStatus)

	// Admin panel API.
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/api/check", s.handleCheck)
		r.Get("/api/logs", s.handleListLogs)
		r.Get("/api/request-logs", s.handleListLogs)
		r.Get("/api/request-logs/{id}", s.handleGetLog)
		r.Post("/api/request-logs/{id}/replay", s.handleReplay)
		r.Get("/api/stats", s.handleStats)
	})

	// Operational endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Admin SPA.
	r.NotFound(s.serveStatic)

	return r
}

// requestID tags every request with a fresh id, echoed in the response
// header and carried in the context for audit records.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// serveStatic serves the admin SPA. Unknown non-API paths fall back to
// index.html so client-side routing works.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	path := filepath.Join(s.cfg.StaticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.StaticDir, "index.html"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": s.cfg.Environment,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
