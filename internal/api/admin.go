package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecomkassa/ferma-gateway/internal/auditlog"
)

const sessionCookie = "gateway_session"

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// handleLogin implements POST /api/login for the admin panel.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if !credentialsMatch(req.Login, req.Password, s.cfg.AdminLogin, s.cfg.AdminPassword) {
		slog.Warn("admin login rejected", "login", req.Login, "source_ip", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := s.sessions.Create(req.Login)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "login": req.Login})
}

// handleLogout implements POST /api/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(c.Value); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
}

// handleCheck reports whether the current session is valid.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	login, _ := r.Context().Value(sessionLoginKey).(string)
	writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "login": login})
}

const sessionLoginKey contextKey = "session_login"

func contextWithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, sessionLoginKey, login)
}

// requireSession guards the admin API behind a valid session cookie.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		ok, login, err := s.sessions.Validate(c.Value)
		if err != nil {
			slog.Error("failed to validate session", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session error"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(contextWithLogin(ctx, login)))
	})
}

// handleListLogs implements GET /api/request-logs (and its /api/logs alias).
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := auditlog.Filter{
		Operation: q.Get("operation"),
		Path:      q.Get("path"),
	}
	if v, err := strconv.Atoi(q.Get("status")); err == nil {
		filter.Status = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = v
	}

	entries, err := s.audit.List(filter)
	if err != nil {
		slog.Error("failed to list logs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list logs"})
		return
	}
	if entries == nil {
		entries = []auditlog.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": entries, "count": len(entries)})
}

// handleGetLog implements GET /api/request-logs/{id}.
func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log id"})
		return
	}

	entry, err := s.audit.Get(id)
	if err != nil {
		if errors.Is(err, auditlog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "log entry not found"})
			return
		}
		slog.Error("failed to load log entry", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load log entry"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleReplay re-issues the outbound call of a logged entry verbatim and
// returns the fresh upstream answer. The inbound caller is not involved.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid log id"})
		return
	}

	entry, err := s.audit.Get(id)
	if err != nil {
		if errors.Is(err, auditlog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "log entry not found"})
			return
		}
		slog.Error("failed to load log entry", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load log entry"})
		return
	}
	if entry.TargetURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "entry has no outbound call to replay"})
		return
	}
	if entry.Operation == "auth" {
		// Stored auth bodies are masked, a replay would send garbage.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "auth calls cannot be replayed"})
		return
	}

	method := http.MethodPost
	if entry.Operation == "status" {
		method = http.MethodGet
	}

	resp, err := s.upstream.Replay(r.Context(), method, entry.TargetURL, []byte(entry.TargetBody))
	if err != nil {
		slog.Error("replay failed", "error", err, "id", id)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	result := map[string]interface{}{"status": resp.StatusCode}
	var body interface{}
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		result["body"] = body
	} else {
		result["body"] = string(resp.Body)
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStats implements GET /api/stats for the dashboard.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.audit.Aggregate()
	if err != nil {
		slog.Error("failed to aggregate stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to aggregate stats"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func credentialsMatch(login, password, wantLogin, wantPassword string) bool {
	if wantPassword == "" {
		return false
	}
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(wantLogin)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword)) == 1
	return loginOK && passOK
}
