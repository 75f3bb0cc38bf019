// ABOUTME: HTTP API for storegate login, logout and session introspection
// ABOUTME: Thin layer translating core results into status codes and JSON

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/2389/storegate/internal/auth"
	"github.com/2389/storegate/internal/config"
	"github.com/2389/storegate/internal/store"
)

// Server exposes the credential and session core over HTTP.
type Server struct {
	creds    *auth.CredentialService
	sessions *auth.SessionService
	audit    store.AuditStore
	metrics  *Metrics
	logger   *slog.Logger
}

// New wires a Server. metrics may be nil when the endpoint is disabled.
func New(creds *auth.CredentialService, sessions *auth.SessionService, audit store.AuditStore, metrics *Metrics) *Server {
	return &Server{
		creds:    creds,
		sessions: sessions,
		audit:    audit,
		metrics:  metrics,
		logger:   slog.Default().With("component", "server"),
	}
}

// Routes builds the router. The login route is the only unauthenticated
// API endpoint; everything else under /api requires a live session.
func (s *Server) Routes(metricsCfg config.MetricsConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if metricsCfg.Enabled && s.metrics != nil {
		path := metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, s.metrics.Handler())
	}

	r.Post("/api/store/{storeID}/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(s.sessions))
		r.Post("/api/logout", s.handleLogout)
		r.Get("/api/session", s.handleSession)
		r.Get("/api/store/{storeID}/audit", s.handleAudit)
	})

	return r
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	StoreID   string `json:"store_id"`
	ExpiresAt string `json:"expires_at"`
}

// handleLogin verifies the store secret and issues a session. The 401
// body is identical for an unknown store and a wrong password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := s.creds.Verify(r.Context(), storeID, req.Password)
	if err != nil {
		s.logger.Error("verify failed", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordLoginAttempt(ok)
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid store or password")
		return
	}

	sess, err := s.sessions.Issue(r.Context(), storeID, 0)
	if err != nil {
		s.logger.Error("issue failed", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "session creation failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordSessionIssued()
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		StoreID:   sess.StoreID,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// handleLogout revokes the presented session. Always 204; revoking a
// session that just expired is not an error.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromContext(r.Context())
	if err := s.sessions.Revoke(r.Context(), token); err != nil {
		s.logger.Error("revoke failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports which store the presented token belongs to.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	storeID, _ := auth.StoreFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"store_id": storeID})
}

type auditEntryResponse struct {
	ID        int64   `json:"id"`
	StoreID   string  `json:"store_id"`
	Action    string  `json:"action"`
	Timestamp string  `json:"timestamp"`
	Details   *string `json:"details,omitempty"`
}

// handleAudit returns the audit trail for the authenticated store. A
// session for store A cannot read store B's trail.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	pathStore := chi.URLParam(r, "storeID")
	authStore, _ := auth.StoreFromContext(r.Context())
	if pathStore != authStore {
		writeError(w, http.StatusForbidden, "not authorized for this store")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.audit.ListAudit(r.Context(), store.AuditFilter{StoreID: &pathStore, Limit: limit})
	if err != nil {
		s.logger.Error("audit query failed", "store_id", pathStore, "error", err)
		writeError(w, http.StatusInternalServerError, "audit query failed")
		return
	}

	resp := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, auditEntryResponse{
			ID:        e.ID,
			StoreID:   e.StoreID,
			Action:    string(e.Action),
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Details:   e.Details,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs each request with a generated request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"request_id", uuid.New().String(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
