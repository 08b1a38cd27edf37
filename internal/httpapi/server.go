// Package httpapi exposes the JSON API: login and session routes, role
// administration, and the sandboxed file operations. Every route except
// login, status, and version passes through the role gate.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/skbidisigma1/backpackpi/internal/auth"
	"github.com/skbidisigma1/backpackpi/internal/files"
	"github.com/skbidisigma1/backpackpi/internal/roles"
	"github.com/skbidisigma1/backpackpi/internal/session"
)

// Server carries the wired components behind the HTTP surface.
type Server struct {
	Logger   *slog.Logger
	Roles    *roles.Store
	Sessions *session.Manager
	Files    *files.Service
	Verifier *auth.Verifier
	Limiter  *auth.LoginLimiter

	BindAddr      string
	Port          int
	SecureCookies bool
	Version       string
}

// Handler builds the full route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/status", s.handleStatus)
	mux.HandleFunc("GET /api/auth/users", s.withRole(roles.Sudo, s.handleListUsers))
	mux.HandleFunc("POST /api/auth/users/{username}/role", s.withRole(roles.Sudo, s.handleSetRole))

	mux.HandleFunc("GET /api/files", s.withRole(roles.Viewer, s.handleList))
	mux.HandleFunc("GET /api/files/download", s.withRole(roles.Viewer, s.handleDownload))
	mux.HandleFunc("POST /api/files/mkdir", s.withRole(roles.Viewer, s.handleMkdir))
	mux.HandleFunc("POST /api/files/rename", s.withRole(roles.Viewer, s.handleRename))
	mux.HandleFunc("DELETE /api/files", s.withRole(roles.Viewer, s.handleDelete))
	mux.HandleFunc("GET /api/files/content", s.withRole(roles.Viewer, s.handleReadContent))
	mux.HandleFunc("POST /api/files/write", s.withRole(roles.Viewer, s.handleWriteContent))

	mux.HandleFunc("GET /api/health", s.withRole(roles.Viewer, s.handleHealth))
	mux.HandleFunc("GET /api/version", s.handleVersion)

	// Unknown API paths get a JSON 404 rather than the text default.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "Not found")
	})

	var h http.Handler = mux
	h = s.withRequestLog(h)
	h = withCORS(h)
	h = withSecurityHeaders(h)
	h = s.withRecover(h)
	return h
}

// ListenAndServe runs the API until the server is shut down.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.BindAddr + ":" + strconv.Itoa(s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

// NewHTTPServer returns a configured http.Server so the daemon can
// control shutdown.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.BindAddr + ":" + strconv.Itoa(s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now().Unix()})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":  s.Version,
		"time":     time.Now().Unix(),
		"fileRoot": s.Files.Root(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		w.Header().Set("x-frame-options", "DENY")
		w.Header().Set("referrer-policy", "no-referrer")
		if r.TLS != nil {
			w.Header().Set("strict-transport-security", "max-age=31536000")
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS reflects the request origin. The dashboard is a trusted-LAN
// tool; the role gate, not the origin, is the security boundary.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("origin"); origin != "" {
			w.Header().Set("access-control-allow-origin", origin)
			w.Header().Set("access-control-allow-credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("access-control-allow-methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("access-control-allow-headers", "content-type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
