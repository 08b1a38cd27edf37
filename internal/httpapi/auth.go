package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skbidisigma1/backpackpi/internal/auth"
	"github.com/skbidisigma1/backpackpi/internal/roles"
	"github.com/skbidisigma1/backpackpi/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Username and password are required")
		return
	}

	allowed, retryAfter := s.Limiter.Consume(username)
	if !allowed {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      "Too many login attempts",
			"code":       codeRateLimited,
			"retryAfter": int(retryAfter.Seconds()),
		})
		return
	}

	ok, err := s.Verifier.Verify(r.Context(), username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrProviderUnavailable) {
			writeError(w, http.StatusServiceUnavailable, codeAuthUnavailable, "Authentication provider unavailable")
			return
		}
		s.Logger.Error("credential verification failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	if !ok {
		// Never distinguish unknown user from wrong password.
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "Invalid credentials")
		return
	}

	// Best effort; a stuck counter must not block a valid login.
	s.Limiter.Reset(username)

	value, err := s.Sessions.Create(r.Context(), username)
	if err != nil {
		s.Logger.Error("session creation failed", "error", err, "username", username)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	role, err := s.Roles.Get(r.Context(), username)
	if err != nil {
		s.Logger.Error("role lookup failed", "error", err, "username", username)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}

	s.Sessions.SetCookie(w, value, s.SecureCookies)
	s.Logger.Info("login", "username", username, "role", role)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": username,
		"role":     role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	value, ok := session.ReadCookie(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "Authentication required")
		return
	}
	_, valid, err := s.Sessions.Validate(r.Context(), value)
	if err != nil {
		s.Logger.Error("logout validation failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	if !valid {
		writeError(w, http.StatusUnauthorized, codeAuthRequired, "Authentication required")
		return
	}
	if err := s.Sessions.Destroy(r.Context(), value); err != nil {
		s.Logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	s.Sessions.ClearCookie(w, s.SecureCookies)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok, err := s.resolveIdentity(r)
	if err != nil {
		s.Logger.Error("identity resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      id.Username,
		"role":          id.Role,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Roles.List(r.Context())
	if err != nil {
		s.Logger.Error("role listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("username")
	if target == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Username is required")
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON")
		return
	}
	role, err := roles.Parse(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRole, "Invalid role")
		return
	}

	caller, _ := IdentityFrom(r.Context())
	if target == caller.Username && role.Index() < caller.Role.Index() {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Cannot demote your own account")
		return
	}

	if err := s.Roles.Set(r.Context(), target, role); err != nil {
		writeServiceError(w, err)
		return
	}
	s.Logger.Info("role updated", "username", target, "role", role, "by", caller.Username)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": target,
		"role":     role,
	})
}
