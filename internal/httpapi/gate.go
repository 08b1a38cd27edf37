package httpapi

import (
	"context"
	"net/http"

	"github.com/skbidisigma1/backpackpi/internal/roles"
	"github.com/skbidisigma1/backpackpi/internal/session"
)

// Identity is the authenticated caller attached to admitted requests.
type Identity struct {
	Username string
	Role     roles.Role
}

type ctxKey int

const identityKey ctxKey = 0

// IdentityFrom returns the caller identity set by the role gate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// resolveIdentity maps the session cookie to a username and role. A
// missing, invalid, or expired session reports ok=false; storage
// failures are returned so callers can answer 500 instead of 401.
func (s *Server) resolveIdentity(r *http.Request) (Identity, bool, error) {
	value, ok := session.ReadCookie(r)
	if !ok {
		return Identity{}, false, nil
	}
	username, ok, err := s.Sessions.Validate(r.Context(), value)
	if err != nil || !ok {
		return Identity{}, false, err
	}
	role, err := s.Roles.Get(r.Context(), username)
	if err != nil {
		return Identity{}, false, err
	}
	return Identity{Username: username, Role: role}, true, nil
}

// withRole admits a request only when the session's role is at least
// min. Admitted requests carry the identity in their context.
func (s *Server) withRole(min roles.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok, err := s.resolveIdentity(r)
		if err != nil {
			s.Logger.Error("identity resolution failed", "error", err)
			writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, codeAuthRequired, "Authentication required")
			return
		}
		if !id.Role.Allows(min) {
			// Disclosing both roles is deliberate; this is a trusted-LAN
			// admin tool and the detail aids debugging.
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":    "Insufficient permission",
				"code":     codeForbidden,
				"required": min,
				"current":  id.Role,
			})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	}
}
