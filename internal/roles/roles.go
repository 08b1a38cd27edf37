// Package roles defines the fixed role hierarchy and the durable
// username→role store. The set is closed: guest < viewer < admin < sudo,
// and every permission check in the system reduces to Allows.
package roles

import (
	"context"
	"errors"

	"github.com/skbidisigma1/backpackpi/internal/db"
)

type Role string

const (
	Guest  Role = "guest"
	Viewer Role = "viewer"
	Admin  Role = "admin"
	Sudo   Role = "sudo"
)

// hierarchy fixes the total permission order. Index position is the
// permission level; a higher index satisfies any lower requirement.
var hierarchy = []Role{Guest, Viewer, Admin, Sudo}

var ErrInvalidRole = errors.New("invalid role")

// All returns the role set in ascending permission order.
func All() []Role {
	out := make([]Role, len(hierarchy))
	copy(out, hierarchy)
	return out
}

// Parse validates a role string against the closed set.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r.Index() >= 0
}

func (r Role) Index() int {
	for i, h := range hierarchy {
		if h == r {
			return i
		}
	}
	return -1
}

// Allows reports whether r satisfies the required role. Unknown roles
// never satisfy anything.
func (r Role) Allows(required Role) bool {
	ri := r.Index()
	return ri >= 0 && ri >= required.Index()
}

// Store reads and writes role assignments. Usernames without a row are
// guests; rows are created lazily on first assignment and never deleted.
type Store struct {
	db *db.DB
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Get returns the role for a username, defaulting to Guest when no
// assignment exists. A stored value outside the closed set (which
// should be impossible) is also treated as Guest.
func (s *Store) Get(ctx context.Context, username string) (Role, error) {
	v, ok, err := s.db.GetUserRole(ctx, username)
	if err != nil {
		return Guest, err
	}
	if !ok {
		return Guest, nil
	}
	r := Role(v)
	if !r.Valid() {
		return Guest, nil
	}
	return r, nil
}

// Set assigns a role, validating it against the closed set first.
func (s *Store) Set(ctx context.Context, username string, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	return s.db.UpsertUserRole(ctx, username, string(role))
}

// List returns every role assignment sorted by username.
func (s *Store) List(ctx context.Context) ([]db.UserRole, error) {
	return s.db.ListUserRoles(ctx)
}

// Allows resolves a username's role and compares it to the requirement.
func (s *Store) Allows(ctx context.Context, username string, required Role) (bool, error) {
	r, err := s.Get(ctx, username)
	if err != nil {
		return false, err
	}
	return r.Allows(required), nil
}

// EnsureSudo seeds the initial privileged user on boot. It is a no-op
// when the user already holds sudo, so repeated boots do not touch the
// row's updated_at.
func (s *Store) EnsureSudo(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}
	r, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	if r == Sudo {
		return nil
	}
	return s.Set(ctx, username, Sudo)
}
