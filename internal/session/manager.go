// Package session issues and validates browser sessions. Tokens are
// random, stored server side in sqlite, and presented to the client as
// an HMAC-signed cookie value so a tampered cookie is rejected before
// any database lookup.
package session

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/skbidisigma1/backpackpi/internal/auth"
	"github.com/skbidisigma1/backpackpi/internal/db"
)

// DefaultTTL is how long a session stays valid after login. Expiry is
// fixed at issuance; activity does not extend it.
const DefaultTTL = 14 * 24 * time.Hour

// keySalt pins the key derivation so a configured secret always maps to
// the same signing key across restarts.
const keySalt = "backpackpi.session.v1"

// Manager creates, validates, and destroys sessions.
type Manager struct {
	db     *db.DB
	key    []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewManager derives the cookie-signing key from secret and returns a
// manager with the default lifetime.
func NewManager(database *db.DB, secret string, logger *slog.Logger) *Manager {
	key := argon2.IDKey([]byte(secret), []byte(keySalt), 1, 64*1024, 4, 32)
	return &Manager{db: database, key: key, ttl: DefaultTTL, logger: logger}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create opens a session for username and returns the signed cookie
// value to hand to the client.
func (m *Manager) Create(ctx context.Context, username string) (string, error) {
	token, err := auth.NewToken(32)
	if err != nil {
		return "", err
	}
	if err := m.db.CreateSession(ctx, token, username, m.ttl); err != nil {
		return "", err
	}
	return m.sign(token), nil
}

// Validate checks a cookie value and returns the owning username. A bad
// signature, unknown token, or expired session all report ok=false; an
// expired session is deleted on sight.
func (m *Manager) Validate(ctx context.Context, value string) (string, bool, error) {
	token, ok := m.verify(value)
	if !ok {
		return "", false, nil
	}
	s, found, err := m.db.GetSession(ctx, token)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	if s.ExpiresAt <= time.Now().Unix() {
		if err := m.db.DeleteSession(ctx, token); err != nil {
			m.logger.Warn("expired session cleanup failed", "error", err)
		}
		return "", false, nil
	}
	return s.Username, true, nil
}

// Destroy removes the session behind a cookie value. Unknown or
// malformed values are ignored so logout is always safe to call.
func (m *Manager) Destroy(ctx context.Context, value string) error {
	token, ok := m.verify(value)
	if !ok {
		return nil
	}
	return m.db.DeleteSession(ctx, token)
}

// Sweep purges expired sessions and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.db.DeleteExpiredSessions(ctx, time.Now().Unix())
}

// StartSweeper runs Sweep on an interval until ctx is canceled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := m.Sweep(ctx)
				if err != nil {
					m.logger.Warn("session sweep failed", "error", err)
				} else if n > 0 {
					m.logger.Debug("session sweep", "removed", n)
				}
			}
		}
	}()
}
