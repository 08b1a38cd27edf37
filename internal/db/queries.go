// Package db contains query helpers for roles and sessions.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// nowUnix returns the current Unix timestamp in seconds.
func nowUnix() int64 { return time.Now().Unix() }

// GetUserRole fetches the stored role for a username. The boolean
// indicates whether a row exists; absence is not an error.
func (d *DB) GetUserRole(ctx context.Context, username string) (string, bool, error) {
	var role string
	err := d.sql.QueryRowContext(ctx,
		"SELECT role FROM user_roles WHERE username = ?", username).Scan(&role)
	if err == nil {
		return role, true, nil
	}
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	return "", false, err
}

// UpsertUserRole creates or updates a role assignment. created_at is
// fixed at first insert; updated_at refreshes on every write.
func (d *DB) UpsertUserRole(ctx context.Context, username, role string) error {
	if username == "" || role == "" {
		return errors.New("username and role are required")
	}
	now := nowUnix()
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO user_roles(username, role, created_at, updated_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(username) DO UPDATE SET role=excluded.role, updated_at=excluded.updated_at
`, username, role, now, now)
	return err
}

// ListUserRoles returns all role assignments sorted by username.
func (d *DB) ListUserRoles(ctx context.Context) ([]UserRole, error) {
	rows, err := d.sql.QueryContext(ctx, `
SELECT username, role, created_at, updated_at FROM user_roles ORDER BY username ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserRole
	for rows.Next() {
		var r UserRole
		if err := rows.Scan(&r.Username, &r.Role, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateSession inserts a new session token with expiration.
func (d *DB) CreateSession(ctx context.Context, token, username string, ttl time.Duration) error {
	if token == "" || username == "" {
		return errors.New("invalid session")
	}
	now := nowUnix()
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO sessions(token, username, created_at, expires_at)
VALUES(?, ?, ?, ?)
`, token, username, now, now+int64(ttl.Seconds()))
	return err
}

// GetSession looks up a session by token.
func (d *DB) GetSession(ctx context.Context, token string) (*Session, bool, error) {
	var s Session
	err := d.sql.QueryRowContext(ctx, `
SELECT token, username, created_at, expires_at FROM sessions WHERE token=?
`, token).Scan(&s.Token, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if err == nil {
		return &s, true, nil
	}
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	return nil, false, err
}

// DeleteSession removes a session by token.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	_, err := d.sql.ExecContext(ctx, `DELETE FROM sessions WHERE token=?`, token)
	return err
}

// DeleteExpiredSessions purges sessions whose expiry has passed.
func (d *DB) DeleteExpiredSessions(ctx context.Context, nowUnix int64) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, nowUnix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
