// Package db defines persistence models for Backpack Pi.
package db

// UserRole maps a host username to its dashboard role. Rows are created
// lazily on first assignment; usernames never assigned have no row and
// default to guest at the role-store layer.
type UserRole struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Session is a logged-in browser session. The token column stores the
// opaque server-side identifier, never the signed cookie value.
type Session struct {
	Token     string
	Username  string
	CreatedAt int64
	ExpiresAt int64
}
