package model

import "time"

// Role identifies which dashboard the authenticated user is allowed
// to see.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Profile is the authenticated user's own record as returned by the
// auth endpoints.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

// Session holds the authenticated user's role, profile, and bearer
// token for the lifetime of the program. It is created at login or
// registration, hydrated from persisted storage at startup, and
// destroyed at logout. There is exactly one session per process.
type Session struct {
	Role    Role    `json:"role"`
	Profile Profile `json:"profile"`

	// Token is the bearer token; persisted in the system keyring,
	// never in the session file.
	Token string `json:"-"`

	// ExpiresAt is the token expiry extracted from the JWT claims.
	// Zero when the token carries no exp claim.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's token has a known expiry in
// the past.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(time.Now())
}
