package models

import "time"

// Identity is the signed-in admin as reported by the authentication provider.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is transient authentication state held in memory only.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionEvent announces that the identity bound to a session changed.
// A nil Identity means the session no longer has a signed-in user.
type SessionEvent struct {
	SessionID string    `json:"session_id"`
	Identity  *Identity `json:"identity"`
}
