package models

import "time"

// Session is a server-held record of a client's authentication state,
// referenced by an opaque token carried in a cookie.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	UserName      string    `json:"userName"`
	UserEmail     string    `json:"userEmail"`
	Role          Role      `json:"role"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAdmin reports whether the session is authenticated with the admin role.
func (s *Session) IsAdmin() bool {
	return s.Authenticated && s.Role == RoleAdmin
}
