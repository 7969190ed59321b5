package domain

import "time"

// Session is the signed-in identity together with the bearer credential
// issued by the tender backend.
type Session struct {
	Credential string    `json:"token"`
	User       User      `json:"user"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

func (s Session) UserID() string {
	return s.User.ID
}

func (s Session) Role() Role {
	return s.User.Role
}

func (s Session) DisplayName() string {
	if s.User.FullName != "" {
		return s.User.FullName
	}

	return s.User.Username
}

// Expired reports whether the credential is past its known expiry. A zero
// ExpiresAt means the expiry is unknown and the session is kept.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
