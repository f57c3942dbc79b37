package session

import "time"

// User is the signed-in principal. It is constructed from a decoded token
// payload or from a successful sign-in response, never mutated afterwards,
// and discarded on sign-out.
type User struct {
	ID    string
	Name  string
	Email string
}

// Session is the live, time-bounded authentication fact.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	User        User
	ExpiresAt   time.Time
	AccessToken string
}

// Expired reports whether the session's validity window has passed.
func (s *Session) Expired() bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.After(time.Now())
}
