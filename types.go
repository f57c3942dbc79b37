package sessionkit

import "github.com/giftfinder/sessionkit/session"

// User is the signed-in principal.
//
//	Docs: docs/session.md
type User = session.User

// Session is the live authenticated-user record plus its validity window and
// bearer token. Exactly one Session (or none) exists per [Client].
//
//	Docs: docs/session.md
type Session = session.Session

// Status is the derived authentication state of a [Client] or [Binding]. It is
// computed from whether a session is present, never stored.
//
//	Docs: docs/session.md
type Status uint8

const (
	// StatusLoading is an exported constant or variable used by the session client.
	//
	// StatusLoading is only ever observed by consumers that track "not yet
	// checked"; a built Client restores its session synchronously and reports
	// authenticated or unauthenticated from the first read.
	StatusLoading Status = iota
	// StatusAuthenticated is an exported constant or variable used by the session client.
	StatusAuthenticated
	// StatusUnauthenticated is an exported constant or variable used by the session client.
	StatusUnauthenticated
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Credentials is the sign-in input forwarded verbatim to the login endpoint.
// The collaborating login form is responsible for non-emptiness; the client
// performs no further validation.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the wire shape of the login endpoint's reply.
type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}
