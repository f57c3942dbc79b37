package sessionkit

import "errors"

var (
	// ErrAuthenticationFailed is an exported constant or variable used by the session client.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrLoginUnavailable is an exported constant or variable used by the session client.
	ErrLoginUnavailable = errors.New("login endpoint unavailable")
	// ErrSignInSuperseded is an exported constant or variable used by the session client.
	ErrSignInSuperseded = errors.New("sign-in superseded by a newer attempt")
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
)
