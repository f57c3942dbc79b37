package storage

import (
	"context"
	"errors"
)

// ErrUnavailable is an exported constant or variable used by the session client.
var ErrUnavailable = errors.New("session storage unavailable")

// DefaultKey is the well-known key under which the persisted token lives.
const DefaultKey = "sessionkit.session-token"

// Storage is the durable home of the persisted bearer token.
//
// Load returns the stored token, or "" with a nil error when no token is
// present. Save and Clear are durable write and delete; Clear on an absent
// token is a no-op. Implementations wrap backend failures in [ErrUnavailable].
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
