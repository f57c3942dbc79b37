package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/giftfinder/sessionkit/storage"
	"github.com/giftfinder/sessionkit/token"
)

// ErrTokenInvalid is an exported constant or variable used by the session client.
var ErrTokenInvalid = errors.New("persisted token invalid")

// ErrTokenExpired is an exported constant or variable used by the session client.
var ErrTokenExpired = errors.New("persisted token expired")

// Store defines a public type used by sessionkit APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	backend storage.Storage

	mu      sync.RWMutex
	current *Session
}

// NewStore creates a session store over the given durable backend.
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend}
}

// LoadFromStorage restores the session from the persisted token and installs
// it as the current slot.
//
// An absent token yields (nil, nil). A token that fails to decode, or whose
// expiry is not strictly in the future at call time, is removed from storage
// and reported as [ErrTokenInvalid] or [ErrTokenExpired]; the slot is left
// empty. Callers must treat both exactly like "no session". Storage failures
// are returned wrapped in [storage.ErrUnavailable] without touching the slot.
func (s *Store) LoadFromStorage(ctx context.Context) (*Session, error) {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	payload, err := token.Decode(raw)
	if err != nil {
		_ = s.backend.Clear(ctx)
		return nil, ErrTokenInvalid
	}

	expiresAt := time.Unix(payload.Exp, 0)
	if !expiresAt.After(time.Now()) {
		_ = s.backend.Clear(ctx)
		return nil, ErrTokenExpired
	}

	sess := &Session{
		User: User{
			ID:    payload.User.ID,
			Name:  payload.User.Name,
			Email: payload.User.Email,
		},
		ExpiresAt:   expiresAt,
		AccessToken: raw,
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	return sess, nil
}

// Persist writes the raw token to the durable backend.
func (s *Store) Persist(ctx context.Context, raw string) error {
	return s.backend.Save(ctx, raw)
}

// Clear removes the persisted token from the durable backend.
func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

// Current returns the in-memory session slot without re-checking storage or
// expiry. Pure read.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent replaces the in-memory session slot.
func (s *Store) SetCurrent(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}
