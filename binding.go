package sessionkit

import (
	"context"
	"sync"
)

// Binding defines a public type used by sessionkit APIs.
//
// Binding instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// A Binding is a per-consumer view of a client's session, kept current by
// subscription. Construct one per UI surface or worker that needs to observe
// authentication state; Close releases the subscription. A Binding never
// reports [StatusLoading]: the client it wraps has already restored its
// session by the time Build returned.
type Binding struct {
	client *Client

	mu   sync.RWMutex
	sess *Session

	unsubscribe func()
}

// NewBinding describes the newbinding operation and its observable behavior.
//
// NewBinding may return an error when input validation, dependency calls, or security checks fail.
// NewBinding does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewBinding(client *Client) (*Binding, error) {
	if client == nil {
		return nil, ErrClientNotReady
	}

	b := &Binding{client: client}

	// Subscribe first so a change between the initial read and registration
	// is not lost; the callback overwrites the snapshot either way.
	b.unsubscribe = client.OnSessionChange(func(sess *Session) {
		b.mu.Lock()
		b.sess = sess
		b.mu.Unlock()
	})

	b.mu.Lock()
	b.sess = client.Session()
	b.mu.Unlock()

	return b, nil
}

// Data describes the data operation and its observable behavior.
//
// Data does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Binding) Data() *Session {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sess
}

// Status describes the status operation and its observable behavior.
//
// Status does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Binding) Status() Status {
	if b.Data() != nil {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}

// Update describes the update operation and its observable behavior.
//
// Update may return an error when input validation, dependency calls, or security checks fail.
// Update does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Update forwards to the client, so every binding on the same client observes
// the replacement, not just this one.
func (b *Binding) Update(ctx context.Context, sess *Session) error {
	if b == nil || b.client == nil {
		return ErrClientNotReady
	}
	return b.client.Update(ctx, sess)
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Binding) Close() {
	if b == nil || b.unsubscribe == nil {
		return
	}
	b.unsubscribe()
}
