// Package sessionkit provides the client-side session and authentication core
// of the Smart Gift Finder platform: bearer-token decoding, a durable
// single-slot session store, an HTTP sign-in facade, and change notification
// for UI observers.
//
// The package is designed for interactive client workloads: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// sessionkit is the public surface. It exposes [Client], [Builder], [Config],
// [Binding], and value types (Session, MetricsSnapshot, AuditEvent). Token
// decoding lives in the token sub-package, the session slot in session, and
// durable backends in storage; none of them import sessionkit back (no import
// cycles).
//
// # What this package must NOT do
//
//   - Verify token signatures. Tokens are decoded for their payload only; the
//     login endpoint is the authority on their validity.
//   - Grant access on an unreadable or expired persisted token. Decode and
//     storage failures always degrade to the unauthenticated state.
//   - Perform I/O outside of Client methods. Construction via Builder performs
//     exactly one storage read to restore a persisted session.
//
// # Session coherence contract
//
// Exactly one session (or none) exists per Client. Sign-in attempts are
// serialized by a generation counter: a response that arrives after a newer
// attempt or a sign-out has advanced the generation is discarded and never
// overwrites the slot. Slot installation, token persistence, and subscriber
// notification form a single transition under one state lock: a sign-out can
// never be partially undone by a stale sign-in finishing late, and
// subscribers observe changes in slot order.
package sessionkit
