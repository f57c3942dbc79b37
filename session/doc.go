// Package session owns the single in-memory session slot and its
// synchronization with durable token storage.
//
// # Design
//
// A [Store] holds at most one *Session behind an RWMutex and restores it from
// storage lazily: expiry is checked against the wall clock at load time, never
// by a background timer. An expired or undecodable persisted token is removed
// from storage and reported as a typed error so callers can account for it,
// but it is never surfaced as an authentication failure.
//
// # What this package must NOT do
//
//   - Return an expired session from LoadFromStorage.
//   - Perform network I/O; sign-in belongs to the sessionkit facade.
//   - Import sessionkit or any sibling package other than token and storage.
package session
