// Package middleware exposes HTTP middleware adapters that gate handlers on
// the sessionkit.Client session state.
//
// # Guards
//
//   - [Guard] — redirects or rejects when no live session exists, re-checking
//     expiry on every request.
//   - [RequireSession] — Guard preconfigured to respond 401 instead of
//     redirecting, for API routes.
//
// Each guard reads the client's session slot, tears down an expired session,
// and injects the live session into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Client calls. It does NOT
// implement authentication logic itself — all decisions are delegated to the
// client and its session store.
//
// # What this package must NOT do
//
//   - Decode tokens directly (delegates to the client).
//   - Touch durable storage (the client handles I/O).
//   - Make authorization decisions beyond present/absent/expired.
package middleware
