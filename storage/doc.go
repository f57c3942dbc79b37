// Package storage provides durable backends for the single persisted bearer
// token. A backend holds at most one token under a well-known key and must
// survive process restarts; the session layer treats every backend failure as
// a degraded, in-memory-only condition rather than an authentication error.
package storage
