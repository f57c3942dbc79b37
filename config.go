package sessionkit

import (
	"errors"
	"time"
)

// Default tunables applied by [DefaultConfig] when a field is left zero.
const (
	// DefaultLoginTimeout is an exported constant or variable used by the session client.
	DefaultLoginTimeout = 15 * time.Second
	// DefaultSessionTTL is an exported constant or variable used by the session client.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultAuditBufferSize is an exported constant or variable used by the session client.
	DefaultAuditBufferSize = 256
)

// LoginConfig controls how the client reaches the login endpoint.
//
// LoginConfig instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type LoginConfig struct {
	// Endpoint is the absolute URL the sign-in POST is sent to.
	Endpoint string
	// Timeout bounds a single sign-in round trip. The caller's context still
	// applies; whichever expires first wins.
	Timeout time.Duration
}

// SessionConfig controls session lifetime decisions.
//
// SessionConfig instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type SessionConfig struct {
	// TTL is the fallback session lifetime used when the bearer token carries
	// no usable expiry claim.
	TTL time.Duration
	// TrustTokenExpiry makes a decodable, future exp claim override TTL.
	// Disable it to force the local policy lifetime regardless of claims.
	TrustTokenExpiry bool
}

// StorageConfig controls durable token persistence.
//
// StorageConfig instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type StorageConfig struct {
	// Key names the slot the token is written under when Build constructs
	// the backend itself, as with [Builder.WithRedis]. Empty selects the
	// backend's default key. Backends passed through [Builder.WithStorage]
	// carry their own key and ignore this field.
	Key string
}

// AuditConfig controls the asynchronous audit pipeline.
//
// AuditConfig instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking client operations when the
	// dispatch buffer is saturated. Dropped events are counted.
	DropIfFull bool
}

// MetricsConfig controls in-process operation counters.
//
// MetricsConfig instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config is the full client configuration. Zero-value fields are filled with
// defaults by [DefaultConfig]; a Config passed to the builder is cloned so the
// caller's copy can be reused or mutated freely afterwards.
//
// Config instances are intended to be configured during initialization and then
// treated as immutable unless documented otherwise.
type Config struct {
	Login   LoginConfig
	Session SessionConfig
	Storage StorageConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Login: LoginConfig{
			Timeout: DefaultLoginTimeout,
		},
		Session: SessionConfig{
			TTL:              DefaultSessionTTL,
			TrustTokenExpiry: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: DefaultAuditBufferSize,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyDefaults fills zero-valued tunables in place. Booleans are left alone;
// their zero value is a deliberate choice.
func (c *Config) applyDefaults() {
	if c.Login.Timeout <= 0 {
		c.Login.Timeout = DefaultLoginTimeout
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Audit.BufferSize <= 0 {
		c.Audit.BufferSize = DefaultAuditBufferSize
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Login.Endpoint == "" {
		return errors.New("sessionkit: login endpoint must be set")
	}
	if c.Login.Timeout <= 0 {
		return errors.New("sessionkit: login timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("sessionkit: session ttl must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("sessionkit: audit buffer size must be positive")
	}
	return nil
}

// cloneConfig returns a value copy. Config holds no reference types today, but
// routing every copy through here keeps the builder safe if one is added.
func cloneConfig(c Config) Config {
	return c
}
