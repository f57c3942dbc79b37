package sessionkit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/giftfinder/sessionkit/session"
	"github.com/giftfinder/sessionkit/storage"
)

// Builder defines a public type used by sessionkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	backend    storage.Storage
	redis      *redis.Client
	httpClient *http.Client
	logger     *slog.Logger
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithEndpoint describes the withendpoint operation and its observable behavior.
//
// WithEndpoint does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEndpoint(url string) *Builder {
	b.config.Login.Endpoint = url
	return b
}

// WithStorage describes the withstorage operation and its observable behavior.
//
// WithStorage does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStorage(backend storage.Storage) *Builder {
	b.backend = backend
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// WithRedis lets Build construct the storage backend from a raw Redis client,
// keyed by [StorageConfig].Key (or the backend default when empty) and bounded
// by the session TTL. A backend passed through WithStorage takes precedence.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Build validates the configuration, wires the client, and synchronously
// attempts to restore a persisted session so the first Session() read already
// reflects durable state. An invalid or expired persisted token is cleared
// and the client starts unauthenticated; an unreachable storage backend is
// logged and tolerated, it never fails construction.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend := b.backend
	if backend == nil && b.redis != nil {
		backend = storage.NewRedisStorage(b.redis, cfg.Storage.Key, cfg.Session.TTL)
	}
	if backend == nil {
		return nil, errors.New("session storage backend required")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Login.Timeout,
		}
	}

	client := &Client{
		config:     cfg,
		store:      session.NewStore(backend),
		httpClient: httpClient,
		logger:     logger,
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink, logger),
		metrics:    NewMetrics(cfg.Metrics),
	}

	client.restore(context.Background())

	b.built = true

	return client, nil
}

// restore loads any persisted session into the slot at construction time.
func (c *Client) restore(ctx context.Context) {
	sess, err := c.store.LoadFromStorage(ctx)
	switch {
	case err == nil && sess != nil:
		c.metricInc(MetricSessionRestored)
		c.emitAudit(ctx, auditEventSessionRestored, true, sess.User.ID, nil, nil)
	case errors.Is(err, session.ErrTokenExpired):
		c.metricInc(MetricSessionExpired)
		c.emitAudit(ctx, auditEventSessionExpired, false, "", err, nil)
	case errors.Is(err, session.ErrTokenInvalid):
		c.metricInc(MetricTokenDecodeFailure)
		c.logger.Warn("persisted session token undecodable, discarded")
		c.emitAudit(ctx, auditEventSessionExpired, false, "", err, nil)
	case err != nil:
		c.metricInc(MetricStorageDegraded)
		c.logger.Warn("session storage unreachable at startup, starting unauthenticated",
			"error", err,
		)
		c.emitAudit(ctx, auditEventStorageDegraded, false, "", err, nil)
	}
}
