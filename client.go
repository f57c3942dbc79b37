package sessionkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giftfinder/sessionkit/session"
	"github.com/giftfinder/sessionkit/token"
)

// maxLoginResponseBytes bounds how much of the login reply is read. The
// endpoint returns a small JSON object; anything larger is a misbehaving
// server.
const maxLoginResponseBytes = 1 << 20

// Client defines a public type used by sessionkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// A Client owns exactly one session slot. SignIn, SignOut and Update are the
// only operations that replace the slot's contents; Session and Status are
// pure reads. Every slot change notifies all registered subscribers.
type Client struct {
	config     Config
	store      *session.Store
	httpClient *http.Client
	logger     *slog.Logger
	audit      *auditDispatcher
	metrics    *Metrics

	// signInGen orders competing slot writers. Each SignIn, SignOut and
	// Update bumps the generation; a sign-in whose response arrives after a
	// later bump is discarded instead of clobbering the newer state.
	signInGen atomic.Uint64

	// stateMu serializes every slot transition end to end: generation bump or
	// check, slot write, token persistence, and subscriber fan-out happen
	// under this lock as one unit, so a sign-out can never be interleaved
	// with (or undone by) a sign-in transition that is still being applied.
	stateMu sync.Mutex

	mu      sync.Mutex
	subs    map[uint64]func(*Session)
	nextSub uint64
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// Session describes the session operation and its observable behavior.
//
// Session does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Session is a pure read: it never touches storage and never performs I/O.
// The returned pointer is shared; callers must not mutate it.
func (c *Client) Session() *Session {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Current()
}

// Status describes the status operation and its observable behavior.
//
// Status does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Status() Status {
	if c.Session() != nil {
		return StatusAuthenticated
	}
	return StatusUnauthenticated
}

// SignIn describes the signin operation and its observable behavior.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// SignIn exchanges credentials at the login endpoint, decodes the returned
// bearer token, installs the session, persists the raw token, and notifies
// subscribers. A persistence failure degrades to an in-memory session rather
// than failing the sign-in. When a later SignIn, SignOut or Update completes
// while this call is in flight, the stale result is discarded and
// [ErrSignInSuperseded] is returned.
func (c *Client) SignIn(ctx context.Context, username, password string) (*Session, error) {
	if c == nil || c.store == nil {
		return nil, ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gen := c.signInGen.Add(1)
	start := time.Now()

	raw, err := c.doLogin(ctx, Credentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, ErrLoginUnavailable) {
			c.metricInc(MetricSignInUnavailable)
		} else {
			c.metricInc(MetricSignInFailure)
		}
		c.emitAudit(ctx, auditEventSignInFailure, false, "", err, func() map[string]string {
			return map[string]string{"username": username}
		})
		return nil, err
	}

	sess, err := c.buildSession(raw)
	if err != nil {
		c.metricInc(MetricSignInFailure)
		c.metricInc(MetricTokenDecodeFailure)
		c.emitAudit(ctx, auditEventSignInFailure, false, "", err, nil)
		return nil, err
	}

	if !c.commitSession(ctx, gen, sess, raw) {
		c.metricInc(MetricSignInSuperseded)
		c.emitAudit(ctx, auditEventSignInSuperseded, false, sess.User.ID, ErrSignInSuperseded, nil)
		return nil, ErrSignInSuperseded
	}

	c.metricInc(MetricSignInSuccess)
	if c.metrics != nil {
		c.metrics.Observe(MetricSignInLatency, time.Since(start))
	}
	c.emitAudit(ctx, auditEventSignInSuccess, true, sess.User.ID, nil, nil)

	return sess, nil
}

// SignOut describes the signout operation and its observable behavior.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// SignOut clears the session slot and the persisted token and notifies
// subscribers with nil. It is idempotent: signing out with no session is a
// no-op that still succeeds. In-flight sign-ins started before SignOut are
// superseded.
func (c *Client) SignOut(ctx context.Context) error {
	if c == nil || c.store == nil {
		return ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.stateMu.Lock()
	c.signInGen.Add(1)

	prev := c.store.Current()
	c.store.SetCurrent(nil)
	if err := c.store.Clear(ctx); err != nil {
		c.metricInc(MetricStorageDegraded)
		c.logger.Warn("session storage clear failed during sign-out",
			"error", err,
		)
		c.emitAudit(ctx, auditEventStorageDegraded, false, "", err, nil)
	}
	c.notify(nil)
	c.stateMu.Unlock()

	c.metricInc(MetricSignOut)
	userID := ""
	if prev != nil {
		userID = prev.User.ID
	}
	c.emitAudit(ctx, auditEventSignOut, true, userID, nil, nil)

	return nil
}

// Update describes the update operation and its observable behavior.
//
// Update may return an error when input validation, dependency calls, or security checks fail.
// Update does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Update replaces the session slot directly, bypassing the login endpoint. A
// nil session behaves like SignOut. It exists for callers that obtain tokens
// out of band, such as OAuth callbacks or test fixtures.
func (c *Client) Update(ctx context.Context, sess *Session) error {
	if c == nil || c.store == nil {
		return ErrClientNotReady
	}
	if sess == nil {
		return c.SignOut(ctx)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.stateMu.Lock()
	c.signInGen.Add(1)
	c.store.SetCurrent(sess)
	if sess.AccessToken != "" {
		c.persistToken(ctx, sess.AccessToken)
	}
	c.notify(sess)
	c.stateMu.Unlock()
	return nil
}

// OnSessionChange describes the onsessionchange operation and its observable behavior.
//
// OnSessionChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The callback receives the new session pointer, or nil on sign-out. Any
// number of subscribers may be registered; the returned function removes this
// one and is safe to call more than once. Callbacks run on the goroutine that
// changed the session, while that transition is still being applied: they
// must not block and must not call SignIn, SignOut or Update. Reads such as
// Session and subscribing or unsubscribing are fine.
func (c *Client) OnSessionChange(fn func(*Session)) func() {
	if c == nil || fn == nil {
		return func() {}
	}

	c.mu.Lock()
	if c.subs == nil {
		c.subs = make(map[uint64]func(*Session))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// notify snapshots the subscriber set under the subscriber lock and invokes
// callbacks outside it, so a callback may subscribe or unsubscribe without
// deadlocking. Callers hold stateMu, which is what keeps notifications in
// slot order.
func (c *Client) notify(sess *Session) {
	c.mu.Lock()
	fns := make([]func(*Session), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
		c.metricInc(MetricSubscriberNotified)
	}
}

// commitSession installs sess, persists its token, and notifies subscribers
// as one transition, unless a later generation was claimed since gen was
// taken. The state lock spans all three steps and is the same lock under
// which SignOut and Update bump the generation, so a sign-out that wins the
// lock first makes this result stale and nothing here runs; a sign-in that
// wins applies its full transition before the sign-out can observe or touch
// the slot. Returns false when the result is stale.
func (c *Client) commitSession(ctx context.Context, gen uint64, sess *Session, raw string) bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if c.signInGen.Load() != gen {
		return false
	}
	c.store.SetCurrent(sess)
	c.persistToken(ctx, raw)
	c.notify(sess)
	return true
}

// persistToken writes the raw token to durable storage. Failure is logged and
// counted, never surfaced: the in-memory session stays valid for this process.
func (c *Client) persistToken(ctx context.Context, raw string) {
	if err := c.store.Persist(ctx, raw); err != nil {
		c.metricInc(MetricStorageDegraded)
		c.logger.Warn("session token persistence failed, continuing with in-memory session",
			"error", err,
		)
		c.emitAudit(ctx, auditEventStorageDegraded, false, "", err, nil)
	}
}

// buildSession decodes the raw bearer token into a session. The expiry comes
// from the token's exp claim when it is present, in the future, and trusted;
// otherwise the configured TTL applies from now.
func (c *Client) buildSession(raw string) (*Session, error) {
	payload, err := token.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable token: %v", ErrAuthenticationFailed, err)
	}

	expiresAt := time.Now().Add(c.config.Session.TTL)
	if c.config.Session.TrustTokenExpiry && payload.Exp > 0 {
		if claim := time.Unix(payload.Exp, 0); claim.After(time.Now()) {
			expiresAt = claim
		}
	}

	return &Session{
		User: User{
			ID:    payload.User.ID,
			Name:  payload.User.Name,
			Email: payload.User.Email,
		},
		ExpiresAt:   expiresAt,
		AccessToken: raw,
	}, nil
}

// doLogin posts credentials to the login endpoint and returns the raw bearer
// token. Transport-level failures map to [ErrLoginUnavailable]; everything
// the server rejects maps to [ErrAuthenticationFailed], carrying the server's
// message when it supplied one.
func (c *Client) doLogin(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("%w: encoding credentials: %v", ErrAuthenticationFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Login.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Login.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building login request: %v", ErrLoginUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("login endpoint unreachable",
			"endpoint", c.config.Login.Endpoint,
			"error", err,
		)
		return "", fmt.Errorf("%w: %v", ErrLoginUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading login response: %v", ErrLoginUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: login endpoint returned status %d", ErrLoginUnavailable, resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed login response", ErrAuthenticationFailed)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices || !parsed.Success {
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return "", fmt.Errorf("%w: %s", ErrAuthenticationFailed, msg)
		}
		return "", ErrAuthenticationFailed
	}

	if parsed.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", ErrAuthenticationFailed)
	}

	return parsed.Token, nil
}
