package sessionkit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giftfinder/sessionkit/storage"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func buildAuditTestClient(t *testing.T, sink AuditSink, cfg AuditConfig) *Client {
	t.Helper()

	srv := newLoginServer(t)

	config := DefaultConfig()
	config.Login.Endpoint = srv.URL
	config.Audit = cfg

	client, err := New().
		WithConfig(config).
		WithStorage(storage.NewMemoryStorage()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	return client
}

func TestAuditEventsEmittedForSignInAndOut(t *testing.T) {
	sink := NewChannelSink(16)
	client := buildAuditTestClient(t, sink, AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: false})
	defer client.Close()

	if _, err := client.SignIn(context.Background(), testUsername, testPassword); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, err := client.SignIn(context.Background(), testUsername, "wrong"); err == nil {
		t.Fatal("expected sign-in failure")
	}

	want := []string{auditEventSignInSuccess, auditEventSignOut, auditEventSignInFailure}
	for _, expected := range want {
		select {
		case event := <-sink.Events():
			if event.EventType != expected {
				t.Fatalf("expected event %q, got %q", expected, event.EventType)
			}
			if event.ID == "" {
				t.Fatal("audit event must carry a unique ID")
			}
			if event.Timestamp.IsZero() {
				t.Fatal("audit event must carry a timestamp")
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q event", expected)
		}
	}
}

func TestAuditFailureEventCarriesErrorCode(t *testing.T) {
	sink := NewChannelSink(16)
	client := buildAuditTestClient(t, sink, AuditConfig{Enabled: true, BufferSize: 16})
	defer client.Close()

	if _, err := client.SignIn(context.Background(), testUsername, "wrong"); err == nil {
		t.Fatal("expected sign-in failure")
	}

	select {
	case event := <-sink.Events():
		if event.Success {
			t.Fatal("failure event must not report success")
		}
		if event.Error != string(auditErrInvalidCredentials) {
			t.Fatalf("expected invalid_credentials code, got %q", event.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for failure event")
	}
}

func TestAuditDropIfFullCountsDrops(t *testing.T) {
	sink := newGateSink()
	client := buildAuditTestClient(t, sink, AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true})

	// One event is consumed by the blocked dispatcher, one fills the buffer,
	// the rest are dropped.
	for i := 0; i < 8; i++ {
		client.emitAudit(context.Background(), auditEventSignOut, true, "", nil, nil)
	}

	if client.AuditDropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}

	close(sink.gate)
	client.Close()
}

func TestAuditDropWarnsOnce(t *testing.T) {
	srv := newLoginServer(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	sink := newGateSink()
	config := DefaultConfig()
	config.Login.Endpoint = srv.URL
	config.Audit = AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}

	client, err := New().
		WithConfig(config).
		WithStorage(storage.NewMemoryStorage()).
		WithLogger(logger).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < 8; i++ {
		client.emitAudit(context.Background(), auditEventSignOut, true, "", nil, nil)
	}
	if client.AuditDropped() < 2 {
		t.Fatalf("expected multiple dropped events, got %d", client.AuditDropped())
	}

	if got := strings.Count(buf.String(), "audit buffer full"); got != 1 {
		t.Fatalf("expected exactly one drop warning, got %d in: %s", got, buf.String())
	}

	close(sink.gate)
	client.Close()
}

func TestAuditCloseDrainsPending(t *testing.T) {
	sink := &countingSink{}
	client := buildAuditTestClient(t, sink, AuditConfig{Enabled: true, BufferSize: 32})

	const events = 10
	for i := 0; i < events; i++ {
		client.emitAudit(context.Background(), auditEventSignOut, true, "", nil, nil)
	}

	client.Close()

	if got := sink.Count(); got != events {
		t.Fatalf("expected %d events after drain, got %d", events, got)
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		ID:        "evt-1",
		Timestamp: time.Now().UTC(),
		EventType: auditEventSignInSuccess,
		UserID:    "u-1",
		Success:   true,
	})

	line := strings.TrimSpace(buf.String())
	var decoded AuditEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("sink output not valid JSON: %v", err)
	}
	if decoded.EventType != auditEventSignInSuccess || decoded.UserID != "u-1" {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	disabled, err := New().
		WithEndpoint("http://localhost/login").
		WithStorage(storage.NewMemoryStorage()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer disabled.Close()

	disabled.emitAudit(context.Background(), auditEventSignOut, true, "", nil, nil)
	if disabled.AuditDropped() != 0 {
		t.Fatal("disabled audit must be a no-op")
	}
}
