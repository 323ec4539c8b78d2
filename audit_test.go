package muhasabah

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
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

func buildAuditTestEngine(t *testing.T, cfg Config, sink AuditSink) (*Engine, *memUserStore) {
	t.Helper()

	store := newMemUserStore()
	engine, err := New().
		WithConfig(cfg).
		WithUserStore(store).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, store
}

func collectEvents(ch <-chan AuditEvent, want int) []AuditEvent {
	events := make([]AuditEvent, 0, want)
	timeout := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case ev := <-ch:
			events = append(events, ev)
		case <-timeout:
			return events
		}
	}
	return events
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = false

	sink := &countingSink{}
	engine, _ := buildAuditTestEngine(t, cfg, sink)
	seedUser(t, engine)

	_, _ = engine.Login(WithClientIP(context.Background(), "203.0.113.1"), "alice", "wrong-password")
	time.Sleep(30 * time.Millisecond)

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditLoginFailureCarriesRequestFields(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 16

	sink := NewChannelSink(16)
	engine, _ := buildAuditTestEngine(t, cfg, sink)
	alice := seedUser(t, engine)
	<-sink.Events() // register_success

	ctx := WithUserAgent(WithClientIP(context.Background(), "198.51.100.33"), "curl/8.0")
	_, _ = engine.Login(ctx, "alice", "super-secret-password")

	events := collectEvents(sink.Events(), 1)
	if len(events) != 1 {
		t.Fatal("expected audit event to be received")
	}
	ev := events[0]
	if ev.EventType != auditEventLoginFailure {
		t.Fatalf("expected %s, got %s", auditEventLoginFailure, ev.EventType)
	}
	if ev.IP != "198.51.100.33" || ev.UserAgent != "curl/8.0" {
		t.Fatalf("unexpected request fields: ip=%q ua=%q", ev.IP, ev.UserAgent)
	}
	if ev.UserID != formatUserID(alice.ID) {
		t.Fatalf("expected user id %d, got %q", alice.ID, ev.UserID)
	}
	if ev.Error != string(auditErrInvalidCredentials) {
		t.Fatalf("expected error code %q, got %q", auditErrInvalidCredentials, ev.Error)
	}
	if ev.Success {
		t.Fatal("expected failure event")
	}
}

func TestAuditEventSequence(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false
	cfg.Security.MaxLoginAttempts = 1

	sink := NewChannelSink(32)
	engine, _ := buildAuditTestEngine(t, cfg, sink)
	ctx := context.Background()

	res, err := engine.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, _ = engine.Register(ctx, validRegistration())
	_, _ = engine.Refresh(ctx, res.RefreshToken)
	_, _ = engine.Refresh(ctx, "garbage")
	_ = engine.Logout(ctx, res.AccessToken)
	_, _ = engine.Login(ctx, "alice", "wrong-password")
	_, _ = engine.Login(ctx, "alice", testPassword)

	want := []string{
		auditEventRegisterSuccess,
		auditEventRegisterDuplicate,
		auditEventRefreshSuccess,
		auditEventRefreshInvalid,
		auditEventLogout,
		auditEventLoginFailure,
		auditEventLoginRateLimited,
	}
	events := collectEvents(sink.Events(), len(want))
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, ev := range events {
		if ev.EventType != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], ev.EventType)
		}
	}
}

func TestAuditNoSecretsInEvents(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 32
	cfg.Audit.DropIfFull = false

	var buf syncBuffer
	engine, store := buildAuditTestEngine(t, cfg, NewJSONWriterSink(&buf))
	ctx := context.Background()

	res, err := engine.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	login, err := engine.Login(ctx, "alice", testPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := engine.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	_, _ = engine.Login(ctx, "alice", "another-secret-value")
	engine.Close()

	needles := []string{
		testPassword,
		"another-secret-value",
		login.RefreshToken,
		login.AccessToken,
		res.RefreshToken,
		store.get(res.User.ID).PasswordHash,
	}
	out := buf.String()
	if out == "" {
		t.Fatal("expected audit output")
	}
	for _, needle := range needles {
		if strings.Contains(out, needle) {
			t.Fatalf("sensitive value leaked in audit output: %q", needle)
		}
	}
}

func TestAuditLogrusSink(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	sink := NewLogrusSink(logger)

	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess, UserID: "7", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure, Error: string(auditErrInvalidCredentials)})

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != logrus.InfoLevel || entries[1].Level != logrus.WarnLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[1].Level)
	}
	if entries[0].Data["user_id"] != "7" {
		t.Fatalf("expected user_id field, got %v", entries[0].Data)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
