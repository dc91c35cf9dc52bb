package tokenvault

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d.Emit(ctx, AuditEvent{EventType: "issue", TokenID: string(rune('a' + i))})
	}
	for i := 0; i < 3; i++ {
		select {
		case ev := <-sink.Events():
			if ev.TokenID != string(rune('a'+i)) {
				t.Fatalf("event %d out of order: %q", i, ev.TokenID)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := blockingSink{block: block}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	ctx := context.Background()
	// First event occupies the worker, second fills the buffer, the rest
	// must be dropped without blocking this goroutine.
	for i := 0; i < 6; i++ {
		d.Emit(ctx, AuditEvent{EventType: "issue"})
	}
	if d.Dropped() == 0 {
		t.Fatal("no events dropped with a full buffer")
	}
	close(block)
	d.Close()
}

type blockingSink struct{ block chan struct{} }

func (s blockingSink) Emit(context.Context, AuditEvent) { <-s.block }

func TestDispatcherFlushesOnClose(t *testing.T) {
	var buf bytes.Buffer
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, NewJSONWriterSink(&buf))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Emit(ctx, AuditEvent{EventType: "rotate", Success: true})
	}
	d.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("flushed %d events, want 5", len(lines))
	}
	var ev AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.EventType != "rotate" || !ev.Success {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDisabledDispatcherIsInert(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled audit built a dispatcher")
	}
	// All methods must be safe on the nil dispatcher.
	d.Emit(context.Background(), AuditEvent{})
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports drops")
	}
	d.Close()
}

func TestManagerEmitsAuditEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	sink := NewChannelSink(32)

	cfg := testConfig()
	cfg.Audit = AuditConfig{Enabled: true, BufferSize: 32, DropIfFull: true}

	m, err := New().
		WithConfig(cfg).
		WithPool(newTestPool(t, mr)).
		WithDirectory(newMemDirectory(seededUser())).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx := context.Background()
	pair, err := m.Issue(ctx, "u-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := m.Revoke(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	m.Close(ctx) // flushes the dispatcher

	want := []struct {
		event   string
		success bool
	}{
		{"issue", true},
		{"revoke", true},
	}
	for _, w := range want {
		select {
		case ev := <-sink.Events():
			if ev.EventType != w.event || ev.Success != w.success {
				t.Fatalf("got %+v, want %s success=%v", ev, w.event, w.success)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", w.event)
		}
	}
	if m.AuditDropped() != 0 {
		t.Fatalf("dropped = %d, want 0", m.AuditDropped())
	}
}
