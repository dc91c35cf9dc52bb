package tokenstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/hexlayer/tokenvault/kv"
	"github.com/hexlayer/tokenvault/pool"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis, *pool.Pool[*kv.Client]) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}

	// Capture the address now: the outage test closes mr and then
	// triggers a reconnect, and Addr panics on a closed server.
	addr := mr.Addr()
	p, err := pool.New(pool.Config[*kv.Client]{
		New: func(ctx context.Context) (*kv.Client, error) {
			return kv.Dial(ctx, kv.Options{Addr: addr})
		},
		Validate: func(ctx context.Context, c *kv.Client) error {
			return c.Ping(ctx)
		},
		Destroy:        func(c *kv.Client) { _ = c.Close() },
		Max:            4,
		AcquireTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("pool.New failed: %v", err)
	}

	t.Cleanup(func() {
		_ = p.Drain(context.Background())
		mr.Close()
	})
	return New(p, ""), mr, p
}

func TestSaveAndPeek(t *testing.T) {
	s, mr, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tid-1", "u-1", 30*24*time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := mr.Get("refresh-token:tid-1")
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if got != `{"userId":"u-1"}` {
		t.Fatalf("unexpected record payload %q", got)
	}

	userID, err := s.Peek(ctx, "tid-1")
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if userID != "u-1" {
		t.Fatalf("peek returned %q", userID)
	}

	ttl, err := s.TTL(ctx, "tid-1")
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 29*24*time.Hour || ttl > 30*24*time.Hour {
		t.Fatalf("unexpected record ttl %v", ttl)
	}
}

func TestSaveRejectsNonPositiveTTL(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.Save(context.Background(), "tid-1", "u-1", 0); err == nil {
		t.Fatal("expected ttl rejection")
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tid-1", "u-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	userID, err := s.Consume(ctx, "tid-1")
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if userID != "u-1" {
		t.Fatalf("consume returned %q", userID)
	}

	if _, err := s.Consume(ctx, "tid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second consume: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Peek(ctx, "tid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("peek after consume: expected ErrNotFound, got %v", err)
	}
}

func TestConsumeConcurrentSingleWinner(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tid-race", "u-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Consume(ctx, "tid-race")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("unexpected consume error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly one successful consume, got %d", success)
	}
}

func TestRecordEvictsWithTTL(t *testing.T) {
	s, mr, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tid-1", "u-1", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := s.Consume(ctx, "tid-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected eviction, got %v", err)
	}
}

func TestPingAndPoolRecycling(t *testing.T) {
	s, mr, p := newTestStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	// Kill the server mid-flight: the store must destroy, not recycle,
	// the dead connection.
	mr.Close()
	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected ping failure after store shutdown")
	}
	if st := p.Stats(); st.Idle != 0 {
		t.Fatalf("dead connection recycled into idle set: %+v", st)
	}
}
