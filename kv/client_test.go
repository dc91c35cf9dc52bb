package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewFromRedis(rdb)
	t.Cleanup(func() {
		_ = c.Close()
		mr.Close()
	})
	return c, mr
}

func TestDial(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()

	c, err := Dial(context.Background(), Options{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestDialUnreachable(t *testing.T) {
	_, err := Dial(context.Background(), Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected dial failure")
	}
}

func TestGetSetDel(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	n, err := c.Del(ctx, "k", "missing")
	if err != nil {
		t.Fatalf("del: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected del count 1, got %d", n)
	}
}

func TestGetDelConsumesOnce(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.Set(ctx, "once", "payload", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := c.GetDel(ctx, "once")
	if err != nil || !ok || v != "payload" {
		t.Fatalf("first getdel: v=%q ok=%v err=%v", v, ok, err)
	}

	if _, ok, err := c.GetDel(ctx, "once"); err != nil || ok {
		t.Fatalf("second getdel should miss, ok=%v err=%v", ok, err)
	}
}

func TestTTLAndExpire(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if _, ok, err := c.TTL(ctx, "missing"); err != nil || ok {
		t.Fatalf("ttl on missing key: ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", "v", 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	ttl, ok, err := c.TTL(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("ttl: ok=%v err=%v", ok, err)
	}
	if ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	set, err := c.Expire(ctx, "k", time.Second)
	if err != nil || !set {
		t.Fatalf("expire: set=%v err=%v", set, err)
	}

	mr.FastForward(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("key survived its TTL")
	}
	// The key is gone now; the TTL lookup must say absent, not report
	// the raw protocol sentinel as a live duration.
	if ttl, ok, err := c.TTL(ctx, "k"); err != nil || ok || ttl != 0 {
		t.Fatalf("ttl after eviction: ttl=%v ok=%v err=%v", ttl, ok, err)
	}

	if err := c.Set(ctx, "noexp", "v", 0); err != nil {
		t.Fatalf("set without ttl: %v", err)
	}
	ttl, ok, err = c.TTL(ctx, "noexp")
	if err != nil || !ok {
		t.Fatalf("ttl on no-expiry key: ok=%v err=%v", ok, err)
	}
	if ttl >= 0 {
		t.Fatalf("no-expiry ttl = %v, want negative sentinel", ttl)
	}
}

func TestHashOps(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	n, err := c.HSet(ctx, "h", map[string]string{"userId": "u-1", "device": "cli"})
	if err != nil {
		t.Fatalf("hset: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 new fields, got %d", n)
	}

	v, ok, err := c.HGet(ctx, "h", "userId")
	if err != nil || !ok || v != "u-1" {
		t.Fatalf("hget: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, err := c.HGet(ctx, "h", "nope"); err != nil || ok {
		t.Fatalf("hget absent field: ok=%v err=%v", ok, err)
	}

	all, err := c.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 2 || all["device"] != "cli" {
		t.Fatalf("unexpected hash contents %v", all)
	}

	deleted, err := c.HDel(ctx, "h", "device", "nope")
	if err != nil {
		t.Fatalf("hdel: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted field, got %d", deleted)
	}
}

func TestUnavailableClassification(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	mr.Close()

	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after store shutdown, got %v", err)
	}
}
