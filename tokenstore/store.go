package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hexlayer/tokenvault/kv"
	"github.com/hexlayer/tokenvault/pool"
)

// DefaultPrefix is the key namespace for refresh-token records.
const DefaultPrefix = "refresh-token:"

// ErrNotFound is returned when no live record exists for a token ID —
// the record was consumed, revoked, or evicted by its TTL. The three
// causes are indistinguishable by design.
var ErrNotFound = errors.New("refresh token record not found")

// Record is the JSON value stored per refresh token.
type Record struct {
	UserID string `json:"userId"`
}

// Store reads and writes refresh-token records through a connection pool.
type Store struct {
	pool   *pool.Pool[*kv.Client]
	prefix string
}

// New creates a Store over the given pool. prefix defaults to
// [DefaultPrefix] when empty.
func New(p *pool.Pool[*kv.Client], prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{pool: p, prefix: prefix}
}

func (s *Store) key(tokenID string) string {
	return s.prefix + tokenID
}

// withClient runs fn against one pooled connection. The slot is held for
// exactly the duration of fn; transport failures destroy the connection
// so the pool replaces it instead of recycling a dead socket.
func (s *Store) withClient(ctx context.Context, fn func(c *kv.Client) error) error {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}

	err = fn(c)
	if errors.Is(err, kv.ErrUnavailable) {
		s.pool.Destroy(c)
	} else {
		s.pool.Release(c)
	}
	return err
}

// Save writes the record for tokenID with the given TTL. ttl must match
// the refresh token's signed lifetime; the caller derives both from the
// same instant.
func (s *Store) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("tokenstore: non-positive ttl for %q", tokenID)
	}
	data, err := json.Marshal(Record{UserID: userID})
	if err != nil {
		return err
	}
	return s.withClient(ctx, func(c *kv.Client) error {
		return c.Set(ctx, s.key(tokenID), string(data), ttl)
	})
}

// Consume atomically reads and deletes the record for tokenID, returning
// the recorded user ID. Under concurrent callers at most one Consume
// succeeds; the rest get ErrNotFound. This is the single-use guarantee.
func (s *Store) Consume(ctx context.Context, tokenID string) (string, error) {
	var rec Record
	err := s.withClient(ctx, func(c *kv.Client) error {
		raw, ok, err := c.GetDel(ctx, s.key(tokenID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return fmt.Errorf("tokenstore: corrupt record for %q: %v", tokenID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}

// Peek reads the record without consuming it.
func (s *Store) Peek(ctx context.Context, tokenID string) (string, error) {
	var rec Record
	err := s.withClient(ctx, func(c *kv.Client) error {
		raw, ok, err := c.Get(ctx, s.key(tokenID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return fmt.Errorf("tokenstore: corrupt record for %q: %v", tokenID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return rec.UserID, nil
}

// TTL reports the remaining lifetime of the record for tokenID.
func (s *Store) TTL(ctx context.Context, tokenID string) (time.Duration, error) {
	var ttl time.Duration
	err := s.withClient(ctx, func(c *kv.Client) error {
		d, ok, err := c.TTL(ctx, s.key(tokenID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		ttl = d
		return nil
	})
	if err != nil {
		return 0, err
	}
	return ttl, nil
}

// Ping checks store reachability through the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.withClient(ctx, func(c *kv.Client) error {
		return c.Ping(ctx)
	})
}
