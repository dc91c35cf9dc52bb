package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps any transport-level failure talking to the store.
var ErrUnavailable = errors.New("kv store unavailable")

// Options describes how to reach the backing store.
type Options struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client exposes the primitive string, hash, and TTL operations used by
// the token lifecycle layer, bound to a single underlying connection.
type Client struct {
	conn *redis.Client
}

// Dial opens one connection to the store and verifies it with a ping.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 2 * time.Second
	}

	conn := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Username:    opts.Username,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
		// The pool above this client owns concurrency; one socket per client.
		PoolSize:       1,
		MaxIdleConns:   1,
		MaxActiveConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := conn.Ping(pingCtx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Client{conn: conn}, nil
}

// NewFromRedis wraps an existing go-redis client. Used by tests.
func NewFromRedis(conn *redis.Client) *Client {
	return &Client{conn: conn}
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Ping reports whether the connection is still usable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get reads the string at key. ok is false when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	value, err = c.conn.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

// Set writes value at key. ttl <= 0 stores without expiry.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.conn.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Del removes keys and returns how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.conn.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// GetDel atomically reads and removes the string at key. ok is false when
// the key was absent, which is what makes single-use consumption safe
// under concurrent callers: at most one caller observes ok.
func (c *Client) GetDel(ctx context.Context, key string) (value string, ok bool, err error) {
	value, err = c.conn.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

// TTL returns the remaining lifetime of key. ok is false when the key is
// absent; a key without expiry reports ok with a negative duration.
func (c *Client) TTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error) {
	ttl, err = c.conn.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// go-redis leaves the protocol sentinels unscaled: -2 means no such
	// key, -1 means no expiry set.
	switch ttl {
	case -2:
		return 0, false, nil
	case -1:
		return -1, true, nil
	}
	return ttl, true, nil
}

// Expire sets a fresh TTL on key, reporting whether the key existed.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := c.conn.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return set, nil
}

// HSet writes fields into the hash at key, returning how many fields
// were newly created.
func (c *Client) HSet(ctx context.Context, key string, fields map[string]string) (int64, error) {
	args := make([]interface{}, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	n, err := c.conn.HSet(ctx, key, args...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// HGet reads one field from the hash at key. ok is false when the key or
// field is absent.
func (c *Client) HGet(ctx context.Context, key, field string) (value string, ok bool, err error) {
	value, err = c.conn.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

// HDel removes fields from the hash at key and returns how many existed.
func (c *Client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	n, err := c.conn.HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// HGetAll reads the whole hash at key. An absent key yields an empty map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := c.conn.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return m, nil
}
