package tokenvault

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Config defines the tokenvault configuration surface.
//
// Config instances are intended to be configured during initialization
// and then treated as immutable; secrets are read-only process-wide
// state, safe for unsynchronized concurrent reads.
type Config struct {
	JWT     JWTConfig
	Store   StoreConfig
	Pool    PoolConfig
	Audit   AuditConfig
	Metrics MetricsConfig

	// Logger receives non-fatal warnings (audit overflow, eviction
	// failures). A nil Logger is replaced with zap.NewNop().
	Logger *zap.Logger
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries signing secrets and token lifetimes. AccessSecret
// and RefreshSecret must be distinct, at least 32 bytes each.
type JWTConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig locates the backing key-value store.
type StoreConfig struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	KeyPrefix   string // defaults to "refresh-token:"
	DialTimeout time.Duration
}

/*
====================================
POOL CONFIG
====================================
*/

// PoolConfig sizes the connection pool in front of the store.
type PoolConfig struct {
	Min              int
	Max              int
	AcquireTimeout   time.Duration
	IdleTimeout      time.Duration
	EvictionInterval time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the lock-free operation counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 2h access tokens,
// 30-day refresh tokens, a 10-connection pool with a 5s acquire timeout.
// Secrets are intentionally absent and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  2 * time.Hour,
			RefreshTTL: 30 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Addr:        "127.0.0.1:6379",
			DialTimeout: 2 * time.Second,
		},
		Pool: PoolConfig{
			Min:              1,
			Max:              10,
			AcquireTimeout:   5 * time.Second,
			IdleTimeout:      5 * time.Minute,
			EvictionInterval: time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if len(c.JWT.AccessSecret) < 32 {
		return errors.New("JWT.AccessSecret must be at least 32 bytes")
	}
	if len(c.JWT.RefreshSecret) < 32 {
		return errors.New("JWT.RefreshSecret must be at least 32 bytes")
	}
	if string(c.JWT.AccessSecret) == string(c.JWT.RefreshSecret) {
		return errors.New("JWT secrets must be distinct")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT TTLs must be positive")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return errors.New("JWT.AccessTTL must be shorter than JWT.RefreshTTL")
	}
	if c.Store.Addr == "" {
		return errors.New("Store.Addr is required")
	}
	if c.Pool.Max <= 0 {
		return errors.New("Pool.Max must be positive")
	}
	if c.Pool.Min < 0 || c.Pool.Min > c.Pool.Max {
		return errors.New("Pool.Min must be within [0, Pool.Max]")
	}
	if c.Pool.AcquireTimeout <= 0 {
		return errors.New("Pool.AcquireTimeout must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}
