package tokenvault

import (
	"context"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret-with-enough-entropy-0")
	cfg.JWT.RefreshSecret = []byte("refresh-secret-with-enough-entropy-0")
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.JWT.AccessTTL != 2*time.Hour {
		t.Fatalf("AccessTTL = %s, want 2h", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 30*24*time.Hour {
		t.Fatalf("RefreshTTL = %s, want 720h", cfg.JWT.RefreshTTL)
	}
	if cfg.Pool.Max != 10 || cfg.Pool.AcquireTimeout != 5*time.Second {
		t.Fatalf("pool defaults: %+v", cfg.Pool)
	}
	// Secrets must never default.
	if len(cfg.JWT.AccessSecret) != 0 || len(cfg.JWT.RefreshSecret) != 0 {
		t.Fatal("default config carries secrets")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"short access secret", func(c *Config) { c.JWT.AccessSecret = []byte("short") }, false},
		{"short refresh secret", func(c *Config) { c.JWT.RefreshSecret = []byte("short") }, false},
		{"shared secret", func(c *Config) { c.JWT.RefreshSecret = c.JWT.AccessSecret }, false},
		{"zero access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }, false},
		{"access outlives refresh", func(c *Config) { c.JWT.AccessTTL = c.JWT.RefreshTTL }, false},
		{"no store addr", func(c *Config) { c.Store.Addr = "" }, false},
		{"zero max", func(c *Config) { c.Pool.Max = 0 }, false},
		{"min above max", func(c *Config) { c.Pool.Min = 11 }, false},
		{"negative min", func(c *Config) { c.Pool.Min = -1 }, false},
		{"zero acquire timeout", func(c *Config) { c.Pool.AcquireTimeout = 0 }, false},
		{"audit on without buffer", func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("Validate accepted a bad config")
			}
		})
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = []byte("short")
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("Build accepted a bad config")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(validConfig())
	// First Build fails on the unreachable default store address or
	// succeeds against a local redis; either way the second call must be
	// rejected outright.
	m, _ := b.Build()
	if m != nil {
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			m.Close(ctx)
		})
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("builder reused")
	}
}
