package tokenvault

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hexlayer/tokenvault/kv"
	"github.com/hexlayer/tokenvault/pool"
)

// Builder assembles a Manager from configuration and collaborators.
//
// Builder instances are intended to be configured during initialization
// and then treated as immutable; a Builder must not be reused after
// Build.
type Builder struct {
	config Config

	directory UserDirectory
	hasher    CredentialHasher
	auditSink AuditSink
	pool      *pool.Pool[*kv.Client]
	logger    *zap.Logger

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithDirectory sets the user directory consulted during rotation and
// the account flows.
func (b *Builder) WithDirectory(dir UserDirectory) *Builder {
	b.directory = dir
	return b
}

// WithHasher sets the password hasher used by the account flows.
func (b *Builder) WithHasher(h CredentialHasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink sets the destination for audit events; it also enables
// auditing unless the configuration says otherwise.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithPool injects a pre-built connection pool, bypassing the dial
// configured in Store/Pool config. Tests use this to run against an
// in-process store.
func (b *Builder) WithPool(p *pool.Pool[*kv.Client]) *Builder {
	b.pool = p
	return b
}

// WithLogger sets the logger for non-fatal warnings.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration, dials the store pool when none was
// injected, and returns a ready Manager. On any error nothing is left
// running.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := b.config
	if cfg.Logger == nil {
		cfg.Logger = b.logger
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := b.pool
	ownsPool := false
	if p == nil {
		var err error
		p, err = newStorePool(cfg)
		if err != nil {
			return nil, err
		}
		ownsPool = true
	}

	m, err := newManager(cfg, p, ownsPool, b.directory, b.hasher, b.auditSink)
	if err != nil {
		if ownsPool {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.DialTimeout)
			defer cancel()
			_ = p.Drain(ctx)
		}
		return nil, err
	}
	return m, nil
}

// newStorePool builds the connection pool the kv client hides behind.
// Each pooled connection is a single-socket client; concurrency lives in
// the pool, not in the driver.
func newStorePool(cfg Config) (*pool.Pool[*kv.Client], error) {
	return pool.New(pool.Config[*kv.Client]{
		New: func(ctx context.Context) (*kv.Client, error) {
			return kv.Dial(ctx, kv.Options{
				Addr:        cfg.Store.Addr,
				Username:    cfg.Store.Username,
				Password:    cfg.Store.Password,
				DB:          cfg.Store.DB,
				DialTimeout: cfg.Store.DialTimeout,
			})
		},
		Validate: func(ctx context.Context, c *kv.Client) error { return c.Ping(ctx) },
		Destroy:  func(c *kv.Client) { c.Close() },
		Min:      cfg.Pool.Min,
		Max:      cfg.Pool.Max,

		AcquireTimeout:   cfg.Pool.AcquireTimeout,
		IdleTimeout:      cfg.Pool.IdleTimeout,
		EvictionInterval: cfg.Pool.EvictionInterval,
	})
}
