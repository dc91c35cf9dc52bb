package tokenvault

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hexlayer/tokenvault/internal"
	"github.com/hexlayer/tokenvault/internal/flows"
	"github.com/hexlayer/tokenvault/jwt"
	"github.com/hexlayer/tokenvault/kv"
	"github.com/hexlayer/tokenvault/pool"
	"github.com/hexlayer/tokenvault/tokenstore"
)

// Manager is the token lifecycle engine. All methods are safe for
// concurrent use; the typed-error API here is the source of truth and
// the envelope API in manager_api.go is a thin rendering of it.
type Manager struct {
	cfg    Config
	logger *zap.Logger

	jwt      *jwt.Manager
	pool     *pool.Pool[*kv.Client]
	ownsPool bool
	store    *tokenstore.Store

	directory UserDirectory
	hasher    CredentialHasher

	metrics *metricSet
	audit   *auditDispatcher

	closed atomic.Bool
}

func newManager(cfg Config, p *pool.Pool[*kv.Client], ownsPool bool, dir UserDirectory, hasher CredentialHasher, sink AuditSink) (*Manager, error) {
	jm, err := jwt.NewManager(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		logger:    cfg.Logger,
		jwt:       jm,
		pool:      p,
		ownsPool:  ownsPool,
		store:     tokenstore.New(p, cfg.Store.KeyPrefix),
		directory: dir,
		hasher:    hasher,
		audit:     newAuditDispatcher(cfg.Audit, sink),
	}
	if cfg.Metrics.Enabled {
		m.metrics = &metricSet{}
	}
	return m, nil
}

// deps builds the flow dependency set. Built per call so overrides in
// tests never race with in-flight operations.
func (m *Manager) deps() flows.Deps {
	return flows.Deps{
		JWT:         m.jwt,
		Store:       m.store,
		ResolveUser: m.resolveUser,
		NewTokenID:  internal.NewTokenID,
		Now:         time.Now,
	}
}

// resolveUser adapts the directory to the flow contract. Without a
// directory the subject is taken at face value from the token, which
// keeps the library usable for callers that manage users elsewhere; the
// re-issued access token then carries no display claims.
func (m *Manager) resolveUser(ctx context.Context, userID string) (*flows.Subject, bool, error) {
	if m.directory == nil {
		return &flows.Subject{ID: userID}, true, nil
	}
	u, err := m.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		return nil, false, nil
	}
	return &flows.Subject{ID: u.ID, Email: u.Email, FullName: u.FullName}, true, nil
}

// Issue mints an access/refresh pair for userID. When a directory is
// configured the subject must exist in it; the display claims on the
// access token come from the directory record, not from the caller.
func (m *Manager) Issue(ctx context.Context, userID string) (*TokenPair, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}
	if userID == "" {
		m.metricInc(MetricIssueFailure)
		return nil, fmt.Errorf("%w: empty user id", ErrUserInvalid)
	}

	sub, ok, err := m.resolveUser(ctx, userID)
	if err != nil {
		m.metricInc(MetricIssueFailure)
		m.auditEmit(ctx, "issue", userID, "", false, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		m.metricInc(MetricIssueFailure)
		m.auditEmit(ctx, "issue", userID, "", false, ErrUserInvalid)
		return nil, ErrUserInvalid
	}

	res := flows.RunIssue(ctx, m.deps(), sub)
	if res.Kind != flows.FailureNone {
		m.metricInc(MetricIssueFailure)
		m.auditEmit(ctx, "issue", userID, "", false, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, res.Err)
	}

	m.metricInc(MetricIssueSuccess)
	m.auditEmit(ctx, "issue", userID, res.Pair.TokenID, true, nil)
	return pairOf(res.Pair), nil
}

// Rotate exchanges a refresh token for a fresh pair. The old token's
// record is consumed before anything new is minted, so presenting the
// same token twice fails the second time no matter the interleaving.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	res := flows.RunRotate(ctx, m.deps(), refreshToken)
	switch res.Kind {
	case flows.FailureNone:
		m.metricInc(MetricRotateSuccess)
		m.auditEmit(ctx, "rotate", "", res.Pair.TokenID, true, nil)
		return pairOf(res.Pair), nil
	case flows.FailureRecordNotFound:
		m.metricInc(MetricRotateReplayBlocked)
		m.auditEmit(ctx, "rotate", "", "", false, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrRefreshInvalid, res.Err)
	case flows.FailureTokenInvalid:
		m.metricInc(MetricRotateFailure)
		m.auditEmit(ctx, "rotate", "", "", false, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, res.Err)
	case flows.FailureUserInvalid:
		m.metricInc(MetricRotateFailure)
		m.auditEmit(ctx, "rotate", "", "", false, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrUserInvalid, res.Err)
	default:
		m.metricInc(MetricRotateFailure)
		m.auditEmit(ctx, "rotate", "", "", false, res.Err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, res.Err)
	}
}

// Revoke invalidates a refresh token. Revoking a token whose record is
// already gone is an error, not a no-op: the caller learns the token was
// not live.
func (m *Manager) Revoke(ctx context.Context, refreshToken string) error {
	if m.closed.Load() {
		return ErrManagerClosed
	}

	res := flows.RunRevoke(ctx, m.deps(), refreshToken)
	switch res.Kind {
	case flows.FailureNone:
		m.metricInc(MetricRevokeSuccess)
		m.auditEmit(ctx, "revoke", "", "", true, nil)
		return nil
	case flows.FailureTokenInvalid:
		m.metricInc(MetricRevokeFailure)
		m.auditEmit(ctx, "revoke", "", "", false, res.Err)
		return fmt.Errorf("%w: %v", ErrTokenInvalid, res.Err)
	case flows.FailureRecordNotFound:
		m.metricInc(MetricRevokeFailure)
		m.auditEmit(ctx, "revoke", "", "", false, res.Err)
		return fmt.Errorf("%w: %v", ErrRefreshInvalid, res.Err)
	default:
		m.metricInc(MetricRevokeFailure)
		m.auditEmit(ctx, "revoke", "", "", false, res.Err)
		return fmt.Errorf("%w: %v", ErrInternal, res.Err)
	}
}

// Introspect verifies an access token's signature and expiry and returns
// its claims. It touches neither the store nor the directory: access
// tokens stay valid for their full lifetime even after the matching
// refresh token is revoked.
func (m *Manager) Introspect(ctx context.Context, accessToken string) (*Introspection, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	res := flows.RunIntrospect(ctx, m.deps(), accessToken)
	if res.Kind != flows.FailureNone {
		m.metricInc(MetricIntrospectFailure)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, res.Err)
	}

	m.metricInc(MetricIntrospectSuccess)
	it := res.Introspection
	return &Introspection{
		Subject:   it.UserID,
		UserID:    it.UserID,
		Email:     it.Email,
		FullName:  it.FullName,
		TokenID:   it.TokenID,
		IssuedAt:  it.IssuedAt,
		ExpiresAt: it.ExpiresAt,
	}, nil
}

// Ping checks store reachability through the pool.
func (m *Manager) Ping(ctx context.Context) error {
	if m.closed.Load() {
		return ErrManagerClosed
	}
	err := m.store.Ping(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

// Close stops the manager: new operations fail with ErrManagerClosed,
// buffered audit events are flushed, and a pool the manager dialed
// itself is drained. An injected pool is left to its owner.
func (m *Manager) Close(ctx context.Context) error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.audit.Close()
	if m.ownsPool {
		return m.pool.Drain(ctx)
	}
	return nil
}

// MetricsSnapshot returns a copy of all operation counters. With metrics
// disabled every counter reads zero.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.snapshot()
}

// AuditDropped reports audit events lost to backpressure.
func (m *Manager) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// PoolStats exposes the connection pool gauges.
func (m *Manager) PoolStats() pool.Stats {
	return m.pool.Stats()
}

// StoreTTL reports the remaining lifetime of a refresh record without
// consuming it. Intended for diagnostics and tests.
func (m *Manager) StoreTTL(ctx context.Context, tokenID string) (time.Duration, error) {
	d, err := m.store.TTL(ctx, tokenID)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return 0, fmt.Errorf("%w: %v", ErrRefreshInvalid, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return d, nil
}

func (m *Manager) metricInc(id MetricID) {
	m.metrics.inc(id)
}

func (m *Manager) auditEmit(ctx context.Context, event, userID, tokenID string, success bool, cause error) {
	if m.audit == nil {
		return
	}
	e := AuditEvent{
		Timestamp: time.Now(),
		EventType: event,
		UserID:    userID,
		TokenID:   tokenID,
		Success:   success,
	}
	if cause != nil {
		e.Error = cause.Error()
	}
	m.audit.Emit(ctx, e)
}

func pairOf(p *flows.IssuedPair) *TokenPair {
	return &TokenPair{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
		Type:         TokenType,
	}
}
