package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Config controls sizing and lifecycle of a [Pool].
//
// New is the only mandatory callback. Validate, when set, runs against a
// connection before it is handed back out; a validation error destroys the
// connection and the acquire proceeds with the next candidate. Destroy,
// when set, runs for every connection the pool discards.
type Config[T any] struct {
	New      func(ctx context.Context) (T, error)
	Validate func(ctx context.Context, conn T) error
	Destroy  func(conn T)

	// Min idle connections are maintained proactively by the eviction
	// loop. Max caps the total number of live connections. Acquire waits
	// up to AcquireTimeout before failing with ErrExhausted.
	Min            int
	Max            int
	AcquireTimeout time.Duration

	// Connections idle longer than IdleTimeout are closed, down to Min,
	// every EvictionInterval. IdleTimeout <= 0 disables eviction.
	IdleTimeout      time.Duration
	EvictionInterval time.Duration
}

type idleConn[T any] struct {
	conn  T
	since time.Time
}

// A grant either hands a live connection to a waiter (direct) or tells
// the waiter a slot opened up and it may create its own.
type grant[T any] struct {
	conn   T
	direct bool
}

type waiter[T any] struct {
	ch chan grant[T]
}

// Pool is a bounded set of reusable connections. All methods are safe for
// concurrent use. Waiters are served in arrival order.
type Pool[T any] struct {
	cfg Config[T]

	mu      sync.Mutex
	cond    *sync.Cond
	idle    []idleConn[T]
	waiters []*waiter[T]
	live    int // idle + checked out
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New validates cfg and starts the pool. Min connections are established
// in the background; Acquire does not wait for the warm-up.
func New[T any](cfg Config[T]) (*Pool[T], error) {
	if cfg.New == nil {
		return nil, errors.New("pool: New callback is required")
	}
	if cfg.Max <= 0 {
		return nil, errors.New("pool: Max must be positive")
	}
	if cfg.Min < 0 || cfg.Min > cfg.Max {
		return nil, errors.New("pool: Min must be within [0, Max]")
	}
	if cfg.AcquireTimeout <= 0 {
		return nil, errors.New("pool: AcquireTimeout must be positive")
	}
	if cfg.IdleTimeout > 0 && cfg.EvictionInterval <= 0 {
		cfg.EvictionInterval = time.Minute
	}

	p := &Pool[T]{
		cfg:  cfg,
		done: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	if cfg.Min > 0 || cfg.IdleTimeout > 0 {
		p.wg.Add(1)
		go p.maintain()
	}

	return p, nil
}

// Acquire returns a connection, creating one if the pool is below Max,
// or waiting FIFO behind earlier callers otherwise. It fails with
// ErrExhausted after AcquireTimeout, with ctx.Err() on cancellation, and
// with ErrClosed once Drain has begun.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T

	timer := time.NewTimer(p.cfg.AcquireTimeout)
	defer timer.Stop()

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return zero, ErrClosed
		}

		if len(p.idle) > 0 {
			ic := p.idle[0]
			p.idle = p.idle[1:]
			p.mu.Unlock()

			if !p.validate(ctx, ic.conn) {
				p.discard(ic.conn)
				continue
			}
			return ic.conn, nil
		}

		if p.live < p.cfg.Max {
			p.live++
			p.mu.Unlock()

			conn, err := p.newConn(ctx)
			if err != nil {
				return zero, fmt.Errorf("%w: %w", ErrCreateFailed, err)
			}
			return conn, nil
		}

		w := &waiter[T]{ch: make(chan grant[T], 1)}
		p.waiters = append(p.waiters, w)
		p.mu.Unlock()

		select {
		case g := <-w.ch:
			if g.direct {
				if !p.validate(ctx, g.conn) {
					p.discard(g.conn)
				} else {
					return g.conn, nil
				}
			}
			// Slot opened (or connection was stale); try again.
		case <-ctx.Done():
			p.abandon(w)
			return zero, ctx.Err()
		case <-timer.C:
			p.abandon(w)
			return zero, ErrExhausted
		}
	}
}

// newConn runs the factory with a live slot already charged, returning
// the slot on failure. The rollback runs in a defer so a panicking
// factory cannot strand the budget and wedge Drain.
func (p *Pool[T]) newConn(ctx context.Context) (conn T, err error) {
	created := false
	defer func() {
		if created {
			return
		}
		p.mu.Lock()
		p.live--
		p.promoteLocked()
		p.cond.Broadcast()
		p.mu.Unlock()
	}()

	conn, err = p.cfg.New(ctx)
	created = err == nil
	return conn, err
}

// Release returns a healthy connection to the pool. It must be called
// exactly once per successful Acquire unless Destroy is called instead.
func (p *Pool[T]) Release(conn T) {
	p.mu.Lock()
	if p.closed {
		p.live--
		p.cond.Broadcast()
		p.mu.Unlock()
		p.destroyConn(conn)
		return
	}
	p.putLocked(conn)
	p.mu.Unlock()
}

// Destroy removes a broken connection from the pool, freeing a slot for
// a future creation. Used instead of Release after an unrecoverable
// connection error.
func (p *Pool[T]) Destroy(conn T) {
	p.mu.Lock()
	p.live--
	p.promoteLocked()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.destroyConn(conn)
}

// Drain stops the pool: pending and future Acquires fail with ErrClosed,
// checked-out connections are awaited (bounded by ctx), and every
// remaining connection is destroyed. Drain is idempotent.
func (p *Pool[T]) Drain(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()

	for _, w := range waiters {
		close(w.ch)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.cond.Broadcast()
			p.mu.Unlock()
		case <-stop:
		}
	}()

	p.mu.Lock()
	for p.live > len(p.idle) && ctx.Err() == nil {
		p.cond.Wait()
	}
	err := ctx.Err()
	idle := p.idle
	p.idle = nil
	p.live -= len(idle)
	p.mu.Unlock()
	close(stop)

	for _, ic := range idle {
		p.destroyConn(ic.conn)
	}
	return err
}

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	Live    int // created connections, idle + checked out
	Idle    int
	Waiting int // callers blocked in Acquire
}

// Stats reports current pool occupancy.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Live:    p.live,
		Idle:    len(p.idle),
		Waiting: len(p.waiters),
	}
}

// putLocked hands a connection to the oldest waiter or parks it idle.
func (p *Pool[T]) putLocked(conn T) {
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w.ch <- grant[T]{conn: conn, direct: true}
		return
	}
	p.idle = append(p.idle, idleConn[T]{conn: conn, since: time.Now()})
}

// promoteLocked wakes the oldest waiter with a create grant after a slot
// opens up, so waiters never strand behind a freed budget.
func (p *Pool[T]) promoteLocked() {
	if len(p.waiters) == 0 {
		return
	}
	w := p.waiters[0]
	p.waiters = p.waiters[1:]
	w.ch <- grant[T]{}
}

// abandon removes a waiter that timed out or was cancelled. If a grant
// raced in first, it is re-routed instead of lost.
func (p *Pool[T]) abandon(w *waiter[T]) {
	p.mu.Lock()
	for i, cand := range p.waiters {
		if cand == w {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			p.mu.Unlock()
			return
		}
	}

	// Already granted: recover whatever was handed over.
	select {
	case g := <-w.ch:
		if g.direct {
			if p.closed {
				p.live--
				p.cond.Broadcast()
				p.mu.Unlock()
				p.destroyConn(g.conn)
				return
			}
			p.putLocked(g.conn)
		} else {
			p.promoteLocked()
		}
	default:
	}
	p.mu.Unlock()
}

func (p *Pool[T]) validate(ctx context.Context, conn T) bool {
	if p.cfg.Validate == nil {
		return true
	}
	return p.cfg.Validate(ctx, conn) == nil
}

// discard drops a connection that failed validation.
func (p *Pool[T]) discard(conn T) {
	p.mu.Lock()
	p.live--
	p.promoteLocked()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.destroyConn(conn)
}

func (p *Pool[T]) destroyConn(conn T) {
	if p.cfg.Destroy != nil {
		p.cfg.Destroy(conn)
	}
}

// maintain runs idle eviction and Min warm-up until Drain.
func (p *Pool[T]) maintain() {
	defer p.wg.Done()

	interval := p.cfg.EvictionInterval
	if interval <= 0 {
		interval = time.Minute
	}

	p.ensureMin()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.evictIdle()
			p.ensureMin()
		}
	}
}

// evictIdle closes connections idle beyond IdleTimeout, oldest first,
// never dropping the pool below Min live connections.
func (p *Pool[T]) evictIdle() {
	if p.cfg.IdleTimeout <= 0 {
		return
	}

	var stale []T
	cutoff := time.Now().Add(-p.cfg.IdleTimeout)

	p.mu.Lock()
	for len(p.idle) > 0 && p.live > p.cfg.Min {
		if p.idle[0].since.After(cutoff) {
			break
		}
		stale = append(stale, p.idle[0].conn)
		p.idle = p.idle[1:]
		p.live--
	}
	p.mu.Unlock()

	for _, conn := range stale {
		p.destroyConn(conn)
	}
}

// ensureMin tops the pool back up to Min live connections. Creation
// errors are dropped; the next tick retries.
func (p *Pool[T]) ensureMin() {
	for {
		p.mu.Lock()
		if p.closed || p.live >= p.cfg.Min {
			p.mu.Unlock()
			return
		}
		p.live++
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.AcquireTimeout)
		conn, err := p.newConn(ctx)
		cancel()
		if err != nil {
			return
		}

		p.mu.Lock()
		if p.closed {
			p.live--
			p.mu.Unlock()
			p.destroyConn(conn)
			return
		}
		p.putLocked(conn)
		p.mu.Unlock()
	}
}
