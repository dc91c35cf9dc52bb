package pool

import "errors"

var (
	// ErrExhausted is returned by Acquire when no connection became
	// available within the configured acquire timeout.
	ErrExhausted = errors.New("pool exhausted")
	// ErrClosed is returned by Acquire once Drain has begun.
	ErrClosed = errors.New("pool closed")
	// ErrCreateFailed wraps the underlying error when a new connection
	// could not be established. A failed creation never counts against
	// the pool's live-connection budget.
	ErrCreateFailed = errors.New("connection create failed")
)
