// Package pool implements a bounded, generic resource pool with lazy
// creation, FIFO waiter service, idle eviction, and orderly teardown.
//
// A [Pool] owns every connection it creates. Callers borrow a connection
// with [Pool.Acquire] and must return it with exactly one call to
// [Pool.Release] (healthy) or [Pool.Destroy] (broken), on every exit path.
//
// # What this package must NOT do
//
//   - Know anything about Redis or tokens. The element type is a type
//     parameter; lifecycle behavior comes from [Config] callbacks.
//   - Retry failed creations on behalf of the caller.
package pool
