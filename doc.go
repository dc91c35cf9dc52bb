// Package tokenvault issues and manages signed credential pairs for
// authenticated sessions: short-lived stateless access tokens and
// long-lived, single-use refresh tokens backed by an ephemeral key-value
// store reached through a bounded connection pool.
//
// The package is designed for concurrent server workloads: Manager
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// tokenvault is the public surface. It exposes [Manager], [Builder],
// [Config], the [Response] envelope, and value types. Signing lives in
// jwt/, record persistence in tokenstore/, connection pooling in pool/,
// and store primitives in kv/. Flow orchestration lives under internal/
// and is never exported.
//
// HTTP routing, user/profile persistence, and password hashing are
// collaborator concerns: callers supply a [UserDirectory] and a
// [CredentialHasher]; adapters exist under directory/ and password/.
//
// # Rotation guarantee
//
// Rotate consumes the refresh record atomically before minting a new
// pair. Two concurrent rotations of the same token cannot both succeed:
// exactly one observes the record, the other finds it already gone.
package tokenvault
