// Package tokenstore persists the live record behind every refresh token:
// key "refresh-token:{tokenID}", value {"userId":"..."}, TTL equal to the
// token's signed lifetime. The record is the authoritative revocation
// source of truth — a refresh token without a record is dead, whatever
// its signature says.
//
// All store access goes through the connection pool with scoped
// acquisition: acquire immediately before the call, release immediately
// after, on every exit path. Connections that fail at the transport level
// are destroyed instead of released.
//
// # What this package must NOT do
//
//   - Parse or verify token signatures.
//   - Hold a pooled connection across calls.
package tokenstore
