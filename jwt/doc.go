// Package jwt issues and verifies the two signed credential kinds used by
// tokenvault: short-lived access tokens and long-lived refresh tokens.
//
// # Key separation
//
// Access and refresh tokens are signed with distinct HMAC-SHA256 secrets.
// A leaked access-signing secret therefore cannot be used to forge refresh
// tokens. The algorithm is pinned: parsers reject any token whose header
// advertises a method other than HS256.
//
// # Architecture boundaries
//
// This package is pure computation over claims and signatures. Refresh
// validity beyond signature and expiry — the live store record — is the
// token store's concern, not this package's.
//
// # What this package must NOT do
//
//   - Access Redis or perform any I/O.
//   - Import tokenvault, pool, kv, or tokenstore.
package jwt
