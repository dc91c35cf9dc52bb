// Package kv is a thin protocol-level client for the ephemeral key-value
// store. A [Client] wraps exactly one live connection; it never acquires
// or releases pool slots itself. Callers own the acquire/release
// discipline around every call.
//
// Absent keys are reported through the ok return, not through errors.
// Transport failures are wrapped in [ErrUnavailable] so callers can
// separate "key missing" from "store unreachable".
package kv
