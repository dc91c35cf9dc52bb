// Package internal contains helpers that are intentionally private to
// tokenvault, including token-identifier generation.
//
// # Sub-packages
//
//   - flows — pure-function flow orchestrators for every Manager operation
//
// # What this package must NOT do
//
//   - Export types that appear in the public tokenvault API.
//   - Be imported by any package outside the tokenvault module.
package internal
