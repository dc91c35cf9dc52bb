// Package postgres implements the user directory over a pgx connection
// pool. It is the only package in the module that speaks SQL; the token
// lifecycle core sees it exclusively through the UserDirectory
// interface.
//
// # What this package must NOT do
//
//   - Hash passwords or enforce password policy.
//   - Issue, parse, or store tokens.
package postgres
