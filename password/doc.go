// Package password provides the bcrypt credential hasher used by the
// account flows.
//
// # What this package must NOT do
//
//   - Enforce password policy; length and complexity rules belong to the
//     account flows, not the hasher.
//   - Log or otherwise retain plaintext passwords.
package password
