// Package flows implements the token lifecycle operations as plain
// functions over an explicit dependency struct. Each flow returns a
// Failure classification instead of a user-facing error; the public
// Manager maps classifications to sentinel errors, metrics and audit
// events so that the flow logic stays free of presentation concerns.
//
// # What this package must NOT do
//
//   - Log, count metrics, or emit audit events.
//   - Return errors from the public tokenvault error set.
//   - Touch the connection pool directly; all store access goes
//     through the token store.
package flows
