// Package credential persists the access token and session between runs.
//
// A Store keeps the token in memory and mirrors every change to a Backend
// at the moment it happens. Backends are best-effort: a failing backend is
// logged and otherwise ignored, and the in-memory value stays authoritative
// for the life of the process.
//
// Available backends:
//
//   - MemoryBackend: process-local map, useful in tests.
//   - NopBackend: persists nothing, for non-interactive execution.
//   - FileBackend: TOML file written atomically with mode 0600.
//   - SQLiteBackend: key/value table in an SQLite database.
//
// SessionJar is a cookie jar that keeps the server's session cookies in the
// same Backend so a refresh works in a later process.
package credential
