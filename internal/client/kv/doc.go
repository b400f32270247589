// Package kv is the platform-neutral local key-value store of the client.
//
// Two backends exist: SQLiteBackend (native preference store) and
// FileBackend (browser-style local storage persisted to a JSON file).
// Open picks one according to the configured platform. Adapter wraps a
// backend with JSON encoding and never surfaces storage errors to callers:
// failures are logged and reported as a false/absent result.
package kv
