// Package storage persists flowchart documents in a pluggable key-value store.
//
// # Stores
//
// A [Store] is a byte-level key-value store. Implementations:
//   - [MemoryStore]: process-local map, for tests and the HTTP server's
//     ephemeral mode
//   - [FileStore]: one JSON file per key under a directory (CLI default)
//   - [SQLiteStore]: a single-table SQLite database
//   - [RedisStore]: Redis, for multi-instance server deployments
//   - [MongoStore]: one MongoDB collection
//   - [NullStore]: discards writes
//
// [Open] selects a backend from a [Config].
//
// # Never-failing access
//
// Flowchart editing must keep working when storage misbehaves. [Persister]
// wraps a store so that loads fall back to a default value and saves log a
// warning instead of returning an error. Transient backend errors, marked
// with [Retryable], are retried with exponential backoff first.
//
// # Documents
//
// [Repository] maps a named document onto four keys produced by a [Keyer]:
//
//	flowchart:<doc>:nodes    JSON array of nodes (tree references as ids only)
//	flowchart:<doc>:edges    JSON array of edges
//	flowchart:<doc>:title    JSON string
//	flowchart:<doc>:counter  JSON number, the next node id
//
// [ScopedKeyer] prefixes every key, so several tenants can share one store.
package storage
