// Package store provides SQLite-backed durable storage for processed runs.
//
// Every run handed to the store becomes one row of the append-only runs
// table. Raw input and the full result envelope are kept as zstd-compressed
// blobs next to the columns used for listing and statistics.
//
// # Ordering
//
// Listing queries order by seq, the engine's logical clock, and break ties
// on id with BINARY collation. Wall-clock created_at is informational only.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - A single open connection serializes writers
package store
