// Package secevent provides a bounded, append-only record of
// security-relevant occurrences in the session lifecycle: creation,
// expiry, hijack attempts, rotation, concurrency evictions.
//
// Events are immutable and reference sessions by token, so they outlive
// a removed session for audit purposes. Storage is capacity-bounded with
// FIFO eviction; MemoryStorage keeps the log in process, PostgresStorage
// persists it. Logger appends, Reader queries — the split keeps the
// request path write-only.
package secevent
