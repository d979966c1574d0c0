// Package backend defines the storage interface of the bucket key-value
// system. A backend holds flat key-value entries with optional expiry, named
// hash namespaces, named sorted sets and named queues - the four container
// families the higher layers are built on. Implementations live in the
// engines/ and remote/ subdirectories and are interchangeable behind the
// Conn interface.
//
// The package focuses on:
//   - A single interface (Conn) capturing the full container surface:
//     flat kv with TTL, hashes, sorted sets, queues and admin queries
//   - Precise range semantics shared by all implementations: forward scans
//     cover the half-open interval (start, end], reverse scans walk below
//     start (exclusive) down to end (inclusive), empty bounds are unbounded
//   - Honest error reporting: implementations return errors, the typed
//     adapter layered on top decides how to degrade
//
// Key Components:
//
//   - Conn: Core interface that all storage implementations must satisfy.
//     All blocking operations take a context.Context.
//
//   - Entry / ScoredEntry: Result pairs for hash scans and sorted-set scans.
//
//   - Score: Optional sorted-set score bound. The zero value means
//     "unbounded", mirroring the empty-string bound of the wire protocol.
//
// Implementations:
//
//   - engines/memdb: In-memory engine with sharded concurrent namespace
//     maps, ordered scans and TTL expiry. Used in tests and as an embedded
//     store for single-process deployments.
//
//   - engines/boltdb: Persistent single-file engine backed by bbolt.
//
//   - remote/ssdb: Client for a remote SSDB-compatible server, with a
//     connection pool, retries and command metrics.
//
// Thread Safety:
//
//	All Conn implementations are safe for concurrent use by multiple
//	goroutines.
package backend
