// Package memdb implements an in-memory backend.Conn. It keeps every
// container family of the storage interface in process memory: flat
// key-value entries with TTL support, hash namespaces, sorted sets and
// queues. It is the reference engine for tests and doubles as an embedded
// store for single-process deployments that do not need persistence.
//
// The package focuses on:
//   - Lock-free namespace lookup through concurrent maps, with fine-grained
//     locking inside each container
//   - Ordered scans over B-tree views so range semantics match the on-disk
//     and remote engines exactly
//   - TTL expiry driven by a min-heap of scheduled expiries and a background
//     sweeper, with lazy filtering on read so expired entries are never
//     served between sweeps
//
// Key Components:
//
//   - memdbImpl: The engine. Holds one concurrent map per container family
//     and the expiry machinery.
//
//   - Options: Engine configuration (sweep interval).
//
//   - internal: Container primitives (Hash, ZSet, Queue, ExpiryHeap).
//
// Thread Safety:
//
//	All operations are safe for concurrent use. Containers synchronize
//	themselves; flat key-value writes additionally serialize with the
//	expiry heap.
//
// Usage:
//
//	conn := memdb.New(nil)
//	defer conn.Close()
//	err := conn.HSet(ctx, "bucket", "title", "home")
package memdb
