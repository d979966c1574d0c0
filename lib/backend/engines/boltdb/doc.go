// Package boltdb implements a persistent backend.Conn on top of a single
// bbolt database file. It maps the storage interface's container families
// onto nested bolt buckets: one tree per hash namespace, twin key/score
// trees per sorted set, index-keyed entries per queue and an envelope-coded
// flat key-value tree with TTL support.
//
// The package focuses on:
//   - Durability without a server process: one file, one writer, crash-safe
//     through bbolt's copy-on-write B+tree
//   - Identical range semantics to the other engines, implemented directly
//     on bolt cursors (forward scans seek past the exclusive start bound,
//     reverse scans step back from it)
//   - Order-preserving binary encodings: sorted-set scores are stored
//     sign-flipped big-endian so byte order equals numeric order, queue
//     entries use monotonically growing big-endian indexes
//
// Layout:
//
//	hashes/<ns>      field key -> wire value
//	zsets/<ns>/k     member    -> encoded score
//	zsets/<ns>/s     encoded score + member -> nil
//	queues/<name>    big-endian index -> value
//	kv               key -> 8-byte expiry prefix + value
//
// Namespace buckets are removed as soon as they become empty, so listing
// operations never report dead namespaces.
//
// Thread Safety:
//
//	All operations are safe for concurrent use. bbolt serializes writers
//	internally; readers run on independent snapshots.
//
// Usage:
//
//	conn, err := boltdb.New(&boltdb.Options{Path: "bkv.db"})
//	if err != nil { ... }
//	defer conn.Close()
package boltdb
