// Package kv implements the typed adapter layered on top of a raw backend
// connection. It translates between Go values and the flat wire strings the
// backend stores, and it shields callers from backend availability: every
// operation degrades to an empty value instead of returning an error, so
// code built on the adapter reads naturally even when no backend is wired.
//
// The package focuses on:
//   - Typed access to the backend's hash namespaces, sorted sets, queues and
//     flat key space, with all values passing through the codec
//   - Graceful degradation: a nil connection or a failed backend call yields
//     the operation's zero result (empty value, empty slice, false) rather
//     than an error; absorbed failures are logged and counted
//   - Namespace statistics: per-namespace record counts with paged listing,
//     an optional backend-memoized variant and a humanized status report
//   - A generic cache-or-compute helper that stores computed values back
//     into the backend under a TTL
//
// Key Components:
//
//   - Adapter: Wraps one backend.Conn (which may be nil) together with a
//     codec and a logger. All operations hang off this type. Construction
//     never fails; Connected reports whether a backend is actually present.
//
//   - Entry: A decoded (key, value) pair returned by scans and full-namespace
//     reads.
//
//   - Status: Snapshot of backend size, version, call count and storage
//     engine statistics.
//
// Error Handling:
//
//	No adapter method returns an error. Failures that the backend reports
//	are absorbed: the method logs a warning, increments an absorbed-error
//	counter and returns its zero result. Callers that need to distinguish
//	"missing" from "failed" must check Connected and consult the logs or
//	metrics, by contract of the layers built on top this distinction is
//	deliberately not observable in the return values.
//
// Thread Safety:
//
//	The Adapter is stateless apart from its collaborators and is safe for
//	concurrent use as long as the underlying connection is. The bundled
//	engines and the remote client are.
//
// Usage:
//
//	conn := memdb.New(memdb.DefaultOptions())
//	store := kv.NewAdapter(conn, nil)
//
//	store.HSet(ctx, bucketID, "note.md", map[string]any{"title": "hi"})
//	v, ok := store.HGet(ctx, bucketID, "note.md")
//	if ok {
//		title := v.AsMap()["title"]
//		...
//	}
package kv
