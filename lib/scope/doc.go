// Package scope implements the explicit request scope that replaces ambient
// per-request state. A Scope is created when an inbound request starts,
// carried through the call chain on the context, and dropped when the
// request ends. Components use it for two things: the bucket the request is
// bound to, and an opaque key-value slot for request-lifetime memoization
// (the config store caches decoded configs there).
//
// Key Components:
//
//   - Scope: The per-request state container. Concurrent-safe; every method
//     tolerates a nil receiver so unchecked FromContext results are fine to
//     use.
//
//   - NewContext/FromContext: Attach a scope to a context.Context and read
//     it back anywhere downstream.
//
// Usage:
//
//	sc := scope.New()
//	sc.SetBucket(bucketID)
//	ctx = scope.NewContext(ctx, sc)
//
//	// anywhere below
//	bucket := scope.FromContext(ctx).Bucket()
package scope
