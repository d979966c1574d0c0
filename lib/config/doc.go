// Package config implements the typed configuration store for buckets.
// Every bucket carries five configuration documents (init, user, pages,
// site, secret), each stored under a fixed document id in the bucket's
// namespace. The store adds the semantics the raw documents lack:
//
//   - Site defaults: reads of the site config layer the stored values over
//     built-in defaults, so a fresh bucket already has a language and empty
//     title rather than nothing. The overlay only applies to buckets that
//     actually exist.
//   - Encryption: user and secret configs never touch the backend in
//     plaintext. They are sealed into a token by the injected Cipher and
//     stored as a one-field envelope; reads open the envelope again.
//   - Merge-on-write: Set merges updates into the current stored state key
//     by key (shallow, last write wins) instead of replacing the document.
//   - Request memoization: within one request scope, repeated reads of the
//     same (bucket, type) return the cached mapping; writes invalidate it.
//
// Failure semantics follow the adapter: malformed input and missing
// backends degrade to empty mappings or false, never to errors. The only
// hard precondition is a Cipher for writing encrypted types.
//
// The read-modify-write in Set is not atomic. Two concurrent writers to the
// same document can interleave so that one writer's keys are lost; this is
// a known property of the store, not a bug to lock away.
//
// Usage:
//
//	store := config.New(adapter, &config.Options{Cipher: cipher})
//
//	ctx = scope.NewContext(ctx, scope.New())
//	site := store.SiteConfigs(ctx, bucketID)
//	store.Set(ctx, bucketID, map[string]any{"title": "My Site"}, config.Site)
package config
