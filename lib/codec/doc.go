// Package codec implements the wire codec that sits between typed Go values
// and the flat string values stored in the bucket key-value backend. Every
// value that crosses the storage boundary passes through this package: writes
// are encoded to a single wire string, reads are decoded back into a tagged
// Value that callers can inspect without reflection.
//
// The package focuses on:
//   - Deterministic encoding: strings pass through verbatim, everything else
//     is JSON-marshaled, and encoding never fails (worst case: empty string)
//   - Conservative decoding: only inputs whose first non-whitespace byte is
//     '[', '{' or '(' are treated as candidate structured data; everything
//     else is returned as text exactly as stored
//   - Round-trip fidelity: Decode(Encode(x)) is structurally equal to x for
//     all JSON-representable values, with numbers preserved as json.Number
//   - Amortizing repeated decodes of identical wire strings through a
//     capacity-bounded cache keyed by a content hash of the input
//
// Key Components:
//
//   - Value: Tagged union over the three shapes a decoded wire string can
//     take (Text, List, Map). AsMap and AsList coerce the value into the
//     shape the caller needs, returning empty results on shape mismatch
//     instead of failing.
//
//   - Encode/Decode: Stateless package-level functions implementing the
//     codec contract. Decode never fails; malformed candidate JSON falls
//     back to the original text.
//
//   - Codec: Adds a bounded decode cache on top of the stateless functions.
//     Cache entries are a pure function of the wire string (keyed by its
//     64-bit content hash), are never invalidated by writes, and are evicted
//     least-recently-used once the configured capacity is reached.
//
// Thread Safety:
//
//	The package-level functions are stateless and safe for concurrent use.
//	Codec instances are safe for concurrent use; the underlying cache
//	synchronizes internally. Cached Values are shared between callers and
//	must be treated as read-only.
//
// Usage:
//
//	c := codec.New(nil)
//	wire := c.Encode(map[string]any{"title": "home"})
//	v := c.DecodeCached(wire)
//	title := v.AsMap()["title"]
package codec
