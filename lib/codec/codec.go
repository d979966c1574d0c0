package codec

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// defaultCacheCapacity bounds the number of decoded values the cache
	// retains before evicting least-recently-used entries
	defaultCacheCapacity = 4096
)

// --------------------------------------------------------------------------
// Stateless Encoding / Decoding
// --------------------------------------------------------------------------

// Encode converts a value into its wire string. Strings and byte slices pass
// through verbatim, previously decoded Values re-encode their payload, and
// everything else is JSON-marshaled. Encoding never fails; values that cannot
// be marshaled yield the empty string, which readers treat as absent data.
func Encode(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case Value:
		return Encode(t.Interface())
	case *Value:
		if t == nil {
			return ""
		}
		return Encode(t.Interface())
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Decode converts a wire string back into a Value. Inputs whose first
// non-whitespace byte is '[', '{' or '(' are parsed as JSON; on success the
// result is a list or mapping Value, on failure (including trailing garbage
// after a valid document) the original text is returned unchanged. All other
// inputs are returned as text. Decode never fails.
//
// Note that '(' counts as a structured hint but can never parse as JSON, so
// such inputs always fall back to text. Numbers inside structured values are
// decoded as json.Number to keep Decode(Encode(x)) structurally equal to x.
func Decode(wire string) Value {
	if !looksStructured(wire) {
		return Value{Kind: KindText, Text: wire}
	}

	dec := json.NewDecoder(strings.NewReader(wire))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return Value{Kind: KindText, Text: wire}
	}
	// Reject documents followed by non-whitespace, e.g. "[1,2]trailing"
	if _, err := dec.Token(); err != io.EOF {
		return Value{Kind: KindText, Text: wire}
	}

	switch t := parsed.(type) {
	case map[string]any:
		return Value{Kind: KindMap, Mapping: t}
	case []any:
		return Value{Kind: KindList, List: t}
	default:
		return Value{Kind: KindText, Text: wire}
	}
}

// looksStructured reports whether the first non-whitespace byte marks the
// input as candidate structured data
func looksStructured(wire string) bool {
	for i := 0; i < len(wire); i++ {
		switch wire[i] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		case '[', '{', '(':
			return true
		default:
			return false
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Codec with bounded decode cache
// --------------------------------------------------------------------------

// Codec bundles the stateless codec functions with a bounded decode cache.
// The cache key is the 64-bit content hash of the wire string, so cached
// results are a pure function of the input: entries are never invalidated by
// writes, only evicted least-recently-used at capacity or dropped explicitly
// via ClearCache.
type Codec struct {
	cache *ttlcache.Cache[uint64, Value]
}

// Options configures a Codec
type Options struct {
	CacheCapacity uint64 // Max decoded values retained (0 = default)
}

// DefaultOptions returns the default Codec options
func DefaultOptions() *Options {
	return &Options{
		CacheCapacity: defaultCacheCapacity,
	}
}

// New creates a Codec with the specified options (optional)
func New(opts *Options) *Codec {
	if opts == nil {
		opts = DefaultOptions()
	}
	capacity := opts.CacheCapacity
	if capacity == 0 {
		capacity = defaultCacheCapacity
	}
	return &Codec{
		cache: ttlcache.New[uint64, Value](
			ttlcache.WithCapacity[uint64, Value](capacity),
			ttlcache.WithTTL[uint64, Value](ttlcache.NoTTL),
		),
	}
}

// std is the process-wide codec shared by components that are not handed an
// explicit instance
var std = New(nil)

// Default returns the shared process-wide Codec. Its decode cache is shared
// across all components and requests of the process.
func Default() *Codec {
	return std
}

// Encode converts a value into its wire string (see package-level Encode)
func (c *Codec) Encode(v any) string {
	return Encode(v)
}

// Decode converts a wire string into a Value without touching the cache
// (see package-level Decode)
func (c *Codec) Decode(wire string) Value {
	return Decode(wire)
}

// DecodeCached converts a wire string into a Value, serving repeated
// identical inputs from the cache. Returned Values may be shared with other
// callers and must be treated as read-only.
func (c *Codec) DecodeCached(wire string) Value {
	key := xxhash.Sum64String(wire)
	if item := c.cache.Get(key); item != nil {
		return item.Value()
	}
	v := Decode(wire)
	c.cache.Set(key, v, ttlcache.DefaultTTL)
	return v
}

// ClearCache drops all cached decode results
func (c *Codec) ClearCache() {
	c.cache.DeleteAll()
}

// CacheLen returns the number of currently cached decode results
func (c *Codec) CacheLen() int {
	return c.cache.Len()
}
