package kv

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ValentinKolb/bKV/lib/backend"
	"github.com/ValentinKolb/bKV/lib/codec"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// defaultCacheTTL is the expiry of backend-side cache entries when the
	// caller passes no positive TTL
	defaultCacheTTL = time.Minute
)

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// Entry is one decoded hash field
type Entry struct {
	Key   string      // Field key within the namespace
	Value codec.Value // Decoded value
}

// --------------------------------------------------------------------------
// Adapter
// --------------------------------------------------------------------------

// Adapter is the typed access layer over a backend connection. Every value
// written through it is encoded to the wire format, every value read back is
// decoded; callers never see raw wire strings unless they ask for them.
//
// The adapter never returns errors. A missing connection or a failed backend
// call degrades to the operation's empty value (zero Value, false, empty
// slice or mapping); absorbed failures are logged and counted. Construction
// with a nil connection is legal and turns every operation into such a
// no-op.
type Adapter struct {
	conn  backend.Conn
	codec *codec.Codec
	log   *zap.Logger
}

// Options configures an Adapter
type Options struct {
	Logger *zap.Logger  // Logger for absorbed failures (nil = no logging)
	Codec  *codec.Codec // Wire codec (nil = the shared process-wide codec)
}

// NewAdapter creates an Adapter over the given connection. Both arguments
// may be nil: a nil connection degrades every operation to its empty value,
// nil options select the defaults.
func NewAdapter(conn backend.Conn, opts *Options) *Adapter {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := opts.Codec
	if c == nil {
		c = codec.Default()
	}
	return &Adapter{conn: conn, codec: c, log: log}
}

// Connected reports whether the adapter holds a backend connection
func (a *Adapter) Connected() bool {
	return a.conn != nil
}

// ready reports whether a backend round trip may proceed, counting the
// operation. Guards on arguments run before this so rejected calls are not
// counted.
func (a *Adapter) ready(op string) bool {
	if a.conn == nil {
		return false
	}
	countOp(op)
	return true
}

// fail absorbs one backend failure: the error is logged and counted, the
// operation returns its empty value
func (a *Adapter) fail(op string, err error) {
	countAbsorbed(op)
	a.log.Warn("backend operation failed", zap.String("op", op), zap.Error(err))
}

// --------------------------------------------------------------------------
// Flat Key-Value Space
// --------------------------------------------------------------------------

// Get retrieves and decodes the value stored under key
func (a *Adapter) Get(ctx context.Context, key string) (codec.Value, bool) {
	if key == "" || !a.ready("get") {
		return codec.Value{}, false
	}
	raw, ok, err := a.conn.Get(ctx, key)
	if err != nil {
		a.fail("get", err)
		return codec.Value{}, false
	}
	if !ok {
		return codec.Value{}, false
	}
	return a.codec.Decode(raw), true
}

// Set encodes and stores a value under key without expiry
func (a *Adapter) Set(ctx context.Context, key string, v any) bool {
	if key == "" || !a.ready("set") {
		return false
	}
	if err := a.conn.Set(ctx, key, a.codec.Encode(v)); err != nil {
		a.fail("set", err)
		return false
	}
	return true
}

// Del removes the value stored under key
func (a *Adapter) Del(ctx context.Context, key string) bool {
	if key == "" || !a.ready("del") {
		return false
	}
	if err := a.conn.Del(ctx, key); err != nil {
		a.fail("del", err)
		return false
	}
	return true
}

// CacheGet retrieves a cache entry written by CacheSet or GetOrCompute.
// Repeated reads of identical wire content are served from the process-wide
// decode cache; the returned Value must be treated as read-only.
func (a *Adapter) CacheGet(ctx context.Context, key string) (codec.Value, bool) {
	if key == "" || !a.ready("cache_get") {
		return codec.Value{}, false
	}
	raw, ok, err := a.conn.Get(ctx, key)
	if err != nil {
		a.fail("cache_get", err)
		return codec.Value{}, false
	}
	if !ok {
		return codec.Value{}, false
	}
	return a.codec.DecodeCached(raw), true
}

// CacheSet encodes and stores a value under key with an expiry. Non-positive
// TTLs select the default of one minute.
func (a *Adapter) CacheSet(ctx context.Context, key string, v any, ttl time.Duration) bool {
	if key == "" || !a.ready("cache_set") {
		return false
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if err := a.conn.SetX(ctx, key, a.codec.Encode(v), ttl); err != nil {
		a.fail("cache_set", err)
		return false
	}
	return true
}

// GetOrCompute returns the cached value under key, computing and caching it
// on a miss. The computed value is written back with the given TTL
// (non-positive selects one minute) and force skips the cached read. Both
// paths return the decoded wire form of the value, so the result shape does
// not depend on whether the cache was hit. Without a connection the zero
// Value is returned; the computation does not run.
//
// The cached Value is shared through the process-wide decode cache and must
// be treated as read-only.
func (a *Adapter) GetOrCompute(ctx context.Context, key string, ttl time.Duration, force bool, fn func() any) codec.Value {
	if key == "" || fn == nil || a.conn == nil {
		return codec.Value{}
	}
	if !force {
		if v, ok := a.CacheGet(ctx, key); ok {
			return v
		}
	}
	countOp("compute")
	wire := a.codec.Encode(fn())
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	// Best effort: a failed write-back only means the next call recomputes
	if err := a.conn.SetX(ctx, key, wire, ttl); err != nil {
		a.fail("cache_set", err)
	}
	return a.codec.DecodeCached(wire)
}
