package kv

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/backend"
	"github.com/ValentinKolb/bKV/lib/codec"
)

// --------------------------------------------------------------------------
// Hash Namespaces
// --------------------------------------------------------------------------

// HSet encodes and stores a field in the named hash
func (a *Adapter) HSet(ctx context.Context, ns, key string, v any) bool {
	if ns == "" || !a.ready("hset") {
		return false
	}
	if err := a.conn.HSet(ctx, ns, key, a.codec.Encode(v)); err != nil {
		a.fail("hset", err)
		return false
	}
	return true
}

// HSetIfUnset stores a field only if it does not exist yet. It reports
// whether the value was written; an already present field is skipped and
// reported as false. The exists check and the write are two backend calls,
// so a concurrent writer can slip between them.
func (a *Adapter) HSetIfUnset(ctx context.Context, ns, key string, v any) bool {
	if ns == "" || a.conn == nil {
		return false
	}
	if a.HExists(ctx, ns, key) {
		return false
	}
	return a.HSet(ctx, ns, key, v)
}

// HGet retrieves and decodes a field from the named hash
func (a *Adapter) HGet(ctx context.Context, ns, key string) (codec.Value, bool) {
	if ns == "" || key == "" || !a.ready("hget") {
		return codec.Value{}, false
	}
	raw, ok, err := a.conn.HGet(ctx, ns, key)
	if err != nil {
		a.fail("hget", err)
		return codec.Value{}, false
	}
	if !ok {
		return codec.Value{}, false
	}
	return a.codec.Decode(raw), true
}

// HGetMap retrieves a field coerced to a mapping. Missing fields and values
// of any other shape yield an empty, non-nil mapping. Callers own the result
// and may mutate it.
func (a *Adapter) HGetMap(ctx context.Context, ns, key string) map[string]any {
	v, _ := a.HGet(ctx, ns, key)
	return v.AsMap()
}

// HGetRaw retrieves a field as its raw wire string, skipping the codec
func (a *Adapter) HGetRaw(ctx context.Context, ns, key string) (string, bool) {
	if ns == "" || key == "" || !a.ready("hget") {
		return "", false
	}
	raw, ok, err := a.conn.HGet(ctx, ns, key)
	if err != nil {
		a.fail("hget", err)
		return "", false
	}
	return raw, ok
}

// HGetMany retrieves and decodes multiple fields. Missing fields and empty
// keys are skipped; the result keeps the order of the requested keys.
func (a *Adapter) HGetMany(ctx context.Context, ns string, keys []string) []Entry {
	if ns == "" || len(keys) == 0 || a.conn == nil {
		return nil
	}
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if v, ok := a.HGet(ctx, ns, key); ok {
			entries = append(entries, Entry{Key: key, Value: v})
		}
	}
	return entries
}

// HDel removes a field from the named hash
func (a *Adapter) HDel(ctx context.Context, ns, key string) bool {
	if ns == "" || key == "" || !a.ready("hdel") {
		return false
	}
	if err := a.conn.HDel(ctx, ns, key); err != nil {
		a.fail("hdel", err)
		return false
	}
	return true
}

// HDelMany removes multiple fields from the named hash. An empty key list is
// trivially successful.
func (a *Adapter) HDelMany(ctx context.Context, ns string, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	if ns == "" || !a.ready("hdel_many") {
		return false
	}
	if err := a.conn.HDelMany(ctx, ns, keys); err != nil {
		a.fail("hdel_many", err)
		return false
	}
	return true
}

// HIncr adds delta to the integer value of a field and returns the result.
// A zero delta is a no-op returning zero. When the backend rejects the
// increment (the stored value is not an integer), the field is overwritten
// with the delta as the new value and the delta is returned. This fallback
// is not atomic: a concurrent increment between the failed hincr and the
// overwrite is lost.
func (a *Adapter) HIncr(ctx context.Context, ns, key string, delta int64) int64 {
	if delta == 0 {
		return 0
	}
	if ns == "" || !a.ready("hincr") {
		return 0
	}
	n, err := a.conn.HIncr(ctx, ns, key, delta)
	if err != nil {
		a.fail("hincr", err)
		if err := a.conn.HSet(ctx, ns, key, a.codec.Encode(delta)); err != nil {
			a.fail("hset", err)
		}
		return delta
	}
	return n
}

// HExists reports whether a field exists in the named hash
func (a *Adapter) HExists(ctx context.Context, ns, key string) bool {
	if ns == "" || key == "" || !a.ready("hexists") {
		return false
	}
	ok, err := a.conn.HExists(ctx, ns, key)
	if err != nil {
		a.fail("hexists", err)
		return false
	}
	return ok
}

// HSize returns the number of fields in the named hash
func (a *Adapter) HSize(ctx context.Context, ns string) int64 {
	if ns == "" || !a.ready("hsize") {
		return 0
	}
	n, err := a.conn.HSize(ctx, ns)
	if err != nil {
		a.fail("hsize", err)
		return 0
	}
	return n
}

// HClear removes the named hash and all its fields
func (a *Adapter) HClear(ctx context.Context, ns string) bool {
	if ns == "" || !a.ready("hclear") {
		return false
	}
	if err := a.conn.HClear(ctx, ns); err != nil {
		a.fail("hclear", err)
		return false
	}
	return true
}

// HGetAll returns all fields of the named hash, decoded, in ascending key
// order
func (a *Adapter) HGetAll(ctx context.Context, ns string) []Entry {
	if ns == "" || !a.ready("hgetall") {
		return nil
	}
	raw, err := a.conn.HGetAll(ctx, ns)
	if err != nil {
		a.fail("hgetall", err)
		return nil
	}
	return a.decodeEntries(raw)
}

// HKeys returns the field keys of the named hash in (start, end]
func (a *Adapter) HKeys(ctx context.Context, ns, start, end string, limit int) []string {
	if ns == "" || !a.ready("hkeys") {
		return nil
	}
	keys, err := a.conn.HKeys(ctx, ns, start, end, limit)
	if err != nil {
		a.fail("hkeys", err)
		return nil
	}
	return keys
}

// HScan returns decoded field entries of the named hash. Forward scans
// cover (start, end] ascending; with reverse set, the scan walks below
// start (exclusive) down to end (inclusive).
func (a *Adapter) HScan(ctx context.Context, ns, start, end string, limit int, reverse bool) []Entry {
	if ns == "" || !a.ready("hscan") {
		return nil
	}
	var (
		raw []backend.Entry
		err error
	)
	if reverse {
		raw, err = a.conn.HRScan(ctx, ns, start, end, limit)
	} else {
		raw, err = a.conn.HScan(ctx, ns, start, end, limit)
	}
	if err != nil {
		a.fail("hscan", err)
		return nil
	}
	return a.decodeEntries(raw)
}

// HList returns the names of non-empty hash namespaces in (start, end]
func (a *Adapter) HList(ctx context.Context, start, end string, limit int) []string {
	if !a.ready("hlist") {
		return nil
	}
	names, err := a.conn.HList(ctx, start, end, limit)
	if err != nil {
		a.fail("hlist", err)
		return nil
	}
	return names
}

// Records scans the named hash and returns the entries that decode to
// mappings, each with its field key injected under "_id". Entries of any
// other shape are dropped. Record ids sort by key, so start/end/reverse
// follow the HScan bounds.
func (a *Adapter) Records(ctx context.Context, ns, start, end string, limit int, reverse bool) []map[string]any {
	entries := a.HScan(ctx, ns, start, end, limit, reverse)
	records := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		if e.Value.Kind != codec.KindMap || e.Value.IsEmpty() {
			continue
		}
		record := e.Value.AsMap()
		record["_id"] = e.Key
		records = append(records, record)
	}
	return records
}

// decodeEntries converts raw backend entries into decoded ones
func (a *Adapter) decodeEntries(raw []backend.Entry) []Entry {
	if len(raw) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, Entry{Key: e.Key, Value: a.codec.Decode(e.Value)})
	}
	return entries
}
