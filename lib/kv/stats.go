package kv

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ValentinKolb/bKV/lib/codec"
	"github.com/dustin/go-humanize"
)

// --------------------------------------------------------------------------
// Statistics
// --------------------------------------------------------------------------

const (
	// sizePage is the page size used when listing hash namespaces
	sizePage = 1000

	// sizesCacheKey is the flat key under which CachedNamespaceSizes stores
	// the computed result
	sizesCacheKey = "hlist_and_count"

	// defaultSizesTTL is the cache lifetime used when CachedNamespaceSizes
	// is called without a positive ttl
	defaultSizesTTL = 10 * time.Minute
)

// NamespaceSizes walks the full namespace listing page by page and returns
// the number of records per namespace. A backend failure mid-walk truncates
// the result rather than failing it.
func (a *Adapter) NamespaceSizes(ctx context.Context) map[string]int64 {
	sizes := make(map[string]int64)
	start := ""
	for {
		names := a.HList(ctx, start, "", sizePage)
		for _, name := range names {
			sizes[name] = a.HSize(ctx, name)
			start = name
		}
		if len(names) < sizePage {
			return sizes
		}
	}
}

// CachedNamespaceSizes returns NamespaceSizes memoized in the backend under
// a shared cache key. A non-positive ttl selects the ten minute default.
func (a *Adapter) CachedNamespaceSizes(ctx context.Context, ttl time.Duration) map[string]int64 {
	if ttl <= 0 {
		ttl = defaultSizesTTL
	}
	v := a.GetOrCompute(ctx, sizesCacheKey, ttl, false, func() any {
		return a.NamespaceSizes(ctx)
	})
	return toSizeMap(v)
}

// TotalRecordCount returns the number of records summed over all namespaces
func (a *Adapter) TotalRecordCount(ctx context.Context) int64 {
	var total int64
	for _, size := range a.NamespaceSizes(ctx) {
		total += size
	}
	return total
}

// toSizeMap converts a decoded mapping back into per-namespace sizes. Counts
// come back from the wire as json numbers; anything non-numeric is dropped.
func toSizeMap(v codec.Value) map[string]int64 {
	sizes := make(map[string]int64)
	for name, raw := range v.AsMap() {
		switch n := raw.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				sizes[name] = i
			}
		case int64:
			sizes[name] = n
		}
	}
	return sizes
}

// --------------------------------------------------------------------------
// Backend Status
// --------------------------------------------------------------------------

// Status describes the state of the backend behind the adapter
type Status struct {
	Size    string   // Humanized size of the stored data
	Version string   // Backend server version
	Calls   string   // Total commands served by the backend
	Engine  []string // Raw storage engine statistics, one line each
}

// Status reports backend size, version, call count and storage engine
// statistics. The second return value is false when the backend is absent
// or the query failed.
func (a *Adapter) Status(ctx context.Context) (Status, bool) {
	if !a.ready("status") {
		return Status{}, false
	}
	info, err := a.conn.Info(ctx)
	if err != nil {
		a.fail("status", err)
		return Status{}, false
	}
	size, err := a.conn.DBSize(ctx)
	if err != nil {
		a.fail("status", err)
		return Status{}, false
	}
	st := Status{
		Size:    humanize.Bytes(uint64(size)),
		Version: info["version"],
		Calls:   info["total_calls"],
	}
	if stats := info["leveldb.stats"]; stats != "" {
		st.Engine = strings.Split(stats, "\n")
	}
	return st, true
}

// --------------------------------------------------------------------------
// Path Bounds
// --------------------------------------------------------------------------

// PathScanBounds returns the key range covering all records filed directly
// or transitively under the given path. The end bound is the path followed
// by '0', the next byte after '/', so the half-open scan interval
// (start, end] spans exactly the "path/..." subtree. An empty path yields
// unbounded ends.
func PathScanBounds(path string) (start, end string) {
	path = strings.ToLower(strings.Trim(strings.TrimSpace(path), "/"))
	if path == "" {
		return "", ""
	}
	return path + "/", path + "0"
}
