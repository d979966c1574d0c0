// Package internal holds the container primitives of the memdb engine: hash
// tables, sorted sets and queues with ordered scan support, plus the expiry
// heap driving flat key-value TTLs. The containers synchronize themselves;
// composition and namespace bookkeeping happen in the engine package.
package internal

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/btree"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// btreeDegree is the branching factor of all ordered views
const btreeDegree = 32

// --------------------------------------------------------------------------
// Hash (one namespace)
// --------------------------------------------------------------------------

// Hash is a single hash namespace: a key-value map paired with an ordered
// key view for range scans.
type Hash struct {
	mu    sync.RWMutex
	items map[string]string
	keys  *btree.BTreeG[string]
}

// NewHash creates an empty hash namespace
func NewHash() *Hash {
	return &Hash{
		items: make(map[string]string),
		keys:  btree.NewG[string](btreeDegree, func(a, b string) bool { return a < b }),
	}
}

// Set stores a field
func (h *Hash) Set(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.items[key]; !exists {
		h.keys.ReplaceOrInsert(key)
	}
	h.items[key] = value
}

// Get retrieves a field
func (h *Hash) Get(key string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.items[key]
	return v, ok
}

// Del removes a field
func (h *Hash) Del(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.items[key]; exists {
		delete(h.items, key)
		h.keys.Delete(key)
	}
}

// DelMany removes multiple fields
func (h *Hash) DelMany(keys []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range keys {
		if _, exists := h.items[key]; exists {
			delete(h.items, key)
			h.keys.Delete(key)
		}
	}
}

// Incr adds delta to the integer value of a field. A missing field counts as
// zero, a non-integer value is an error.
func (h *Hash) Incr(key string, delta int64) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var current int64
	if raw, exists := h.items[key]; exists {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value of %q is not an integer: %w", key, err)
		}
		current = n
	} else {
		h.keys.ReplaceOrInsert(key)
	}

	current += delta
	h.items[key] = strconv.FormatInt(current, 10)
	return current, nil
}

// Exists reports whether a field is present
func (h *Hash) Exists(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.items[key]
	return ok
}

// Size returns the number of fields
func (h *Hash) Size() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return int64(len(h.items))
}

// All returns every field ordered by key
func (h *Hash) All() []backend.Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]backend.Entry, 0, len(h.items))
	h.keys.Ascend(func(key string) bool {
		entries = append(entries, backend.Entry{Key: key, Value: h.items[key]})
		return true
	})
	return entries
}

// Scan returns fields with start < key <= end in ascending order
func (h *Hash) Scan(start, end string, limit int) []backend.Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var entries []backend.Entry
	iter := func(key string) bool {
		if key == start {
			return true // start bound is exclusive
		}
		if end != "" && key > end {
			return false
		}
		entries = append(entries, backend.Entry{Key: key, Value: h.items[key]})
		return limit <= 0 || len(entries) < limit
	}
	if start == "" {
		h.keys.Ascend(iter)
	} else {
		h.keys.AscendGreaterOrEqual(start, iter)
	}
	return entries
}

// RScan returns fields with end <= key < start in descending order
func (h *Hash) RScan(start, end string, limit int) []backend.Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var entries []backend.Entry
	iter := func(key string) bool {
		if start != "" && key >= start {
			return true // start bound is exclusive
		}
		if end != "" && key < end {
			return false
		}
		entries = append(entries, backend.Entry{Key: key, Value: h.items[key]})
		return limit <= 0 || len(entries) < limit
	}
	if start == "" {
		h.keys.Descend(iter)
	} else {
		h.keys.DescendLessOrEqual(start, iter)
	}
	return entries
}

// Keys returns field keys with start < key <= end in ascending order
func (h *Hash) Keys(start, end string, limit int) []string {
	entries := h.Scan(start, end, limit)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Bytes returns the approximate stored size in bytes
func (h *Hash) Bytes() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var size int64
	for k, v := range h.items {
		size += int64(len(k) + len(v))
	}
	return size
}
