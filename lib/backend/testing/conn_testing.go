package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// ConnFactory is a function that creates a fresh instance of a backend.Conn
// implementation. Implementations needing scratch space (files, sockets) can
// take it from the passed testing.T.
type ConnFactory func(t *testing.T) backend.Conn

// RunConnTests runs a comprehensive test suite for a backend.Conn
// implementation.
func RunConnTests(t *testing.T, name string, factory ConnFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("FlatKV", func(t *testing.T) {
			testFlatKV(t, factory(t))
		})

		t.Run("FlatKVExpiry", func(t *testing.T) {
			testFlatKVExpiry(t, factory(t))
		})

		t.Run("HashBasics", func(t *testing.T) {
			testHashBasics(t, factory(t))
		})

		t.Run("HashIncr", func(t *testing.T) {
			testHashIncr(t, factory(t))
		})

		t.Run("HashScan", func(t *testing.T) {
			testHashScan(t, factory(t))
		})

		t.Run("HashList", func(t *testing.T) {
			testHashList(t, factory(t))
		})

		t.Run("ZSetBasics", func(t *testing.T) {
			testZSetBasics(t, factory(t))
		})

		t.Run("ZSetScan", func(t *testing.T) {
			testZSetScan(t, factory(t))
		})

		t.Run("ZSetRange", func(t *testing.T) {
			testZSetRange(t, factory(t))
		})

		t.Run("Queue", func(t *testing.T) {
			testQueue(t, factory(t))
		})

		t.Run("Admin", func(t *testing.T) {
			testAdmin(t, factory(t))
		})

		t.Run("ConcurrentAccess", func(t *testing.T) {
			testConcurrentAccess(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Flat key-value space
// --------------------------------------------------------------------------

func testFlatKV(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	// Missing key
	_, ok, err := conn.Get(ctx, "missing")
	if err != nil {
		t.Errorf("Get returned error: %v", err)
	}
	if ok {
		t.Errorf("Get reported a missing key as present")
	}

	// Set and get
	if err := conn.Set(ctx, "key1", "value1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, ok, err := conn.Get(ctx, "key1")
	if err != nil || !ok {
		t.Fatalf("Get after Set: value=%q ok=%v err=%v", got, ok, err)
	}
	if got != "value1" {
		t.Errorf("Get = %q, want %q", got, "value1")
	}

	// Overwrite
	if err := conn.Set(ctx, "key1", "value2"); err != nil {
		t.Fatalf("Set (overwrite) returned error: %v", err)
	}
	got, _, _ = conn.Get(ctx, "key1")
	if got != "value2" {
		t.Errorf("Get after overwrite = %q, want %q", got, "value2")
	}

	// Delete
	if err := conn.Del(ctx, "key1"); err != nil {
		t.Fatalf("Del returned error: %v", err)
	}
	_, ok, _ = conn.Get(ctx, "key1")
	if ok {
		t.Errorf("Get reported a deleted key as present")
	}

	// Deleting a missing key is not an error
	if err := conn.Del(ctx, "never-existed"); err != nil {
		t.Errorf("Del on missing key returned error: %v", err)
	}
}

func testFlatKVExpiry(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	if err := conn.SetX(ctx, "short", "v", 100*time.Millisecond); err != nil {
		t.Fatalf("SetX returned error: %v", err)
	}
	if err := conn.Set(ctx, "forever", "v"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// Before expiry
	if _, ok, _ := conn.Get(ctx, "short"); !ok {
		t.Errorf("Get reported a fresh SetX key as missing")
	}

	time.Sleep(200 * time.Millisecond)

	// After expiry
	if _, ok, _ := conn.Get(ctx, "short"); ok {
		t.Errorf("Get reported an expired key as present")
	}
	if _, ok, _ := conn.Get(ctx, "forever"); !ok {
		t.Errorf("Get reported a non-expiring key as missing")
	}

	// SetX must overwrite a previous expiry
	if err := conn.SetX(ctx, "renew", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("SetX returned error: %v", err)
	}
	if err := conn.SetX(ctx, "renew", "v2", 10*time.Second); err != nil {
		t.Fatalf("SetX (renew) returned error: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	got, ok, _ := conn.Get(ctx, "renew")
	if !ok || got != "v2" {
		t.Errorf("Get after renewed expiry = (%q, %v), want (v2, true)", got, ok)
	}
}

// --------------------------------------------------------------------------
// Hash namespaces
// --------------------------------------------------------------------------

func testHashBasics(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "bucket-a"

	// Empty namespace
	if _, ok, _ := conn.HGet(ctx, ns, "k"); ok {
		t.Errorf("HGet reported a missing field as present")
	}
	if size, _ := conn.HSize(ctx, ns); size != 0 {
		t.Errorf("HSize of empty namespace = %d, want 0", size)
	}

	// Set / get
	if err := conn.HSet(ctx, ns, "title", "home"); err != nil {
		t.Fatalf("HSet returned error: %v", err)
	}
	got, ok, err := conn.HGet(ctx, ns, "title")
	if err != nil || !ok || got != "home" {
		t.Errorf("HGet = (%q, %v, %v), want (home, true, nil)", got, ok, err)
	}

	// Exists
	exists, err := conn.HExists(ctx, ns, "title")
	if err != nil || !exists {
		t.Errorf("HExists = (%v, %v), want (true, nil)", exists, err)
	}
	exists, _ = conn.HExists(ctx, ns, "missing")
	if exists {
		t.Errorf("HExists reported a missing field as present")
	}

	// Size
	_ = conn.HSet(ctx, ns, "lang", "en")
	_ = conn.HSet(ctx, ns, "author", "kim")
	if size, _ := conn.HSize(ctx, ns); size != 3 {
		t.Errorf("HSize = %d, want 3", size)
	}

	// GetAll is ordered by key
	all, err := conn.HGetAll(ctx, ns)
	if err != nil {
		t.Fatalf("HGetAll returned error: %v", err)
	}
	wantKeys := []string{"author", "lang", "title"}
	if len(all) != len(wantKeys) {
		t.Fatalf("HGetAll returned %d entries, want %d", len(all), len(wantKeys))
	}
	for i, e := range all {
		if e.Key != wantKeys[i] {
			t.Errorf("HGetAll[%d].Key = %q, want %q", i, e.Key, wantKeys[i])
		}
	}

	// Del
	if err := conn.HDel(ctx, ns, "lang"); err != nil {
		t.Fatalf("HDel returned error: %v", err)
	}
	if _, ok, _ := conn.HGet(ctx, ns, "lang"); ok {
		t.Errorf("HGet reported a deleted field as present")
	}

	// DelMany
	if err := conn.HDelMany(ctx, ns, []string{"title", "author", "missing"}); err != nil {
		t.Fatalf("HDelMany returned error: %v", err)
	}
	if size, _ := conn.HSize(ctx, ns); size != 0 {
		t.Errorf("HSize after HDelMany = %d, want 0", size)
	}

	// Clear
	_ = conn.HSet(ctx, ns, "a", "1")
	_ = conn.HSet(ctx, ns, "b", "2")
	if err := conn.HClear(ctx, ns); err != nil {
		t.Fatalf("HClear returned error: %v", err)
	}
	if size, _ := conn.HSize(ctx, ns); size != 0 {
		t.Errorf("HSize after HClear = %d, want 0", size)
	}
}

func testHashIncr(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "counters"

	// Missing field starts at zero
	n, err := conn.HIncr(ctx, ns, "visits", 1)
	if err != nil || n != 1 {
		t.Errorf("HIncr on missing field = (%d, %v), want (1, nil)", n, err)
	}
	n, _ = conn.HIncr(ctx, ns, "visits", 5)
	if n != 6 {
		t.Errorf("HIncr = %d, want 6", n)
	}
	n, _ = conn.HIncr(ctx, ns, "visits", -2)
	if n != 4 {
		t.Errorf("HIncr with negative delta = %d, want 4", n)
	}

	// Stored value must be readable as the plain number
	got, ok, _ := conn.HGet(ctx, ns, "visits")
	if !ok || got != "4" {
		t.Errorf("HGet after HIncr = (%q, %v), want (4, true)", got, ok)
	}

	// Incrementing a non-integer value is an error
	_ = conn.HSet(ctx, ns, "label", "not-a-number")
	if _, err := conn.HIncr(ctx, ns, "label", 1); err == nil {
		t.Errorf("HIncr on non-integer value did not return an error")
	}
}

func testHashScan(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "scan-ns"
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		if err := conn.HSet(ctx, ns, k, "v-"+k); err != nil {
			t.Fatalf("HSet returned error: %v", err)
		}
	}

	assertKeys := func(what string, entries []backend.Entry, want ...string) {
		t.Helper()
		if len(entries) != len(want) {
			t.Fatalf("%s returned %d entries (%v), want %d", what, len(entries), entries, len(want))
		}
		for i, e := range entries {
			if e.Key != want[i] {
				t.Errorf("%s[%d].Key = %q, want %q", what, i, e.Key, want[i])
			}
		}
	}

	// Unbounded forward scan
	entries, err := conn.HScan(ctx, ns, "", "", 0)
	if err != nil {
		t.Fatalf("HScan returned error: %v", err)
	}
	assertKeys("HScan(all)", entries, "a", "b", "c", "d", "e")

	// Start bound is exclusive, end bound is inclusive
	entries, _ = conn.HScan(ctx, ns, "b", "d", 0)
	assertKeys("HScan(b,d]", entries, "c", "d")

	// Limit
	entries, _ = conn.HScan(ctx, ns, "", "", 2)
	assertKeys("HScan(limit=2)", entries, "a", "b")

	// Start beyond all keys
	entries, _ = conn.HScan(ctx, ns, "z", "", 0)
	assertKeys("HScan(start=z)", entries)

	// Reverse: below start (exclusive), down to end (inclusive)
	entries, _ = conn.HRScan(ctx, ns, "d", "b", 0)
	assertKeys("HRScan(d..b)", entries, "c", "b")

	// Reverse unbounded start walks from the top
	entries, _ = conn.HRScan(ctx, ns, "", "", 2)
	assertKeys("HRScan(top,limit=2)", entries, "e", "d")

	// HKeys mirrors forward scan bounds
	keys, err := conn.HKeys(ctx, ns, "a", "c", 0)
	if err != nil {
		t.Fatalf("HKeys returned error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "c" {
		t.Errorf("HKeys(a,c] = %v, want [b c]", keys)
	}

	// Values travel with the keys
	entries, _ = conn.HScan(ctx, ns, "", "a", 0)
	if len(entries) != 1 || entries[0].Value != "v-a" {
		t.Errorf("HScan(..a] = %v, want value v-a", entries)
	}
}

func testHashList(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	for _, ns := range []string{"ns-1", "ns-2", "ns-3"} {
		if err := conn.HSet(ctx, ns, "k", "v"); err != nil {
			t.Fatalf("HSet returned error: %v", err)
		}
	}

	names, err := conn.HList(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("HList returned error: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("HList returned %v, want 3 namespaces", names)
	}
	for i, want := range []string{"ns-1", "ns-2", "ns-3"} {
		if names[i] != want {
			t.Errorf("HList[%d] = %q, want %q", i, names[i], want)
		}
	}

	// (start, end] pagination
	names, _ = conn.HList(ctx, "ns-1", "", 0)
	if len(names) != 2 || names[0] != "ns-2" {
		t.Errorf("HList(ns-1,..] = %v, want [ns-2 ns-3]", names)
	}
	names, _ = conn.HList(ctx, "", "", 1)
	if len(names) != 1 || names[0] != "ns-1" {
		t.Errorf("HList(limit=1) = %v, want [ns-1]", names)
	}

	// Emptied namespaces disappear from the listing
	if err := conn.HClear(ctx, "ns-2"); err != nil {
		t.Fatalf("HClear returned error: %v", err)
	}
	names, _ = conn.HList(ctx, "", "", 0)
	if len(names) != 2 {
		t.Errorf("HList after HClear = %v, want 2 namespaces", names)
	}
}

// --------------------------------------------------------------------------
// Sorted sets
// --------------------------------------------------------------------------

func testZSetBasics(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "ranking"

	// Missing member
	if _, ok, _ := conn.ZGet(ctx, ns, "x"); ok {
		t.Errorf("ZGet reported a missing member as present")
	}

	// Set / get
	if err := conn.ZSet(ctx, ns, "post-1", 10); err != nil {
		t.Fatalf("ZSet returned error: %v", err)
	}
	score, ok, err := conn.ZGet(ctx, ns, "post-1")
	if err != nil || !ok || score != 10 {
		t.Errorf("ZGet = (%d, %v, %v), want (10, true, nil)", score, ok, err)
	}

	// Negative scores are legal
	_ = conn.ZSet(ctx, ns, "post-2", -3)
	score, ok, _ = conn.ZGet(ctx, ns, "post-2")
	if !ok || score != -3 {
		t.Errorf("ZGet = (%d, %v), want (-3, true)", score, ok)
	}

	// Incr: missing member starts at zero
	score, err = conn.ZIncr(ctx, ns, "post-3", 7)
	if err != nil || score != 7 {
		t.Errorf("ZIncr on missing member = (%d, %v), want (7, nil)", score, err)
	}
	score, _ = conn.ZIncr(ctx, ns, "post-3", -2)
	if score != 5 {
		t.Errorf("ZIncr = %d, want 5", score)
	}

	// Size
	if size, _ := conn.ZSize(ctx, ns); size != 3 {
		t.Errorf("ZSize = %d, want 3", size)
	}

	// Count is inclusive on both score bounds
	n, err := conn.ZCount(ctx, ns, backend.ScoreOf(-3), backend.ScoreOf(5))
	if err != nil || n != 2 {
		t.Errorf("ZCount[-3,5] = (%d, %v), want (2, nil)", n, err)
	}
	n, _ = conn.ZCount(ctx, ns, backend.Score{}, backend.Score{})
	if n != 3 {
		t.Errorf("ZCount(unbounded) = %d, want 3", n)
	}
	n, _ = conn.ZCount(ctx, ns, backend.ScoreOf(5), backend.ScoreOf(5))
	if n != 1 {
		t.Errorf("ZCount[5,5] = %d, want 1", n)
	}

	// Del
	if err := conn.ZDel(ctx, ns, "post-1"); err != nil {
		t.Fatalf("ZDel returned error: %v", err)
	}
	if _, ok, _ := conn.ZGet(ctx, ns, "post-1"); ok {
		t.Errorf("ZGet reported a deleted member as present")
	}

	// Clear
	if err := conn.ZClear(ctx, ns); err != nil {
		t.Fatalf("ZClear returned error: %v", err)
	}
	if size, _ := conn.ZSize(ctx, ns); size != 0 {
		t.Errorf("ZSize after ZClear = %d, want 0", size)
	}

	// ZList
	_ = conn.ZSet(ctx, "z-1", "m", 1)
	_ = conn.ZSet(ctx, "z-2", "m", 1)
	names, err := conn.ZList(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("ZList returned error: %v", err)
	}
	if len(names) != 2 || names[0] != "z-1" || names[1] != "z-2" {
		t.Errorf("ZList = %v, want [z-1 z-2]", names)
	}
}

func testZSetScan(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "scores"
	seed := []backend.ScoredEntry{
		{Key: "a", Score: 1},
		{Key: "b", Score: 2},
		{Key: "c", Score: 2},
		{Key: "d", Score: 3},
		{Key: "e", Score: 5},
	}
	for _, e := range seed {
		if err := conn.ZSet(ctx, ns, e.Key, e.Score); err != nil {
			t.Fatalf("ZSet returned error: %v", err)
		}
	}

	assertMembers := func(what string, entries []backend.ScoredEntry, want ...string) {
		t.Helper()
		if len(entries) != len(want) {
			t.Fatalf("%s returned %d entries (%v), want %d", what, len(entries), entries, len(want))
		}
		for i, e := range entries {
			if e.Key != want[i] {
				t.Errorf("%s[%d].Key = %q, want %q", what, i, e.Key, want[i])
			}
		}
	}

	// Unbounded scan orders by (score, key)
	entries, err := conn.ZScan(ctx, ns, "", backend.Score{}, backend.Score{}, 0)
	if err != nil {
		t.Fatalf("ZScan returned error: %v", err)
	}
	assertMembers("ZScan(all)", entries, "a", "b", "c", "d", "e")

	// Score bounds are inclusive on both sides
	entries, _ = conn.ZScan(ctx, ns, "", backend.ScoreOf(2), backend.ScoreOf(3), 0)
	assertMembers("ZScan[2,3]", entries, "b", "c", "d")

	// Equal bounds select exactly that score
	entries, _ = conn.ZScan(ctx, ns, "", backend.ScoreOf(2), backend.ScoreOf(2), 0)
	assertMembers("ZScan[2,2]", entries, "b", "c")

	// Key bound excludes the named key among equal scores
	entries, _ = conn.ZScan(ctx, ns, "b", backend.ScoreOf(2), backend.Score{}, 0)
	assertMembers("ZScan(key>b)", entries, "c", "d", "e")

	// Empty end bound is unbounded above
	entries, _ = conn.ZScan(ctx, ns, "", backend.ScoreOf(3), backend.Score{}, 0)
	assertMembers("ZScan[3,..)", entries, "d", "e")

	// Limit
	entries, _ = conn.ZScan(ctx, ns, "", backend.Score{}, backend.Score{}, 2)
	assertMembers("ZScan(limit=2)", entries, "a", "b")

	// Reverse scan: descending (score, key)
	entries, err = conn.ZRScan(ctx, ns, "", backend.Score{}, backend.Score{}, 0)
	if err != nil {
		t.Fatalf("ZRScan returned error: %v", err)
	}
	assertMembers("ZRScan(all)", entries, "e", "d", "c", "b", "a")

	// Reverse with score bounds (start >= end on the reverse axis)
	entries, _ = conn.ZRScan(ctx, ns, "", backend.ScoreOf(3), backend.ScoreOf(2), 0)
	assertMembers("ZRScan[3..2]", entries, "d", "c", "b")

	// Reverse key bound excludes the named key among equal scores
	entries, _ = conn.ZRScan(ctx, ns, "c", backend.ScoreOf(2), backend.Score{}, 0)
	assertMembers("ZRScan(key<c)", entries, "b", "a")

	// First element shortcut used for max lookups
	entries, _ = conn.ZRScan(ctx, ns, "", backend.Score{}, backend.Score{}, 1)
	if len(entries) != 1 || entries[0].Key != "e" || entries[0].Score != 5 {
		t.Errorf("ZRScan(limit=1) = %v, want [{e 5}]", entries)
	}
}

func testZSetRange(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	ns := "ranked"
	for i, k := range []string{"a", "b", "c", "d"} {
		if err := conn.ZSet(ctx, ns, k, int64(i+1)); err != nil {
			t.Fatalf("ZSet returned error: %v", err)
		}
	}

	// [offset, offset+limit) by ascending rank
	entries, err := conn.ZRange(ctx, ns, 1, 2)
	if err != nil {
		t.Fatalf("ZRange returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "b" || entries[1].Key != "c" {
		t.Errorf("ZRange(1,2) = %v, want [b c]", entries)
	}

	// Descending rank
	entries, _ = conn.ZRRange(ctx, ns, 0, 2)
	if len(entries) != 2 || entries[0].Key != "d" || entries[1].Key != "c" {
		t.Errorf("ZRRange(0,2) = %v, want [d c]", entries)
	}

	// Offset past the end
	entries, _ = conn.ZRange(ctx, ns, 10, 5)
	if len(entries) != 0 {
		t.Errorf("ZRange past end = %v, want empty", entries)
	}
}

// --------------------------------------------------------------------------
// Queues
// --------------------------------------------------------------------------

func testQueue(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	q := "jobs"

	// Push back keeps insertion order
	size, err := conn.QPushBack(ctx, q, "1", "2", "3")
	if err != nil || size != 3 {
		t.Fatalf("QPushBack = (%d, %v), want (3, nil)", size, err)
	}

	// Push front prepends
	size, err = conn.QPushFront(ctx, q, "0")
	if err != nil || size != 4 {
		t.Fatalf("QPushFront = (%d, %v), want (4, nil)", size, err)
	}

	// Range
	items, err := conn.QRange(ctx, q, 0, 10)
	if err != nil {
		t.Fatalf("QRange returned error: %v", err)
	}
	want := []string{"0", "1", "2", "3"}
	if len(items) != len(want) {
		t.Fatalf("QRange = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("QRange[%d] = %q, want %q", i, items[i], want[i])
		}
	}

	// Offset range
	items, _ = conn.QRange(ctx, q, 1, 2)
	if len(items) != 2 || items[0] != "1" || items[1] != "2" {
		t.Errorf("QRange(1,2) = %v, want [1 2]", items)
	}

	// Size
	if size, _ := conn.QSize(ctx, q); size != 4 {
		t.Errorf("QSize = %d, want 4", size)
	}

	// Pop front
	popped, err := conn.QPopFront(ctx, q, 2)
	if err != nil {
		t.Fatalf("QPopFront returned error: %v", err)
	}
	if len(popped) != 2 || popped[0] != "0" || popped[1] != "1" {
		t.Errorf("QPopFront(2) = %v, want [0 1]", popped)
	}

	// Pop back
	popped, _ = conn.QPopBack(ctx, q, 1)
	if len(popped) != 1 || popped[0] != "3" {
		t.Errorf("QPopBack(1) = %v, want [3]", popped)
	}

	// Pop more than available drains the queue
	popped, _ = conn.QPopFront(ctx, q, 10)
	if len(popped) != 1 || popped[0] != "2" {
		t.Errorf("QPopFront(10) = %v, want [2]", popped)
	}
	if size, _ := conn.QSize(ctx, q); size != 0 {
		t.Errorf("QSize after drain = %d, want 0", size)
	}

	// Pop from an empty queue
	popped, err = conn.QPopFront(ctx, q, 1)
	if err != nil || len(popped) != 0 {
		t.Errorf("QPopFront on empty queue = (%v, %v), want ([], nil)", popped, err)
	}

	// Trim
	_, _ = conn.QPushBack(ctx, q, "a", "b", "c", "d", "e")
	n, err := conn.QTrimFront(ctx, q, 2)
	if err != nil || n != 2 {
		t.Fatalf("QTrimFront = (%d, %v), want (2, nil)", n, err)
	}
	n, _ = conn.QTrimBack(ctx, q, 1)
	if n != 1 {
		t.Errorf("QTrimBack = %d, want 1", n)
	}
	items, _ = conn.QRange(ctx, q, 0, 10)
	if len(items) != 2 || items[0] != "c" || items[1] != "d" {
		t.Errorf("QRange after trims = %v, want [c d]", items)
	}

	// Clear
	if err := conn.QClear(ctx, q); err != nil {
		t.Fatalf("QClear returned error: %v", err)
	}
	if size, _ := conn.QSize(ctx, q); size != 0 {
		t.Errorf("QSize after QClear = %d, want 0", size)
	}
}

// --------------------------------------------------------------------------
// Admin
// --------------------------------------------------------------------------

func testAdmin(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	if err := conn.HSet(ctx, "ns", "k", "some value"); err != nil {
		t.Fatalf("HSet returned error: %v", err)
	}

	info, err := conn.Info(ctx)
	if err != nil {
		t.Fatalf("Info returned error: %v", err)
	}
	if len(info) == 0 {
		t.Errorf("Info returned no fields")
	}

	if _, err := conn.DBSize(ctx); err != nil {
		t.Errorf("DBSize returned error: %v", err)
	}
}

// --------------------------------------------------------------------------
// Concurrency
// --------------------------------------------------------------------------

func testConcurrentAccess(t *testing.T, conn backend.Conn) {
	defer conn.Close()
	ctx := context.Background()

	const (
		workers = 8
		keys    = 50
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ns := fmt.Sprintf("worker-%d", w)
			for i := 0; i < keys; i++ {
				key := fmt.Sprintf("key-%d", i)
				if err := conn.HSet(ctx, ns, key, "v"); err != nil {
					t.Errorf("concurrent HSet returned error: %v", err)
					return
				}
				if _, _, err := conn.HGet(ctx, ns, key); err != nil {
					t.Errorf("concurrent HGet returned error: %v", err)
					return
				}
				if _, err := conn.HIncr(ctx, "shared", "counter", 1); err != nil {
					t.Errorf("concurrent HIncr returned error: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	// Every worker namespace is complete
	for w := 0; w < workers; w++ {
		ns := fmt.Sprintf("worker-%d", w)
		size, err := conn.HSize(ctx, ns)
		if err != nil || size != keys {
			t.Errorf("HSize(%s) = (%d, %v), want (%d, nil)", ns, size, err, keys)
		}
	}

	// The shared counter saw every increment
	n, ok, err := conn.HGet(ctx, "shared", "counter")
	if err != nil || !ok {
		t.Fatalf("HGet(shared/counter) = (%q, %v, %v)", n, ok, err)
	}
	if n != fmt.Sprintf("%d", workers*keys) {
		t.Errorf("shared counter = %s, want %d", n, workers*keys)
	}
}
