package kv

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ValentinKolb/bKV/lib/codec"
)

// TestHashRoundTrip tests that typed values survive HSet/HGet
func TestHashRoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		v        any
		wantKind codec.Kind
	}{
		{"text", "hello world", codec.KindText},
		{"mapping", map[string]any{"title": "home", "sort": 1}, codec.KindMap},
		{"list", []any{"a", "b", "c"}, codec.KindList},
		{"number", 42, codec.KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !a.HSet(ctx, "bucket", tt.name, tt.v) {
				t.Fatal("HSet returned false")
			}
			got, ok := a.HGet(ctx, "bucket", tt.name)
			if !ok {
				t.Fatal("HGet reported missing after HSet")
			}
			if got.Kind != tt.wantKind {
				t.Errorf("HGet kind = %v, want %v", got.Kind, tt.wantKind)
			}
		})
	}
}

// TestHashSetIfUnset tests that existing fields are not overwritten
func TestHashSetIfUnset(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if !a.HSetIfUnset(ctx, "ns", "k", "first") {
		t.Fatal("HSetIfUnset returned false for a fresh field")
	}
	if a.HSetIfUnset(ctx, "ns", "k", "second") {
		t.Error("HSetIfUnset overwrote an existing field")
	}
	if v, _ := a.HGet(ctx, "ns", "k"); v.Text != "first" {
		t.Errorf("field = %q after skipped write, want first", v.Text)
	}
}

// TestHashGetMap tests mapping coercion and result ownership
func TestHashGetMap(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "ns", "doc", map[string]any{"title": "home"})
	a.HSet(ctx, "ns", "text", "plain")

	m := a.HGetMap(ctx, "ns", "doc")
	if m["title"] != "home" {
		t.Errorf("HGetMap = %v, want title=home", m)
	}

	// Non-mapping values and missing fields coerce to an empty mapping
	if m := a.HGetMap(ctx, "ns", "text"); len(m) != 0 {
		t.Errorf("HGetMap of text = %v, want empty", m)
	}
	if m := a.HGetMap(ctx, "ns", "missing"); m == nil || len(m) != 0 {
		t.Errorf("HGetMap of missing field = %v, want empty non-nil", m)
	}

	// The caller owns the result; mutation does not leak into later reads
	m["title"] = "changed"
	if again := a.HGetMap(ctx, "ns", "doc"); again["title"] != "home" {
		t.Errorf("mutation leaked into a later read: %v", again)
	}
}

// TestHashGetRaw tests that the raw wire string bypasses the codec
func TestHashGetRaw(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "ns", "doc", map[string]any{"a": 1})
	raw, ok := a.HGetRaw(ctx, "ns", "doc")
	if !ok {
		t.Fatal("HGetRaw reported missing")
	}
	if raw != `{"a":1}` {
		t.Errorf("HGetRaw = %q, want the JSON wire form", raw)
	}

	if _, ok := a.HGetRaw(ctx, "ns", "missing"); ok {
		t.Error("HGetRaw reported ok for a missing field")
	}
}

// TestHashGetMany tests multi-get ordering and skipping
func TestHashGetMany(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "ns", "a", "1")
	a.HSet(ctx, "ns", "c", "3")

	got := a.HGetMany(ctx, "ns", []string{"c", "", "missing", "a"})
	if len(got) != 2 {
		t.Fatalf("HGetMany returned %d entries, want 2", len(got))
	}
	// Request order is kept, not key order
	if got[0].Key != "c" || got[1].Key != "a" {
		t.Errorf("HGetMany order = [%s %s], want [c a]", got[0].Key, got[1].Key)
	}

	if got := a.HGetMany(ctx, "ns", nil); got != nil {
		t.Errorf("HGetMany(nil) = %v, want nil", got)
	}
}

// TestHashDelete tests single and bulk field removal
func TestHashDelete(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d"} {
		a.HSet(ctx, "ns", k, "v")
	}

	if !a.HDel(ctx, "ns", "a") {
		t.Error("HDel returned false")
	}
	if a.HExists(ctx, "ns", "a") {
		t.Error("field still exists after HDel")
	}
	// Deleting a missing field is not a failure
	if !a.HDel(ctx, "ns", "ghost") {
		t.Error("HDel of a missing field returned false")
	}

	if !a.HDelMany(ctx, "ns", []string{"b", "c"}) {
		t.Error("HDelMany returned false")
	}
	if n := a.HSize(ctx, "ns"); n != 1 {
		t.Errorf("HSize = %d after deletes, want 1", n)
	}
	// An empty key list is trivially done
	if !a.HDelMany(ctx, "ns", nil) {
		t.Error("HDelMany(nil) returned false")
	}
}

// TestHashIncr tests increments including the overwrite fallback
func TestHashIncr(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if n := a.HIncr(ctx, "ns", "hits", 5); n != 5 {
		t.Errorf("first HIncr = %d, want 5", n)
	}
	if n := a.HIncr(ctx, "ns", "hits", 3); n != 8 {
		t.Errorf("second HIncr = %d, want 8", n)
	}
	if n := a.HIncr(ctx, "ns", "hits", -8); n != 0 {
		t.Errorf("negative HIncr = %d, want 0", n)
	}

	// Zero delta is a no-op and does not create the field
	if n := a.HIncr(ctx, "ns", "untouched", 0); n != 0 {
		t.Errorf("zero-delta HIncr = %d, want 0", n)
	}
	if a.HExists(ctx, "ns", "untouched") {
		t.Error("zero-delta HIncr created the field")
	}
}

// TestHashIncrFallback tests that incrementing a non-integer field
// overwrites it with the delta
func TestHashIncrFallback(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "ns", "k", "not a number")
	if n := a.HIncr(ctx, "ns", "k", 7); n != 7 {
		t.Errorf("HIncr over text = %d, want the delta 7", n)
	}
	// The field now holds an integer, later increments resume normally
	if n := a.HIncr(ctx, "ns", "k", 1); n != 8 {
		t.Errorf("HIncr after fallback = %d, want 8", n)
	}
}

// TestHashSizeClear tests HSize and HClear
func TestHashSizeClear(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if n := a.HSize(ctx, "ns"); n != 0 {
		t.Errorf("HSize of a fresh namespace = %d, want 0", n)
	}
	for _, k := range []string{"a", "b", "c"} {
		a.HSet(ctx, "ns", k, "v")
	}
	if n := a.HSize(ctx, "ns"); n != 3 {
		t.Errorf("HSize = %d, want 3", n)
	}

	if !a.HClear(ctx, "ns") {
		t.Error("HClear returned false")
	}
	if n := a.HSize(ctx, "ns"); n != 0 {
		t.Errorf("HSize = %d after HClear, want 0", n)
	}
}

// TestHashGetAll tests that all fields come back decoded in key order
func TestHashGetAll(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "ns", "c", "3")
	a.HSet(ctx, "ns", "a", "1")
	a.HSet(ctx, "ns", "b", map[string]any{"x": true})

	got := a.HGetAll(ctx, "ns")
	if len(got) != 3 {
		t.Fatalf("HGetAll returned %d entries, want 3", len(got))
	}
	wantKeys := []string{"a", "b", "c"}
	for i, e := range got {
		if e.Key != wantKeys[i] {
			t.Errorf("HGetAll[%d].Key = %q, want %q", i, e.Key, wantKeys[i])
		}
	}
	if got[1].Value.Kind != codec.KindMap {
		t.Errorf("HGetAll[1] kind = %v, want a mapping", got[1].Value.Kind)
	}
}

// TestHashScanBounds tests forward and reverse scans over (start, end]
func TestHashScanBounds(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		a.HSet(ctx, "ns", k, "v:"+k)
	}

	keys := func(entries []Entry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Key
		}
		return out
	}

	tests := []struct {
		name    string
		start   string
		end     string
		limit   int
		reverse bool
		want    []string
	}{
		{"forward all", "", "", 0, false, []string{"a", "b", "c", "d", "e"}},
		{"forward after start", "b", "", 0, false, []string{"c", "d", "e"}},
		{"forward through end", "", "c", 0, false, []string{"a", "b", "c"}},
		{"forward limited", "", "", 2, false, []string{"a", "b"}},
		{"reverse all", "", "", 0, true, []string{"e", "d", "c", "b", "a"}},
		{"reverse below start", "d", "", 0, true, []string{"c", "b", "a"}},
		{"reverse to end", "", "c", 0, true, []string{"e", "d", "c"}},
		{"reverse limited", "", "", 2, true, []string{"e", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(a.HScan(ctx, "ns", tt.start, tt.end, tt.limit, tt.reverse))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HScan = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHashKeysAndList tests key listing and namespace listing
func TestHashKeysAndList(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "alpha", "k1", "v")
	a.HSet(ctx, "alpha", "k2", "v")
	a.HSet(ctx, "beta", "k1", "v")

	if got := a.HKeys(ctx, "alpha", "", "", 0); !reflect.DeepEqual(got, []string{"k1", "k2"}) {
		t.Errorf("HKeys = %v, want [k1 k2]", got)
	}
	if got := a.HKeys(ctx, "alpha", "k1", "", 0); !reflect.DeepEqual(got, []string{"k2"}) {
		t.Errorf("HKeys after k1 = %v, want [k2]", got)
	}

	if got := a.HList(ctx, "", "", 0); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("HList = %v, want [alpha beta]", got)
	}
}

// TestHashRecords tests record scanning with id injection
func TestHashRecords(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "bucket", "post1", map[string]any{"title": "first"})
	a.HSet(ctx, "bucket", "post2", map[string]any{"title": "second"})
	a.HSet(ctx, "bucket", "marker", "plain text")
	a.HSet(ctx, "bucket", "empty", map[string]any{})

	records := a.Records(ctx, "bucket", "", "", 0, false)
	if len(records) != 2 {
		t.Fatalf("Records returned %d records, want 2", len(records))
	}
	if records[0]["_id"] != "post1" || records[0]["title"] != "first" {
		t.Errorf("Records[0] = %v, want post1/first", records[0])
	}
	if records[1]["_id"] != "post2" {
		t.Errorf("Records[1] id = %v, want post2", records[1]["_id"])
	}

	// Reverse order flips the ids
	records = a.Records(ctx, "bucket", "", "", 0, true)
	if len(records) != 2 || records[0]["_id"] != "post2" {
		t.Errorf("reverse Records first id = %v, want post2", records[0]["_id"])
	}
}

// TestHashRecordNumbers tests that numeric record fields decode as
// json.Number and stay precise
func TestHashRecordNumbers(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.HSet(ctx, "bucket", "doc", map[string]any{"size": int64(9007199254740993)})
	m := a.HGetMap(ctx, "bucket", "doc")
	n, ok := m["size"].(json.Number)
	if !ok {
		t.Fatalf("size field = %T, want json.Number", m["size"])
	}
	if got, err := n.Int64(); err != nil || got != 9007199254740993 {
		t.Errorf("size = %v (%v), want 9007199254740993", got, err)
	}
}
