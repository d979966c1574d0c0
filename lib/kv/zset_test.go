package kv

import (
	"context"
	"reflect"
	"testing"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// seedRanking stores a small sorted set used by the scan tests
func seedRanking(t *testing.T, a *Adapter, ns string) {
	t.Helper()
	ctx := context.Background()
	for key, score := range map[string]int64{
		"low": 1, "mid-a": 5, "mid-b": 5, "high": 9,
	} {
		if !a.ZSet(ctx, ns, key, score) {
			t.Fatalf("ZSet(%q) returned false", key)
		}
	}
}

// TestZSetGetDel tests basic member round trips
func TestZSetGetDel(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if !a.ZSet(ctx, "ns", "member", 7) {
		t.Fatal("ZSet returned false")
	}
	score, ok := a.ZGet(ctx, "ns", "member")
	if !ok || score != 7 {
		t.Errorf("ZGet = (%d, %v), want (7, true)", score, ok)
	}

	// Overwrite moves the member to the new score
	a.ZSet(ctx, "ns", "member", -3)
	if score, _ := a.ZGet(ctx, "ns", "member"); score != -3 {
		t.Errorf("ZGet after overwrite = %d, want -3", score)
	}

	if !a.ZDel(ctx, "ns", "member") {
		t.Error("ZDel returned false")
	}
	if _, ok := a.ZGet(ctx, "ns", "member"); ok {
		t.Error("ZGet reported ok after ZDel")
	}
}

// TestZGetMany tests multi-get ordering and skipping
func TestZGetMany(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	seedRanking(t, a, "ns")

	got := a.ZGetMany(ctx, "ns", []string{"high", "", "ghost", "low"})
	want := []backend.ScoredEntry{{Key: "high", Score: 9}, {Key: "low", Score: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZGetMany = %v, want %v", got, want)
	}
}

// TestZIncr tests score increments
func TestZIncr(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if n := a.ZIncr(ctx, "ns", "k", 5); n != 5 {
		t.Errorf("first ZIncr = %d, want 5", n)
	}
	if n := a.ZIncr(ctx, "ns", "k", -2); n != 3 {
		t.Errorf("second ZIncr = %d, want 3", n)
	}
	if n := a.ZIncr(ctx, "ns", "k", 0); n != 0 {
		t.Errorf("zero-delta ZIncr = %d, want 0", n)
	}

	// On a failing backend the delta comes back unchanged
	f := newFailingAdapter(t)
	if n := f.ZIncr(ctx, "ns", "k", 4); n != 4 {
		t.Errorf("ZIncr on failing backend = %d, want the delta 4", n)
	}
}

// TestZSizeClearCount tests cardinality operations
func TestZSizeClearCount(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	seedRanking(t, a, "ns")

	if n := a.ZSize(ctx, "ns"); n != 4 {
		t.Errorf("ZSize = %d, want 4", n)
	}

	tests := []struct {
		name       string
		start, end backend.Score
		want       int64
	}{
		{"unbounded", backend.Score{}, backend.Score{}, 4},
		{"from 5 up", backend.ScoreOf(5), backend.Score{}, 3},
		{"up to 5", backend.Score{}, backend.ScoreOf(5), 3},
		{"exactly 5", backend.ScoreOf(5), backend.ScoreOf(5), 2},
		{"empty window", backend.ScoreOf(6), backend.ScoreOf(8), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := a.ZCount(ctx, "ns", tt.start, tt.end); n != tt.want {
				t.Errorf("ZCount = %d, want %d", n, tt.want)
			}
		})
	}

	if !a.ZClear(ctx, "ns") {
		t.Error("ZClear returned false")
	}
	if n := a.ZSize(ctx, "ns"); n != 0 {
		t.Errorf("ZSize after ZClear = %d, want 0", n)
	}
}

// TestZList tests sorted-set namespace listing
func TestZList(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.ZSet(ctx, "alpha", "k", 1)
	a.ZSet(ctx, "beta", "k", 1)

	if got := a.ZList(ctx, "", "", 0); !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Errorf("ZList = %v, want [alpha beta]", got)
	}
	if got := a.ZList(ctx, "alpha", "", 0); !reflect.DeepEqual(got, []string{"beta"}) {
		t.Errorf("ZList after alpha = %v, want [beta]", got)
	}
}

// TestZMinMax tests the extremes of the (score, key) order
func TestZMinMax(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	// Empty set has no extremes
	if _, _, ok := a.ZMax(ctx, "ns"); ok {
		t.Error("ZMax reported ok on an empty set")
	}
	if _, _, ok := a.ZMin(ctx, "ns"); ok {
		t.Error("ZMin reported ok on an empty set")
	}

	seedRanking(t, a, "ns")

	key, score, ok := a.ZMax(ctx, "ns")
	if !ok || key != "high" || score != 9 {
		t.Errorf("ZMax = (%q, %d, %v), want (high, 9, true)", key, score, ok)
	}
	key, score, ok = a.ZMin(ctx, "ns")
	if !ok || key != "low" || score != 1 {
		t.Errorf("ZMin = (%q, %d, %v), want (low, 1, true)", key, score, ok)
	}
}

// TestZScanOrderAndBounds tests scan direction, score bounds and the key
// tiebreak used for pagination
func TestZScanOrderAndBounds(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	seedRanking(t, a, "ns")

	keys := func(entries []backend.ScoredEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Key
		}
		return out
	}

	got := keys(a.ZScan(ctx, "ns", "", backend.Score{}, backend.Score{}, 0))
	if want := []string{"low", "mid-a", "mid-b", "high"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZScan all = %v, want %v", got, want)
	}

	got = keys(a.ZRScan(ctx, "ns", "", backend.Score{}, backend.Score{}, 0))
	if want := []string{"high", "mid-b", "mid-a", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZRScan all = %v, want %v", got, want)
	}

	// Score bounds are inclusive on both sides
	got = keys(a.ZScan(ctx, "ns", "", backend.ScoreOf(5), backend.ScoreOf(9), 0))
	if want := []string{"mid-a", "mid-b", "high"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZScan [5,9] = %v, want %v", got, want)
	}

	// Resuming after mid-a at the same score skips it
	got = keys(a.ZScan(ctx, "ns", "mid-a", backend.ScoreOf(5), backend.Score{}, 0))
	if want := []string{"mid-b", "high"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZScan resumed = %v, want %v", got, want)
	}

	// Limit truncates
	got = keys(a.ZScan(ctx, "ns", "", backend.Score{}, backend.Score{}, 2))
	if want := []string{"low", "mid-a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ZScan limited = %v, want %v", got, want)
	}
}

// TestZRange tests rank-based paging in both directions
func TestZRange(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	seedRanking(t, a, "ns")

	got := a.ZRange(ctx, "ns", 1, 2)
	want := []backend.ScoredEntry{{Key: "mid-a", Score: 5}, {Key: "mid-b", Score: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZRange(1,2) = %v, want %v", got, want)
	}

	got = a.ZRRange(ctx, "ns", 0, 2)
	want = []backend.ScoredEntry{{Key: "high", Score: 9}, {Key: "mid-b", Score: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZRRange(0,2) = %v, want %v", got, want)
	}
}
