package kv

import (
	"context"
	"testing"

	"github.com/ValentinKolb/bKV/lib/codec"
)

// TestQueuePushOrder tests push direction and size accounting
func TestQueuePushOrder(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if n := a.QPushBack(ctx, "q", "1", "2", "3"); n != 3 {
		t.Fatalf("QPushBack = %d, want 3", n)
	}
	// Front pushes go on one at a time, the last lands at the front
	if n := a.QPushFront(ctx, "q", "0", "-1"); n != 5 {
		t.Fatalf("QPushFront = %d, want 5", n)
	}
	if n := a.QSize(ctx, "q"); n != 5 {
		t.Errorf("QSize = %d, want 5", n)
	}

	got := a.QRange(ctx, "q", 0, 10)
	want := []string{"-1", "0", "1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("QRange returned %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("QRange[%d] = %q, want %q", i, got[i].Text, want[i])
		}
	}
}

// TestQueueTypedItems tests that structured items survive the round trip
func TestQueueTypedItems(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.QPushBack(ctx, "q", map[string]any{"job": "sync"}, []any{"a", "b"}, 7)

	got := a.QRange(ctx, "q", 0, 10)
	if len(got) != 3 {
		t.Fatalf("QRange returned %d items, want 3", len(got))
	}
	if got[0].Kind != codec.KindMap || got[0].AsMap()["job"] != "sync" {
		t.Errorf("item 0 = %v, want a mapping with job=sync", got[0])
	}
	if got[1].Kind != codec.KindList || len(got[1].AsList()) != 2 {
		t.Errorf("item 1 = %v, want a two-element list", got[1])
	}
	if got[2].Text != "7" {
		t.Errorf("item 2 = %v, want 7", got[2])
	}
}

// TestQueuePop tests popping from both ends
func TestQueuePop(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.QPushBack(ctx, "q", "a", "b", "c", "d")

	got := a.QPopFront(ctx, "q", 2)
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "b" {
		t.Errorf("QPopFront(2) = %v, want [a b]", got)
	}

	got = a.QPopBack(ctx, "q", 1)
	if len(got) != 1 || got[0].Text != "d" {
		t.Errorf("QPopBack(1) = %v, want [d]", got)
	}

	if n := a.QSize(ctx, "q"); n != 1 {
		t.Errorf("QSize after pops = %d, want 1", n)
	}

	// Popping a missing queue yields nothing
	if got := a.QPopFront(ctx, "ghost", 3); len(got) != 0 {
		t.Errorf("QPopFront on missing queue = %v, want empty", got)
	}
}

// TestQueueTrim tests trimming from both ends
func TestQueueTrim(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.QPushBack(ctx, "q", "a", "b", "c", "d", "e")

	if n := a.QTrimFront(ctx, "q", 2); n != 2 {
		t.Errorf("QTrimFront = %d, want 2", n)
	}
	if n := a.QTrimBack(ctx, "q", 1); n != 1 {
		t.Errorf("QTrimBack = %d, want 1", n)
	}

	got := a.QRange(ctx, "q", 0, 10)
	if len(got) != 2 || got[0].Text != "c" || got[1].Text != "d" {
		t.Errorf("QRange after trims = %v, want [c d]", got)
	}

	// Trimming more than present removes what exists
	if n := a.QTrimFront(ctx, "q", 10); n != 2 {
		t.Errorf("oversized QTrimFront = %d, want 2", n)
	}
	if n := a.QSize(ctx, "q"); n != 0 {
		t.Errorf("QSize after full trim = %d, want 0", n)
	}
}

// TestQueueClear tests removing a queue outright
func TestQueueClear(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	a.QPushBack(ctx, "q", "a", "b")
	if !a.QClear(ctx, "q") {
		t.Error("QClear returned false")
	}
	if n := a.QSize(ctx, "q"); n != 0 {
		t.Errorf("QSize after QClear = %d, want 0", n)
	}
}

// TestQueueGuards tests argument guards and failing-backend degradation
func TestQueueGuards(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if n := a.QPushBack(ctx, "", "v"); n != 0 {
		t.Errorf("QPushBack with empty name = %d, want 0", n)
	}
	if n := a.QPushBack(ctx, "q"); n != 0 {
		t.Errorf("QPushBack without items = %d, want 0", n)
	}
	if n := a.QTrimFront(ctx, "q", 0); n != 0 {
		t.Errorf("QTrimFront with zero size = %d, want 0", n)
	}
	if got := a.QPopBack(ctx, "q", 0); got != nil {
		t.Errorf("QPopBack with zero size = %v, want nil", got)
	}

	f := newFailingAdapter(t)
	if n := f.QPushBack(ctx, "q", "v"); n != 0 {
		t.Errorf("QPushBack on failing backend = %d, want 0", n)
	}
	if got := f.QRange(ctx, "q", 0, 10); got != nil {
		t.Errorf("QRange on failing backend = %v, want nil", got)
	}
	if f.QClear(ctx, "q") {
		t.Error("QClear reported success on a failing backend")
	}
}
