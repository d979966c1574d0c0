package memdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/bKV/lib/backend"
	backendtesting "github.com/ValentinKolb/bKV/lib/backend/testing"
)

// TestMemDB runs the shared conformance suite against the in-memory engine
func TestMemDB(t *testing.T) {
	backendtesting.RunConnTests(t, "memdb", func(t *testing.T) backend.Conn {
		return New(nil)
	})
}

// TestMemDBClosed tests that operations on a closed engine are rejected
func TestMemDBClosed(t *testing.T) {
	conn := New(nil)
	if err := conn.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	ctx := context.Background()
	if err := conn.HSet(ctx, "ns", "k", "v"); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("HSet on closed engine = %v, want ErrClosed", err)
	}
	if _, _, err := conn.Get(ctx, "k"); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("Get on closed engine = %v, want ErrClosed", err)
	}

	// Closing twice is fine
	if err := conn.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}

// TestMemDBSetCancelsExpiry tests that a plain Set removes a pending expiry
func TestMemDBSetCancelsExpiry(t *testing.T) {
	conn := New(&Options{SweepInterval: 10 * time.Millisecond})
	defer conn.Close()
	ctx := context.Background()

	if err := conn.SetX(ctx, "k", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("SetX returned error: %v", err)
	}
	if err := conn.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	time.Sleep(120 * time.Millisecond)

	got, ok, err := conn.Get(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Errorf("Get = (%q, %v, %v), want (v2, true, nil)", got, ok, err)
	}
}

// TestMemDBSweeperRemovesEntries tests that the background sweeper physically
// drops expired entries
func TestMemDBSweeperRemovesEntries(t *testing.T) {
	conn := New(&Options{SweepInterval: 10 * time.Millisecond})
	defer conn.Close()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := conn.SetX(ctx, key, "v", 20*time.Millisecond); err != nil {
			t.Fatalf("SetX returned error: %v", err)
		}
	}

	time.Sleep(100 * time.Millisecond)

	impl := conn.(*memdbImpl)
	if n := impl.kv.Size(); n != 0 {
		t.Errorf("kv map still holds %d entries after sweep, want 0", n)
	}
}
