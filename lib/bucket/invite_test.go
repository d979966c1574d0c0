package bucket

import (
	"context"
	"testing"

	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb"
	"github.com/ValentinKolb/bKV/lib/kv"
)

// newTestInvites returns an invitation manager over a fresh in-memory engine
func newTestInvites(t *testing.T) *Invites {
	t.Helper()
	conn := memdb.New(nil)
	t.Cleanup(func() { conn.Close() })
	return NewInvites(kv.NewAdapter(conn, nil))
}

// TestInviteCreateGet tests creating a code and reading its record
func TestInviteCreateGet(t *testing.T) {
	inv := newTestInvites(t)
	ctx := context.Background()

	code, ok := inv.Create(ctx, "for alice")
	if !ok {
		t.Fatal("Create returned false")
	}
	if len(code) != 26 {
		t.Errorf("code %q has %d characters, want a 26-character ULID", code, len(code))
	}

	record := inv.Get(ctx, code)
	if record["_id"] != code {
		t.Errorf("record _id = %v, want %q", record["_id"], code)
	}
	if record["note"] != "for alice" {
		t.Errorf("record note = %v, want the creation note", record["note"])
	}
	if record["created_at"] == nil {
		t.Error("record has no created_at")
	}

	// Unknown and empty codes yield empty mappings
	if m := inv.Get(ctx, "unknown"); len(m) != 0 {
		t.Errorf("Get(unknown) = %v, want empty", m)
	}
	if m := inv.Get(ctx, ""); m == nil || len(m) != 0 {
		t.Errorf("Get(\"\") = %v, want empty non-nil", m)
	}
}

// TestInviteUseFlow tests the redeem lifecycle
func TestInviteUseFlow(t *testing.T) {
	inv := newTestInvites(t)
	ctx := context.Background()

	code, _ := inv.Create(ctx, "")
	if !inv.CanUse(ctx, code) {
		t.Fatal("fresh code is not usable")
	}
	// Codes are compared trimmed
	if !inv.CanUse(ctx, "  "+code+" ") {
		t.Error("padded code is not usable")
	}

	if !inv.Use(ctx, code, "bucket-1") {
		t.Fatal("Use returned false for a fresh code")
	}
	if inv.CanUse(ctx, code) {
		t.Error("redeemed code is still usable")
	}

	record := inv.Get(ctx, code)
	if record["bucket"] != "bucket-1" {
		t.Errorf("record bucket = %v, want bucket-1", record["bucket"])
	}
	if record["used_at"] == nil {
		t.Error("record has no used_at")
	}

	// Unknown codes cannot be used or redeemed
	if inv.CanUse(ctx, "unknown") {
		t.Error("CanUse(unknown) = true")
	}
	if inv.Use(ctx, "unknown", "bucket-2") {
		t.Error("Use(unknown) = true")
	}
	if inv.CanUse(ctx, "") {
		t.Error("CanUse(\"\") = true")
	}
}

// TestInviteCreateBatch tests batch creation with numbered notes
func TestInviteCreateBatch(t *testing.T) {
	inv := newTestInvites(t)
	ctx := context.Background()

	codes := inv.CreateBatch(ctx, 3, "launch")
	if len(codes) != 3 {
		t.Fatalf("CreateBatch returned %d codes, want 3", len(codes))
	}

	seen := make(map[string]bool)
	for i, code := range codes {
		if seen[code] {
			t.Errorf("duplicate code %q", code)
		}
		seen[code] = true

		note, _ := inv.Get(ctx, code)["note"].(string)
		if note == "" {
			t.Errorf("code %d has no note, want a numbered note", i)
		}
	}
	if note := inv.Get(ctx, codes[0])["note"]; note != "1 launch" {
		t.Errorf("first note = %v, want \"1 launch\"", note)
	}
	if note := inv.Get(ctx, codes[2])["note"]; note != "3 launch" {
		t.Errorf("third note = %v, want \"3 launch\"", note)
	}

	// Without a note the copies stay unnumbered
	plain := inv.CreateBatch(ctx, 2, "")
	for _, code := range plain {
		if note := inv.Get(ctx, code)["note"]; note != "" {
			t.Errorf("note = %v for a blank batch, want empty", note)
		}
	}
}

// TestInviteList tests newest-first listing and pagination
func TestInviteList(t *testing.T) {
	inv := newTestInvites(t)
	ctx := context.Background()

	codes := inv.CreateBatch(ctx, 5, "batch")
	if len(codes) != 5 {
		t.Fatalf("CreateBatch returned %d codes, want 5", len(codes))
	}

	records := inv.List(ctx, "", 0)
	if len(records) != 5 {
		t.Fatalf("List returned %d records, want 5", len(records))
	}
	// Codes are time-ordered, so the last created comes first
	if records[0]["_id"] != codes[4] {
		t.Errorf("List[0] = %v, want the newest code %q", records[0]["_id"], codes[4])
	}
	if records[4]["_id"] != codes[0] {
		t.Errorf("List[4] = %v, want the oldest code %q", records[4]["_id"], codes[0])
	}

	// Limit truncates, start resumes below the given code
	page := inv.List(ctx, "", 2)
	if len(page) != 2 || page[0]["_id"] != codes[4] || page[1]["_id"] != codes[3] {
		t.Errorf("first page = %v, want the two newest codes", page)
	}
	next := inv.List(ctx, codes[3], 2)
	if len(next) != 2 || next[0]["_id"] != codes[2] {
		t.Errorf("second page = %v, want to resume below %q", next, codes[3])
	}
}
