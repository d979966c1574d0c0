package bucket

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ValentinKolb/bKV/lib/kv"
)

// --------------------------------------------------------------------------
// Invitations
// --------------------------------------------------------------------------

const (
	// InviteNamespace is the reserved namespace holding invitation records
	InviteNamespace = "_bucket_invite"
	// defaultInviteLimit bounds List when no positive limit is given
	defaultInviteLimit = 100
)

// Invites manages invitation codes. A code is a ULID, so codes sort by
// creation time and a reverse scan lists the newest ones first. Each code
// is stored as one record in the invite namespace; redeeming it stamps the
// record with the bucket it was used for.
type Invites struct {
	store *kv.Adapter

	// entropy is monotonic within a millisecond; the mutex serializes it
	// since the reader itself is not safe for concurrent use
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewInvites creates the invitation manager over the given adapter
func NewInvites(store *kv.Adapter) *Invites {
	return &Invites{
		store:   store,
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

// newCode returns a fresh time-ordered invitation code
func (inv *Invites) newCode() string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), inv.entropy).String()
}

// Create stores one invitation carrying an optional note and returns its
// code
func (inv *Invites) Create(ctx context.Context, note string) (string, bool) {
	code := inv.newCode()
	record := map[string]any{
		"_id":        code,
		"created_at": time.Now().Unix(),
		"note":       note,
	}
	if !inv.store.HSet(ctx, InviteNamespace, code, record) {
		return "", false
	}
	return code, true
}

// CreateBatch stores n invitations sharing a note, with each copy numbered.
// It returns the codes that were stored; on backend trouble the slice is
// shorter than n.
func (inv *Invites) CreateBatch(ctx context.Context, n int, note string) []string {
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		copyNote := note
		if note != "" {
			copyNote = fmt.Sprintf("%d %s", i+1, note)
		}
		if code, ok := inv.Create(ctx, copyNote); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// Get returns the invitation record for a code, or an empty mapping when
// the code is unknown
func (inv *Invites) Get(ctx context.Context, code string) map[string]any {
	code = strings.TrimSpace(code)
	if code == "" {
		return map[string]any{}
	}
	return inv.store.HGetMap(ctx, InviteNamespace, code)
}

// CanUse reports whether a code exists and has not been redeemed yet
func (inv *Invites) CanUse(ctx context.Context, code string) bool {
	record := inv.Get(ctx, code)
	if len(record) == 0 {
		return false
	}
	if bucket, _ := record["bucket"].(string); bucket != "" {
		return false
	}
	return true
}

// Use redeems a code for a bucket, stamping the record with the bucket and
// the redemption time. Unknown codes report false. A code that was already
// redeemed is stamped again (last writer wins; callers gate on CanUse
// first).
func (inv *Invites) Use(ctx context.Context, code, bucket string) bool {
	code = strings.TrimSpace(code)
	record := inv.Get(ctx, code)
	if len(record) == 0 {
		return false
	}
	record["bucket"] = bucket
	record["used_at"] = time.Now().Unix()
	return inv.store.HSet(ctx, InviteNamespace, code, record)
}

// List returns up to limit invitation records, newest first. A non-empty
// start resumes below that code, excluding it; a non-positive limit selects
// the default of 100.
func (inv *Invites) List(ctx context.Context, start string, limit int) []map[string]any {
	if limit <= 0 {
		limit = defaultInviteLimit
	}
	return inv.store.Records(ctx, InviteNamespace, start, "", limit, true)
}
