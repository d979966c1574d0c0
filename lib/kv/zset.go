package kv

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Sorted Sets
// --------------------------------------------------------------------------

// ZSet stores a member with the given score in the named sorted set
func (a *Adapter) ZSet(ctx context.Context, ns, key string, score int64) bool {
	if ns == "" || !a.ready("zset") {
		return false
	}
	if err := a.conn.ZSet(ctx, ns, key, score); err != nil {
		a.fail("zset", err)
		return false
	}
	return true
}

// ZGet retrieves the score of a member
func (a *Adapter) ZGet(ctx context.Context, ns, key string) (int64, bool) {
	if ns == "" || key == "" || !a.ready("zget") {
		return 0, false
	}
	score, ok, err := a.conn.ZGet(ctx, ns, key)
	if err != nil {
		a.fail("zget", err)
		return 0, false
	}
	return score, ok
}

// ZGetMany retrieves the scores of multiple members. Missing members and
// empty keys are skipped; the result keeps the order of the requested keys.
func (a *Adapter) ZGetMany(ctx context.Context, ns string, keys []string) []backend.ScoredEntry {
	if ns == "" || len(keys) == 0 || a.conn == nil {
		return nil
	}
	entries := make([]backend.ScoredEntry, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if score, ok := a.ZGet(ctx, ns, key); ok {
			entries = append(entries, backend.ScoredEntry{Key: key, Score: score})
		}
	}
	return entries
}

// ZIncr adds delta to the score of a member and returns the result. A zero
// delta is a no-op returning zero. When the backend rejects the increment,
// the member is overwritten with the delta as its new score and the delta is
// returned; like HIncr, this fallback is not atomic.
func (a *Adapter) ZIncr(ctx context.Context, ns, key string, delta int64) int64 {
	if delta == 0 {
		return 0
	}
	if ns == "" || !a.ready("zincr") {
		return 0
	}
	score, err := a.conn.ZIncr(ctx, ns, key, delta)
	if err != nil {
		a.fail("zincr", err)
		if err := a.conn.ZSet(ctx, ns, key, delta); err != nil {
			a.fail("zset", err)
		}
		return delta
	}
	return score
}

// ZDel removes a member from the named sorted set
func (a *Adapter) ZDel(ctx context.Context, ns, key string) bool {
	if ns == "" || key == "" || !a.ready("zdel") {
		return false
	}
	if err := a.conn.ZDel(ctx, ns, key); err != nil {
		a.fail("zdel", err)
		return false
	}
	return true
}

// ZClear removes the named sorted set and all its members
func (a *Adapter) ZClear(ctx context.Context, ns string) bool {
	if ns == "" || !a.ready("zclear") {
		return false
	}
	if err := a.conn.ZClear(ctx, ns); err != nil {
		a.fail("zclear", err)
		return false
	}
	return true
}

// ZSize returns the number of members in the named sorted set
func (a *Adapter) ZSize(ctx context.Context, ns string) int64 {
	if ns == "" || !a.ready("zsize") {
		return 0
	}
	n, err := a.conn.ZSize(ctx, ns)
	if err != nil {
		a.fail("zsize", err)
		return 0
	}
	return n
}

// ZCount returns the number of members with start <= score <= end. The zero
// Score leaves that side unbounded.
func (a *Adapter) ZCount(ctx context.Context, ns string, start, end backend.Score) int64 {
	if ns == "" || !a.ready("zcount") {
		return 0
	}
	n, err := a.conn.ZCount(ctx, ns, start, end)
	if err != nil {
		a.fail("zcount", err)
		return 0
	}
	return n
}

// ZList returns the names of non-empty sorted sets in (start, end]
func (a *Adapter) ZList(ctx context.Context, start, end string, limit int) []string {
	if !a.ready("zlist") {
		return nil
	}
	names, err := a.conn.ZList(ctx, start, end, limit)
	if err != nil {
		a.fail("zlist", err)
		return nil
	}
	return names
}

// ZMax returns the member with the highest (score, key) pair. The third
// return value reports whether the set has any members.
func (a *Adapter) ZMax(ctx context.Context, ns string) (string, int64, bool) {
	entries := a.ZRScan(ctx, ns, "", backend.Score{}, backend.Score{}, 1)
	if len(entries) == 0 {
		return "", 0, false
	}
	return entries[0].Key, entries[0].Score, true
}

// ZMin returns the member with the lowest (score, key) pair. The third
// return value reports whether the set has any members.
func (a *Adapter) ZMin(ctx context.Context, ns string) (string, int64, bool) {
	entries := a.ZScan(ctx, ns, "", backend.Score{}, backend.Score{}, 1)
	if len(entries) == 0 {
		return "", 0, false
	}
	return entries[0].Key, entries[0].Score, true
}

// ZScan returns members ordered by ascending (score, key). Score bounds are
// inclusive on both sides and a zero Score is unbounded; scanning with
// scoreStart == scoreEnd selects exactly that score. keyStart excludes the
// named key among members sharing the boundary score, so a scan can resume
// after the last member of a previous page.
func (a *Adapter) ZScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) []backend.ScoredEntry {
	if ns == "" || !a.ready("zscan") {
		return nil
	}
	entries, err := a.conn.ZScan(ctx, ns, keyStart, scoreStart, scoreEnd, limit)
	if err != nil {
		a.fail("zscan", err)
		return nil
	}
	return entries
}

// ZRScan returns members ordered by descending (score, key), with
// scoreStart as the inclusive upper bound and scoreEnd as the inclusive
// lower bound
func (a *Adapter) ZRScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) []backend.ScoredEntry {
	if ns == "" || !a.ready("zrscan") {
		return nil
	}
	entries, err := a.conn.ZRScan(ctx, ns, keyStart, scoreStart, scoreEnd, limit)
	if err != nil {
		a.fail("zrscan", err)
		return nil
	}
	return entries
}

// ZRange returns members by rank in [offset, offset+limit), ascending by
// (score, key)
func (a *Adapter) ZRange(ctx context.Context, ns string, offset, limit int) []backend.ScoredEntry {
	if ns == "" || !a.ready("zrange") {
		return nil
	}
	entries, err := a.conn.ZRange(ctx, ns, offset, limit)
	if err != nil {
		a.fail("zrange", err)
		return nil
	}
	return entries
}

// ZRRange returns members by rank in [offset, offset+limit), descending by
// (score, key)
func (a *Adapter) ZRRange(ctx context.Context, ns string, offset, limit int) []backend.ScoredEntry {
	if ns == "" || !a.ready("zrrange") {
		return nil
	}
	entries, err := a.conn.ZRRange(ctx, ns, offset, limit)
	if err != nil {
		a.fail("zrrange", err)
		return nil
	}
	return entries
}
