package internal

import (
	"math"
	"sync"

	"github.com/google/btree"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// ZSet (one sorted set)
// --------------------------------------------------------------------------

// zMember is the ordered-view key of a sorted-set member
type zMember struct {
	key   string
	score int64
}

// zLess orders members by (score, key)
func zLess(a, b zMember) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.key < b.key
}

// ZSet is a single sorted set: a member-score map paired with a (score, key)
// ordered view for range scans.
type ZSet struct {
	mu      sync.RWMutex
	scores  map[string]int64
	ordered *btree.BTreeG[zMember]
}

// NewZSet creates an empty sorted set
func NewZSet() *ZSet {
	return &ZSet{
		scores:  make(map[string]int64),
		ordered: btree.NewG[zMember](btreeDegree, zLess),
	}
}

// Set stores a member with the given score
func (z *ZSet) Set(key string, score int64) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.set(key, score)
}

// set stores a member; the caller must hold the write lock
func (z *ZSet) set(key string, score int64) {
	if old, exists := z.scores[key]; exists {
		if old == score {
			return
		}
		z.ordered.Delete(zMember{key: key, score: old})
	}
	z.scores[key] = score
	z.ordered.ReplaceOrInsert(zMember{key: key, score: score})
}

// Get retrieves the score of a member
func (z *ZSet) Get(key string) (int64, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	score, ok := z.scores[key]
	return score, ok
}

// Del removes a member
func (z *ZSet) Del(key string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if score, exists := z.scores[key]; exists {
		delete(z.scores, key)
		z.ordered.Delete(zMember{key: key, score: score})
	}
}

// Incr adds delta to the score of a member. Missing members start at zero.
func (z *ZSet) Incr(key string, delta int64) int64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	score := z.scores[key] + delta
	z.set(key, score)
	return score
}

// Size returns the number of members
func (z *ZSet) Size() int64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return int64(len(z.scores))
}

// Count returns the number of members with start <= score <= end
func (z *ZSet) Count(start, end backend.Score) int64 {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var n int64
	iter := func(m zMember) bool {
		if end.Valid && m.score > end.N {
			return false
		}
		n++
		return true
	}
	if start.Valid {
		z.ordered.AscendGreaterOrEqual(zMember{score: start.N}, iter)
	} else {
		z.ordered.Ascend(iter)
	}
	return n
}

// Scan returns members ordered by ascending (score, key). Score bounds are
// inclusive; keyStart (paired with scoreStart) excludes the named key among
// members sharing the boundary score.
func (z *ZSet) Scan(keyStart string, scoreStart, scoreEnd backend.Score, limit int) []backend.ScoredEntry {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var entries []backend.ScoredEntry
	iter := func(m zMember) bool {
		if keyStart != "" && scoreStart.Valid && m.score == scoreStart.N && m.key <= keyStart {
			return true
		}
		if scoreEnd.Valid && m.score > scoreEnd.N {
			return false
		}
		entries = append(entries, backend.ScoredEntry{Key: m.key, Score: m.score})
		return limit <= 0 || len(entries) < limit
	}
	if scoreStart.Valid {
		z.ordered.AscendGreaterOrEqual(zMember{score: scoreStart.N}, iter)
	} else {
		z.ordered.Ascend(iter)
	}
	return entries
}

// RScan returns members ordered by descending (score, key). Score bounds are
// inclusive with scoreStart as the upper bound; keyStart excludes the named
// key among members sharing the boundary score.
func (z *ZSet) RScan(keyStart string, scoreStart, scoreEnd backend.Score, limit int) []backend.ScoredEntry {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var entries []backend.ScoredEntry
	iter := func(m zMember) bool {
		if scoreStart.Valid && m.score > scoreStart.N {
			return true
		}
		if keyStart != "" && scoreStart.Valid && m.score == scoreStart.N && m.key >= keyStart {
			return true
		}
		if scoreEnd.Valid && m.score < scoreEnd.N {
			return false
		}
		entries = append(entries, backend.ScoredEntry{Key: m.key, Score: m.score})
		return limit <= 0 || len(entries) < limit
	}
	if scoreStart.Valid && scoreStart.N < math.MaxInt64 {
		// Pivot one score above the bound so every member at the bound score
		// is still visited; the filter above drops overshoot.
		z.ordered.DescendLessOrEqual(zMember{score: scoreStart.N + 1}, iter)
	} else {
		z.ordered.Descend(iter)
	}
	return entries
}

// Range returns members by ascending rank in [offset, offset+limit)
func (z *ZSet) Range(offset, limit int) []backend.ScoredEntry {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var (
		entries []backend.ScoredEntry
		rank    int
	)
	z.ordered.Ascend(func(m zMember) bool {
		if rank >= offset {
			entries = append(entries, backend.ScoredEntry{Key: m.key, Score: m.score})
		}
		rank++
		return limit <= 0 || len(entries) < limit
	})
	return entries
}

// Bytes returns the approximate stored size in bytes
func (z *ZSet) Bytes() int64 {
	z.mu.RLock()
	defer z.mu.RUnlock()
	var size int64
	for k := range z.scores {
		size += int64(len(k)) + 8
	}
	return size
}

// RRange returns members by descending rank in [offset, offset+limit)
func (z *ZSet) RRange(offset, limit int) []backend.ScoredEntry {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var (
		entries []backend.ScoredEntry
		rank    int
	)
	z.ordered.Descend(func(m zMember) bool {
		if rank >= offset {
			entries = append(entries, backend.ScoredEntry{Key: m.key, Score: m.score})
		}
		rank++
		return limit <= 0 || len(entries) < limit
	})
	return entries
}
