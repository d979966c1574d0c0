package boltdb

import (
	"context"
	"math"

	bolt "go.etcd.io/bbolt"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Conn Interface - Sorted Sets
// --------------------------------------------------------------------------

// zsetTrees returns the member tree (k) and score tree (s) of a sorted set,
// or nils if the set does not exist
func zsetTrees(tx *bolt.Tx, ns string) (*bolt.Bucket, *bolt.Bucket) {
	bkt := namespace(tx, rootZSets, ns)
	if bkt == nil {
		return nil, nil
	}
	return bkt.Bucket(zByKey), bkt.Bucket(zByScore)
}

// zsetTreesOrCreate returns the member and score trees, creating the sorted
// set on first write
func zsetTreesOrCreate(tx *bolt.Tx, ns string) (*bolt.Bucket, *bolt.Bucket, error) {
	bkt, err := namespaceOrCreate(tx, rootZSets, ns)
	if err != nil {
		return nil, nil, err
	}
	byKey, err := bkt.CreateBucketIfNotExists(zByKey)
	if err != nil {
		return nil, nil, err
	}
	byScore, err := bkt.CreateBucketIfNotExists(zByScore)
	if err != nil {
		return nil, nil, err
	}
	return byKey, byScore, nil
}

// zsetPut stores a member in both trees, replacing a previous score entry
func zsetPut(byKey, byScore *bolt.Bucket, key string, score int64) error {
	if old := byKey.Get([]byte(key)); old != nil {
		if err := byScore.Delete(scoreMemberKey(decodeScore(old), key)); err != nil {
			return err
		}
	}
	if err := byKey.Put([]byte(key), encodeScore(score)); err != nil {
		return err
	}
	return byScore.Put(scoreMemberKey(score, key), nil)
}

// zsetDropIfEmpty removes the sorted-set bucket when its last member is gone
func zsetDropIfEmpty(tx *bolt.Tx, ns string, byKey *bolt.Bucket) error {
	if k, _ := byKey.Cursor().First(); k == nil {
		return tx.Bucket(rootZSets).DeleteBucket([]byte(ns))
	}
	return nil
}

func (b *boltImpl) ZSet(_ context.Context, ns, key string, score int64) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		byKey, byScore, err := zsetTreesOrCreate(tx, ns)
		if err != nil {
			return err
		}
		return zsetPut(byKey, byScore, key, score)
	})
}

func (b *boltImpl) ZGet(_ context.Context, ns, key string) (int64, bool, error) {
	if err := b.op(); err != nil {
		return 0, false, err
	}
	var (
		score int64
		ok    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		byKey, _ := zsetTrees(tx, ns)
		if byKey == nil {
			return nil
		}
		if raw := byKey.Get([]byte(key)); raw != nil {
			score, ok = decodeScore(raw), true
		}
		return nil
	})
	return score, ok, err
}

func (b *boltImpl) ZDel(_ context.Context, ns, key string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		byKey, byScore := zsetTrees(tx, ns)
		if byKey == nil {
			return nil
		}
		raw := byKey.Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := byKey.Delete([]byte(key)); err != nil {
			return err
		}
		if err := byScore.Delete(scoreMemberKey(decodeScore(raw), key)); err != nil {
			return err
		}
		return zsetDropIfEmpty(tx, ns, byKey)
	})
}

func (b *boltImpl) ZIncr(_ context.Context, ns, key string, delta int64) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var result int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		byKey, byScore, err := zsetTreesOrCreate(tx, ns)
		if err != nil {
			return err
		}
		// Missing members start at zero
		var current int64
		if raw := byKey.Get([]byte(key)); raw != nil {
			current = decodeScore(raw)
		}
		result = current + delta
		return zsetPut(byKey, byScore, key, result)
	})
	return result, err
}

func (b *boltImpl) ZSize(_ context.Context, ns string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var size int64
	err := b.db.View(func(tx *bolt.Tx) error {
		if byKey, _ := zsetTrees(tx, ns); byKey != nil {
			size = countKeys(byKey)
		}
		return nil
	})
	return size, err
}

func (b *boltImpl) ZClear(_ context.Context, ns string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(rootZSets).DeleteBucket([]byte(ns))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

func (b *boltImpl) ZCount(_ context.Context, ns string, start, end backend.Score) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var n int64
	err := b.db.View(func(tx *bolt.Tx) error {
		_, byScore := zsetTrees(tx, ns)
		if byScore == nil {
			return nil
		}
		c := byScore.Cursor()
		k, _ := c.First()
		if start.Valid {
			k, _ = c.Seek(encodeScore(start.N))
		}
		for ; k != nil; k, _ = c.Next() {
			score, _ := splitScoreMemberKey(k)
			if end.Valid && score > end.N {
				break
			}
			n++
		}
		return nil
	})
	return n, err
}

func (b *boltImpl) ZList(_ context.Context, start, end string, limit int) ([]string, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		names = listBuckets(tx, rootZSets, start, end, limit, func(bkt *bolt.Bucket) *bolt.Bucket {
			return bkt.Bucket(zByKey)
		})
		return nil
	})
	return names, err
}

func (b *boltImpl) ZScan(_ context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.ScoredEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		_, byScore := zsetTrees(tx, ns)
		if byScore == nil {
			return nil
		}
		c := byScore.Cursor()
		k, _ := c.First()
		if scoreStart.Valid {
			k, _ = c.Seek(encodeScore(scoreStart.N))
		}
		for ; k != nil; k, _ = c.Next() {
			score, member := splitScoreMemberKey(k)
			if keyStart != "" && scoreStart.Valid && score == scoreStart.N && member <= keyStart {
				continue // key bound excludes the named key at the boundary score
			}
			if scoreEnd.Valid && score > scoreEnd.N {
				break
			}
			entries = append(entries, backend.ScoredEntry{Key: member, Score: score})
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

func (b *boltImpl) ZRScan(_ context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.ScoredEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		_, byScore := zsetTrees(tx, ns)
		if byScore == nil {
			return nil
		}
		c := byScore.Cursor()
		var k []byte
		if scoreStart.Valid && scoreStart.N < math.MaxInt64 {
			// Pivot one score above the bound so every member at the bound
			// score is still visited, then step back below the bound
			k, _ = c.Seek(encodeScore(scoreStart.N + 1))
			if k == nil {
				k, _ = c.Last()
			}
			for k != nil {
				if score, _ := splitScoreMemberKey(k); score <= scoreStart.N {
					break
				}
				k, _ = c.Prev()
			}
		} else {
			k, _ = c.Last()
		}
		for ; k != nil; k, _ = c.Prev() {
			score, member := splitScoreMemberKey(k)
			if keyStart != "" && scoreStart.Valid && score == scoreStart.N && member >= keyStart {
				continue // key bound excludes the named key at the boundary score
			}
			if scoreEnd.Valid && score < scoreEnd.N {
				break
			}
			entries = append(entries, backend.ScoredEntry{Key: member, Score: score})
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

func (b *boltImpl) ZRange(_ context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.ScoredEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		_, byScore := zsetTrees(tx, ns)
		if byScore == nil {
			return nil
		}
		c := byScore.Cursor()
		rank := 0
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if rank >= offset {
				score, member := splitScoreMemberKey(k)
				entries = append(entries, backend.ScoredEntry{Key: member, Score: score})
				if limit > 0 && len(entries) >= limit {
					break
				}
			}
			rank++
		}
		return nil
	})
	return entries, err
}

func (b *boltImpl) ZRRange(_ context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.ScoredEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		_, byScore := zsetTrees(tx, ns)
		if byScore == nil {
			return nil
		}
		c := byScore.Cursor()
		rank := 0
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			if rank >= offset {
				score, member := splitScoreMemberKey(k)
				entries = append(entries, backend.ScoredEntry{Key: member, Score: score})
				if limit > 0 && len(entries) >= limit {
					break
				}
			}
			rank++
		}
		return nil
	})
	return entries, err
}
