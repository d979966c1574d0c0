package boltdb

import (
	"context"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Conn Interface - Hash Namespaces
// --------------------------------------------------------------------------

func (b *boltImpl) HSet(_ context.Context, ns, key, value string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := namespaceOrCreate(tx, rootHashes, ns)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), []byte(value))
	})
}

func (b *boltImpl) HGet(_ context.Context, ns, key string) (string, bool, error) {
	if err := b.op(); err != nil {
		return "", false, err
	}
	var (
		value string
		ok    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		if raw := bkt.Get([]byte(key)); raw != nil {
			value, ok = string(raw), true
		}
		return nil
	})
	return value, ok, err
}

func (b *boltImpl) HDel(_ context.Context, ns, key string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		if err := bkt.Delete([]byte(key)); err != nil {
			return err
		}
		return dropIfEmpty(tx, rootHashes, ns, bkt)
	})
}

func (b *boltImpl) HDelMany(_ context.Context, ns string, keys []string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		for _, key := range keys {
			if err := bkt.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return dropIfEmpty(tx, rootHashes, ns, bkt)
	})
}

func (b *boltImpl) HIncr(_ context.Context, ns, key string, delta int64) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var result int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := namespaceOrCreate(tx, rootHashes, ns)
		if err != nil {
			return err
		}
		var current int64
		if raw := bkt.Get([]byte(key)); raw != nil {
			n, err := strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("value of %q is not an integer: %w", key, err)
			}
			current = n
		}
		result = current + delta
		return bkt.Put([]byte(key), []byte(strconv.FormatInt(result, 10)))
	})
	return result, err
}

func (b *boltImpl) HExists(_ context.Context, ns, key string) (bool, error) {
	if err := b.op(); err != nil {
		return false, err
	}
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt != nil {
			exists = bkt.Get([]byte(key)) != nil
		}
		return nil
	})
	return exists, err
}

func (b *boltImpl) HSize(_ context.Context, ns string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var size int64
	err := b.db.View(func(tx *bolt.Tx) error {
		if bkt := namespace(tx, rootHashes, ns); bkt != nil {
			size = countKeys(bkt)
		}
		return nil
	})
	return size, err
}

func (b *boltImpl) HClear(_ context.Context, ns string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(rootHashes).DeleteBucket([]byte(ns))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

func (b *boltImpl) HGetAll(_ context.Context, ns string) ([]backend.Entry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, v []byte) error {
			entries = append(entries, backend.Entry{Key: string(k), Value: string(v)})
			return nil
		})
	})
	return entries, err
}

func (b *boltImpl) HKeys(_ context.Context, ns, start, end string, limit int) ([]string, error) {
	entries, err := b.HScan(context.Background(), ns, start, end, limit)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}

func (b *boltImpl) HScan(_ context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		k, v := c.First()
		if start != "" {
			k, v = c.Seek([]byte(start))
			if k != nil && string(k) == start {
				k, v = c.Next() // start bound is exclusive
			}
		}
		for ; k != nil; k, v = c.Next() {
			if end != "" && string(k) > end {
				break
			}
			entries = append(entries, backend.Entry{Key: string(k), Value: string(v)})
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

func (b *boltImpl) HRScan(_ context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var entries []backend.Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootHashes, ns)
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		var (
			k []byte
			v []byte
		)
		if start == "" {
			k, v = c.Last()
		} else {
			// Seek lands on the first key >= start; step back below the
			// exclusive bound
			k, v = c.Seek([]byte(start))
			if k == nil {
				k, v = c.Last()
			}
			for k != nil && string(k) >= start {
				k, v = c.Prev()
			}
		}
		for ; k != nil; k, v = c.Prev() {
			if end != "" && string(k) < end {
				break
			}
			entries = append(entries, backend.Entry{Key: string(k), Value: string(v)})
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

func (b *boltImpl) HList(_ context.Context, start, end string, limit int) ([]string, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		names = listBuckets(tx, rootHashes, start, end, limit, func(bkt *bolt.Bucket) *bolt.Bucket {
			return bkt
		})
		return nil
	})
	return names, err
}
