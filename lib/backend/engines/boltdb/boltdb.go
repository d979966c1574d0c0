package boltdb

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// engineVersion identifies this engine in Info replies
	engineVersion = "boltdb/1.0"
	// defaultFileMode is the permission mask of a freshly created database file
	defaultFileMode = os.FileMode(0600)
	// defaultOpenTimeout bounds how long Open waits for the file lock
	defaultOpenTimeout = 1 * time.Second
)

// --------------------------------------------------------------------------
// Core engine structure
// --------------------------------------------------------------------------

// boltImpl implements backend.Conn on a single bbolt database file
type boltImpl struct {
	db *bolt.DB

	calls     atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// Options configures the boltdb engine during initialization
type Options struct {
	Path        string        // Database file path (required)
	FileMode    os.FileMode   // Permission mask for a new file (0 = default)
	OpenTimeout time.Duration // Max wait for the file lock (0 = default)
}

// DefaultOptions returns the default boltdb options for the given path
func DefaultOptions(path string) *Options {
	return &Options{
		Path:        path,
		FileMode:    defaultFileMode,
		OpenTimeout: defaultOpenTimeout,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// New opens (or creates) the database file and prepares the root buckets
func New(opts *Options) (backend.Conn, error) {
	if opts == nil || opts.Path == "" {
		return nil, fmt.Errorf("boltdb: no database path configured")
	}
	mode := opts.FileMode
	if mode == 0 {
		mode = defaultFileMode
	}
	timeout := opts.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	db, err := bolt.Open(opts.Path, mode, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("boltdb: open %s: %w", opts.Path, err)
	}

	// Create the root bucket per container family up front so every
	// operation can rely on them
	err = db.Update(func(tx *bolt.Tx) error {
		for _, root := range [][]byte{rootHashes, rootZSets, rootQueues, rootKV} {
			if _, err := tx.CreateBucketIfNotExists(root); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltdb: prepare root buckets: %w", err)
	}

	return &boltImpl{db: db}, nil
}

// op guards every operation: it rejects calls on a closed engine and counts
// the call for Info
func (b *boltImpl) op() error {
	if b.closed.Load() {
		return backend.ErrClosed
	}
	b.calls.Add(1)
	return nil
}

// --------------------------------------------------------------------------
// Conn Interface - Flat Key-Value Space
// --------------------------------------------------------------------------

func (b *boltImpl) Get(_ context.Context, key string) (string, bool, error) {
	if err := b.op(); err != nil {
		return "", false, err
	}
	var (
		value string
		ok    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(rootKV).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// Expired entries stay on disk until overwritten but are never served
		value, ok = decodeKVValue(raw, time.Now())
		return nil
	})
	return value, ok, err
}

func (b *boltImpl) Set(_ context.Context, key, value string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rootKV).Put([]byte(key), encodeKVValue(value, 0))
	})
}

func (b *boltImpl) SetX(_ context.Context, key, value string, ttl time.Duration) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if ttl <= 0 {
			return tx.Bucket(rootKV).Delete([]byte(key))
		}
		at := time.Now().Add(ttl).UnixNano()
		return tx.Bucket(rootKV).Put([]byte(key), encodeKVValue(value, at))
	})
}

func (b *boltImpl) Del(_ context.Context, key string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rootKV).Delete([]byte(key))
	})
}

// --------------------------------------------------------------------------
// Conn Interface - Admin
// --------------------------------------------------------------------------

func (b *boltImpl) Info(ctx context.Context) (map[string]string, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	size, err := b.fileSize()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"version":     engineVersion,
		"links":       "1",
		"total_calls": strconv.FormatUint(b.calls.Load(), 10),
		"dbsize":      strconv.FormatInt(size, 10),
	}, nil
}

func (b *boltImpl) DBSize(_ context.Context) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	return b.fileSize()
}

// fileSize returns the current size of the database file in bytes
func (b *boltImpl) fileSize() (int64, error) {
	var size int64
	err := b.db.View(func(tx *bolt.Tx) error {
		size = tx.Size()
		return nil
	})
	return size, err
}

func (b *boltImpl) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		err = b.db.Close()
	})
	return err
}

// --------------------------------------------------------------------------
// Shared bucket helpers
// --------------------------------------------------------------------------

// namespace returns the nested namespace bucket under root, or nil if absent
func namespace(tx *bolt.Tx, root []byte, ns string) *bolt.Bucket {
	return tx.Bucket(root).Bucket([]byte(ns))
}

// namespaceOrCreate returns the nested namespace bucket under root, creating
// it on first write
func namespaceOrCreate(tx *bolt.Tx, root []byte, ns string) (*bolt.Bucket, error) {
	return tx.Bucket(root).CreateBucketIfNotExists([]byte(ns))
}

// dropIfEmpty removes the namespace bucket when its last entry is gone, so
// listings never report dead namespaces
func dropIfEmpty(tx *bolt.Tx, root []byte, ns string, bkt *bolt.Bucket) error {
	if k, _ := bkt.Cursor().First(); k == nil {
		return tx.Bucket(root).DeleteBucket([]byte(ns))
	}
	return nil
}

// countKeys returns the number of keys in a bucket
func countKeys(bkt *bolt.Bucket) int64 {
	var n int64
	c := bkt.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// listBuckets returns the names of non-empty sub-buckets of root in
// (start, end], limited to limit entries. check selects the sub-bucket that
// must be non-empty (for sorted sets the member tree, otherwise the bucket
// itself).
func listBuckets(tx *bolt.Tx, root []byte, start, end string, limit int, check func(*bolt.Bucket) *bolt.Bucket) []string {
	var names []string
	c := tx.Bucket(root).Cursor()

	k, _ := c.First()
	if start != "" {
		k, _ = c.Seek([]byte(start))
		if k != nil && string(k) == start {
			k, _ = c.Next() // start bound is exclusive
		}
	}
	for ; k != nil; k, _ = c.Next() {
		name := string(k)
		if end != "" && name > end {
			break
		}
		bkt := tx.Bucket(root).Bucket(k)
		if bkt == nil {
			continue
		}
		probe := check(bkt)
		if probe == nil {
			continue
		}
		if first, _ := probe.Cursor().First(); first == nil {
			continue
		}
		names = append(names, name)
		if limit > 0 && len(names) >= limit {
			break
		}
	}
	return names
}
