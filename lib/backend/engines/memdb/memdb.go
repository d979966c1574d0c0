package memdb

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ValentinKolb/bKV/lib/backend"
	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb/internal"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// engineVersion identifies this engine in Info replies
	engineVersion = "memdb/1.0"
	// defaultSweepInterval is the default time between expiry sweeps
	defaultSweepInterval = 100 * time.Millisecond
)

// --------------------------------------------------------------------------
// Core engine structure
// --------------------------------------------------------------------------

// kvEntry is one flat key-value entry. ExpireAt is unix nanoseconds, zero
// means no expiry.
type kvEntry struct {
	value    string
	expireAt int64
}

// memdbImpl implements backend.Conn with in-process containers
type memdbImpl struct {
	kv     *xsync.MapOf[string, kvEntry]
	hashes *xsync.MapOf[string, *internal.Hash]
	zsets  *xsync.MapOf[string, *internal.ZSet]
	queues *xsync.MapOf[string, *internal.Queue]

	// expiry machinery; expiryMu also serializes flat key-value writes so
	// the heap always reflects the latest write
	expiryMu      sync.Mutex
	expiry        *internal.ExpiryHeap
	sweepInterval time.Duration

	calls     atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
	stopCh    chan struct{}
}

// Options configures the memdb engine during initialization
type Options struct {
	SweepInterval time.Duration // Time between expiry sweeps (0 = default)
}

// DefaultOptions returns the default memdb options
func DefaultOptions() *Options {
	return &Options{
		SweepInterval: defaultSweepInterval,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// New creates a new in-memory engine with the specified options (optional)
func New(opts *Options) backend.Conn {
	if opts == nil {
		opts = DefaultOptions()
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	m := &memdbImpl{
		kv:            xsync.NewMapOf[string, kvEntry](),
		hashes:        xsync.NewMapOf[string, *internal.Hash](),
		zsets:         xsync.NewMapOf[string, *internal.ZSet](),
		queues:        xsync.NewMapOf[string, *internal.Queue](),
		expiry:        internal.NewExpiryHeap(),
		sweepInterval: interval,
		stopCh:        make(chan struct{}),
	}

	m.startSweeper()
	return m
}

// op guards every operation: it rejects calls on a closed engine and counts
// the call for Info
func (m *memdbImpl) op() error {
	if m.closed.Load() {
		return backend.ErrClosed
	}
	m.calls.Add(1)
	return nil
}

// --------------------------------------------------------------------------
// Expiry Sweeper
// --------------------------------------------------------------------------

// startSweeper launches the background goroutine removing expired flat
// key-value entries
func (m *memdbImpl) startSweeper() {
	go func() {
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.sweepExpired(time.Now().UnixNano())
			}
		}
	}()
}

// sweepExpired pops every due expiry and removes the matching entries
func (m *memdbImpl) sweepExpired(now int64) {
	m.expiryMu.Lock()
	defer m.expiryMu.Unlock()
	for {
		key, ok := m.expiry.PopDue(now)
		if !ok {
			return
		}
		m.kv.Delete(key)
	}
}

// --------------------------------------------------------------------------
// Conn Interface - Flat Key-Value Space
// --------------------------------------------------------------------------

func (m *memdbImpl) Get(_ context.Context, key string) (string, bool, error) {
	if err := m.op(); err != nil {
		return "", false, err
	}
	e, ok := m.kv.Load(key)
	if !ok {
		return "", false, nil
	}
	// Lazy expiry check so entries never outlive their TTL between sweeps
	if e.expireAt != 0 && time.Now().UnixNano() >= e.expireAt {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *memdbImpl) Set(_ context.Context, key, value string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.expiryMu.Lock()
	defer m.expiryMu.Unlock()
	m.kv.Store(key, kvEntry{value: value})
	m.expiry.Cancel(key)
	return nil
}

func (m *memdbImpl) SetX(_ context.Context, key, value string, ttl time.Duration) error {
	if err := m.op(); err != nil {
		return err
	}
	m.expiryMu.Lock()
	defer m.expiryMu.Unlock()
	if ttl <= 0 {
		m.kv.Delete(key)
		m.expiry.Cancel(key)
		return nil
	}
	at := time.Now().Add(ttl).UnixNano()
	m.kv.Store(key, kvEntry{value: value, expireAt: at})
	m.expiry.Schedule(key, at)
	return nil
}

func (m *memdbImpl) Del(_ context.Context, key string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.expiryMu.Lock()
	defer m.expiryMu.Unlock()
	m.kv.Delete(key)
	m.expiry.Cancel(key)
	return nil
}

// --------------------------------------------------------------------------
// Conn Interface - Admin
// --------------------------------------------------------------------------

func (m *memdbImpl) Info(ctx context.Context) (map[string]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	size, _ := m.dbSize()
	return map[string]string{
		"version":     engineVersion,
		"links":       "1",
		"total_calls": strconv.FormatUint(m.calls.Load(), 10),
		"dbsize":      strconv.FormatInt(size, 10),
	}, nil
}

func (m *memdbImpl) DBSize(_ context.Context) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	return m.dbSize()
}

// dbSize sums the approximate byte size of all stored data
func (m *memdbImpl) dbSize() (int64, error) {
	var size int64
	m.kv.Range(func(key string, e kvEntry) bool {
		size += int64(len(key) + len(e.value))
		return true
	})
	m.hashes.Range(func(ns string, h *internal.Hash) bool {
		size += int64(len(ns)) + h.Bytes()
		return true
	})
	m.zsets.Range(func(ns string, z *internal.ZSet) bool {
		size += int64(len(ns)) + z.Bytes()
		return true
	})
	m.queues.Range(func(name string, q *internal.Queue) bool {
		size += int64(len(name)) + q.Bytes()
		return true
	})
	return size, nil
}

func (m *memdbImpl) Close() error {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		close(m.stopCh)
	})
	return nil
}

// --------------------------------------------------------------------------
// Namespace listing helper
// --------------------------------------------------------------------------

// listNames returns sorted names in (start, end] limited to limit entries
func listNames(names []string, start, end string, limit int) []string {
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		if start != "" && name <= start {
			continue
		}
		if end != "" && name > end {
			break
		}
		out = append(out, name)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
