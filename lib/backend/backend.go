package backend

import (
	"context"
	"errors"
	"time"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrClosed is returned for operations on a closed connection
	ErrClosed = errors.New("backend: connection closed")
	// ErrServer is returned when the backend reports a command failure
	ErrServer = errors.New("backend: server error")
	// ErrProtocol is returned when a backend reply cannot be parsed
	ErrProtocol = errors.New("backend: protocol error")
)

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// Entry is a single key-value pair of a hash namespace
type Entry struct {
	Key   string // Field key within the namespace
	Value string // Raw wire value
}

// ScoredEntry is a single member of a sorted set
type ScoredEntry struct {
	Key   string // Member key
	Score int64  // Integer score
}

// Score is an optional sorted-set score bound. The zero value means
// "unbounded" and corresponds to an empty bound on the wire.
type Score struct {
	N     int64 // Bound value
	Valid bool  // False = unbounded
}

// ScoreOf returns a set score bound
func ScoreOf(n int64) Score {
	return Score{N: n, Valid: true}
}

// --------------------------------------------------------------------------
// Conn Interface
// --------------------------------------------------------------------------

// Conn is the interface all storage backends implement. Keys and values are
// raw wire strings; encoding typed values is the job of the adapter layered
// on top.
//
// Range semantics (shared by all scan operations):
//   - Forward scans return entries with key > start and key <= end in
//     ascending order, i.e. the half-open interval (start, end].
//   - Reverse scans return entries with key < start and key >= end in
//     descending order.
//   - An empty string bound means "unbounded" on that side.
//   - limit <= 0 means "no limit".
//
// Sorted-set scans order members by (score, key). Score bounds are
// inclusive on both sides; the key bound excludes the named key itself and
// takes effect among members sharing the boundary score. A scan with
// scoreStart == scoreEnd therefore selects exactly that score.
type Conn interface {
	// ----- flat key-value space -----

	// Get retrieves the value for key. The second return value reports
	// whether the key exists (an expired entry does not).
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the value for key without expiry
	Set(ctx context.Context, key, value string) error
	// SetX stores the value for key and expires it after ttl
	SetX(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes the key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// ----- hash namespaces -----

	// HSet stores a field in the named hash
	HSet(ctx context.Context, ns, key, value string) error
	// HGet retrieves a field from the named hash
	HGet(ctx context.Context, ns, key string) (string, bool, error)
	// HDel removes a field from the named hash
	HDel(ctx context.Context, ns, key string) error
	// HDelMany removes multiple fields from the named hash
	HDelMany(ctx context.Context, ns string, keys []string) error
	// HIncr adds delta to the integer value of a field and returns the
	// result. Incrementing a field holding a non-integer value is an error.
	HIncr(ctx context.Context, ns, key string, delta int64) (int64, error)
	// HExists reports whether a field exists in the named hash
	HExists(ctx context.Context, ns, key string) (bool, error)
	// HSize returns the number of fields in the named hash
	HSize(ctx context.Context, ns string) (int64, error)
	// HClear removes the named hash and all its fields
	HClear(ctx context.Context, ns string) error
	// HGetAll returns all fields of the named hash in ascending key order
	HGetAll(ctx context.Context, ns string) ([]Entry, error)
	// HKeys returns field keys of the named hash in (start, end]
	HKeys(ctx context.Context, ns, start, end string, limit int) ([]string, error)
	// HScan returns field entries of the named hash in (start, end]
	HScan(ctx context.Context, ns, start, end string, limit int) ([]Entry, error)
	// HRScan returns field entries of the named hash below start in
	// descending order
	HRScan(ctx context.Context, ns, start, end string, limit int) ([]Entry, error)
	// HList returns the names of non-empty hash namespaces in (start, end]
	HList(ctx context.Context, start, end string, limit int) ([]string, error)

	// ----- sorted sets -----

	// ZSet stores a member with the given score in the named sorted set
	ZSet(ctx context.Context, ns, key string, score int64) error
	// ZGet retrieves the score of a member
	ZGet(ctx context.Context, ns, key string) (int64, bool, error)
	// ZDel removes a member from the named sorted set
	ZDel(ctx context.Context, ns, key string) error
	// ZIncr adds delta to the score of a member (missing members start at
	// zero) and returns the result
	ZIncr(ctx context.Context, ns, key string, delta int64) (int64, error)
	// ZSize returns the number of members in the named sorted set
	ZSize(ctx context.Context, ns string) (int64, error)
	// ZClear removes the named sorted set and all its members
	ZClear(ctx context.Context, ns string) error
	// ZCount returns the number of members with start <= score <= end
	ZCount(ctx context.Context, ns string, start, end Score) (int64, error)
	// ZList returns the names of non-empty sorted sets in (start, end]
	ZList(ctx context.Context, start, end string, limit int) ([]string, error)
	// ZScan returns members ordered by ascending (score, key), bounded by
	// the inclusive score interval and the exclusive key tiebreak
	ZScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd Score, limit int) ([]ScoredEntry, error)
	// ZRScan returns members ordered by descending (score, key), bounded by
	// the inclusive score interval and the exclusive key tiebreak
	ZRScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd Score, limit int) ([]ScoredEntry, error)
	// ZRange returns members by ascending rank in [offset, offset+limit)
	ZRange(ctx context.Context, ns string, offset, limit int) ([]ScoredEntry, error)
	// ZRRange returns members by descending rank in [offset, offset+limit)
	ZRRange(ctx context.Context, ns string, offset, limit int) ([]ScoredEntry, error)

	// ----- queues -----

	// QPushFront prepends values to the named queue and returns its new size
	QPushFront(ctx context.Context, queue string, values ...string) (int64, error)
	// QPushBack appends values to the named queue and returns its new size
	QPushBack(ctx context.Context, queue string, values ...string) (int64, error)
	// QSize returns the number of elements in the named queue
	QSize(ctx context.Context, queue string) (int64, error)
	// QRange returns queue elements in [offset, offset+limit)
	QRange(ctx context.Context, queue string, offset, limit int) ([]string, error)
	// QTrimFront removes up to size elements from the front of the queue
	// and returns the number removed
	QTrimFront(ctx context.Context, queue string, size int) (int64, error)
	// QTrimBack removes up to size elements from the back of the queue and
	// returns the number removed
	QTrimBack(ctx context.Context, queue string, size int) (int64, error)
	// QPopFront removes and returns up to size elements from the front
	QPopFront(ctx context.Context, queue string, size int) ([]string, error)
	// QPopBack removes and returns up to size elements from the back
	QPopBack(ctx context.Context, queue string, size int) ([]string, error)
	// QClear removes the named queue and all its elements
	QClear(ctx context.Context, queue string) error

	// ----- admin -----

	// Info returns backend status fields (version, size, call counters,
	// engine statistics). The exact keys are implementation-specific.
	Info(ctx context.Context) (map[string]string, error)
	// DBSize returns the approximate size of the stored data in bytes
	DBSize(ctx context.Context) (int64, error)
	// Close releases the connection and all resources bound to it
	Close() error
}
