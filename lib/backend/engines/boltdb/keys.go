package boltdb

import (
	"encoding/binary"
	"time"
)

// --------------------------------------------------------------------------
// Binary Encodings
// --------------------------------------------------------------------------

// Root bucket names
var (
	rootHashes = []byte("hashes")
	rootZSets  = []byte("zsets")
	rootQueues = []byte("queues")
	rootKV     = []byte("kv")
)

// Sorted-set sub-bucket names
var (
	zByKey   = []byte("k")
	zByScore = []byte("s")
)

// encodeScore converts a signed score into 8 bytes whose byte order equals
// numeric order (sign bit flipped, big endian)
func encodeScore(score int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(score)^(1<<63))
	return buf
}

// decodeScore reverses encodeScore
func decodeScore(buf []byte) int64 {
	return int64(binary.BigEndian.Uint64(buf) ^ (1 << 63))
}

// scoreMemberKey builds the zsets/<ns>/s entry key: encoded score followed
// by the member bytes
func scoreMemberKey(score int64, member string) []byte {
	key := make([]byte, 8+len(member))
	binary.BigEndian.PutUint64(key, uint64(score)^(1<<63))
	copy(key[8:], member)
	return key
}

// splitScoreMemberKey decodes a zsets/<ns>/s entry key
func splitScoreMemberKey(key []byte) (int64, string) {
	if len(key) < 8 {
		return 0, ""
	}
	return decodeScore(key[:8]), string(key[8:])
}

// queueIndexCenter is the initial queue index; fronts grow downward, backs
// grow upward
const queueIndexCenter = uint64(1) << 63

// encodeQueueIndex converts a queue index into its big-endian entry key
func encodeQueueIndex(idx uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, idx)
	return buf
}

// decodeQueueIndex reverses encodeQueueIndex
func decodeQueueIndex(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}

// encodeKVValue builds the flat key-value envelope: 8-byte expiry timestamp
// (unix nanoseconds, zero = none) followed by the value bytes
func encodeKVValue(value string, expireAt int64) []byte {
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expireAt))
	copy(buf[8:], value)
	return buf
}

// decodeKVValue unpacks the flat key-value envelope. The second return value
// reports whether the entry is live at now.
func decodeKVValue(buf []byte, now time.Time) (string, bool) {
	if len(buf) < 8 {
		return "", false
	}
	expireAt := int64(binary.BigEndian.Uint64(buf))
	if expireAt != 0 && now.UnixNano() >= expireAt {
		return "", false
	}
	return string(buf[8:]), true
}
