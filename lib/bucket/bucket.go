package bucket

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// SentinelField marks a namespace as a registered bucket. Existence
	// checks test exactly this field.
	SentinelField = "__bucket__"
	// PublicKeyField holds the owner's public key inside the bucket
	// namespace
	PublicKeyField = "public_key"
	// RegistryNamespace is the reserved namespace with one field per
	// registered bucket
	RegistryNamespace = "__buckets__"

	// idLength is the length of a bucket id, the hex form of a SHA-1 sum
	idLength = 40
)

// Reserved per-bucket document ids
const (
	// FilesInfoDoc aggregates file metadata for a bucket
	FilesInfoDoc = "__files_info__"
	// PostsInfoDoc aggregates post metadata for a bucket
	PostsInfoDoc = "__posts_info__"
	// FilesConfigDoc holds the per-file configuration mapping
	FilesConfigDoc = "__files__"
)

// --------------------------------------------------------------------------
// Identity
// --------------------------------------------------------------------------

// armor matches PEM delimiter lines such as -----BEGIN PUBLIC KEY-----
var armor = regexp.MustCompile(`--+[^-]+--+`)

// NormalizeKey strips PEM armor and all whitespace from a key. Two
// renderings of the same key material (wrapped, unwrapped, different line
// endings) normalize to the same string.
func NormalizeKey(key string) string {
	key = armor.ReplaceAllString(key, "")
	return strings.Join(strings.Fields(key), "")
}

// DeriveID returns the bucket id for a public key: the hex SHA-1 of the
// normalized key material. Deterministic, so the same key always maps to
// the same bucket no matter how it is formatted.
func DeriveID(publicKey string) string {
	sum := sha1.Sum([]byte(NormalizeKey(publicKey)))
	return hex.EncodeToString(sum[:])
}

// IsValidID reports whether id is well-formed: its trimmed form is exactly
// 40 characters
func IsValidID(id string) bool {
	return len(strings.TrimSpace(id)) == idLength
}
