package bucket

import (
	"context"
	"time"

	"github.com/ValentinKolb/bKV/lib/kv"
)

// --------------------------------------------------------------------------
// Keys Collaborator
// --------------------------------------------------------------------------

// Keys supplies the key handling a Service needs. Implementations check
// structure only; nothing here verifies signatures or decrypts data.
type Keys interface {
	// ValidatePublicKey reports whether the key is structurally a valid
	// public key
	ValidatePublicKey(publicKey string) bool
	// PublicFromPrivate derives the public key belonging to a private key
	PublicFromPrivate(privateKey string) (string, error)
}

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// Service answers identity and registry questions about buckets: which
// bucket a key pair maps to, whether a bucket exists, and what is on file
// for it. Reads and writes go through the adapter and inherit its
// degradation behavior.
type Service struct {
	store *kv.Adapter
	keys  Keys
}

// NewService creates a bucket service over the given adapter. The keys
// collaborator validates public keys and derives public from private keys.
func NewService(store *kv.Adapter, keys Keys) *Service {
	return &Service{store: store, keys: keys}
}

// FromPublicKey returns the bucket id owned by a public key. With verify
// set, structurally invalid keys are rejected before the id is derived;
// callers holding a key of trusted provenance may skip the check.
func (s *Service) FromPublicKey(publicKey string, verify bool) (string, bool) {
	if publicKey == "" {
		return "", false
	}
	if verify && (s.keys == nil || !s.keys.ValidatePublicKey(publicKey)) {
		return "", false
	}
	return DeriveID(publicKey), true
}

// FromPrivateKey returns the bucket id owned by a private key. The public
// key is derived first and then trusted by construction, so no structural
// check runs on it.
func (s *Service) FromPrivateKey(privateKey string) (string, bool) {
	if privateKey == "" || s.keys == nil {
		return "", false
	}
	publicKey, err := s.keys.PublicFromPrivate(privateKey)
	if err != nil {
		return "", false
	}
	return s.FromPublicKey(publicKey, false)
}

// PublicKey returns the public key on file for a bucket
func (s *Service) PublicKey(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}
	return s.store.HGetRaw(ctx, id, PublicKeyField)
}

// Exists reports whether the bucket has been registered
func (s *Service) Exists(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	return s.store.HExists(ctx, id, SentinelField)
}

// Register creates the bucket owned by publicKey and returns its id. The
// key is validated, the public key and the existence sentinel are written
// into the bucket namespace and the bucket is added to the registry.
// Registering an already existing bucket changes nothing and reports the
// id again.
func (s *Service) Register(ctx context.Context, publicKey string) (string, bool) {
	id, ok := s.FromPublicKey(publicKey, true)
	if !ok {
		return "", false
	}
	if s.Exists(ctx, id) {
		return id, true
	}

	created := map[string]any{"created_at": time.Now().Unix()}
	if !s.store.HSet(ctx, id, PublicKeyField, publicKey) {
		return "", false
	}
	// The sentinel goes last so Exists only turns true for complete buckets
	if !s.store.HSet(ctx, id, SentinelField, created) {
		return "", false
	}
	if !s.store.HSet(ctx, RegistryNamespace, id, created) {
		return "", false
	}
	return id, true
}

// Count returns the number of registered buckets
func (s *Service) Count(ctx context.Context) int64 {
	return s.store.HSize(ctx, RegistryNamespace)
}

// FilesInfo returns the file metadata document of a bucket as a mapping
func (s *Service) FilesInfo(ctx context.Context, id string) map[string]any {
	return s.store.HGetMap(ctx, id, FilesInfoDoc)
}

// PostsInfo returns the post metadata document of a bucket as a mapping
func (s *Service) PostsInfo(ctx context.Context, id string) map[string]any {
	return s.store.HGetMap(ctx, id, PostsInfoDoc)
}

// FilesConfig returns the per-file configuration document of a bucket as a
// mapping
func (s *Service) FilesConfig(ctx context.Context, id string) map[string]any {
	return s.store.HGetMap(ctx, id, FilesConfigDoc)
}
