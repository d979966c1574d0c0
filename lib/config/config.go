package config

import (
	"context"

	"go.uber.org/zap"

	"github.com/ValentinKolb/bKV/lib/bucket"
	"github.com/ValentinKolb/bKV/lib/kv"
	"github.com/ValentinKolb/bKV/lib/scope"
)

// --------------------------------------------------------------------------
// Config Types
// --------------------------------------------------------------------------

// Type names one of the five configuration classes of a bucket
type Type string

const (
	// Init holds the bucket's initialization settings
	Init Type = "init"
	// User holds user settings, stored encrypted
	User Type = "user"
	// Pages holds the page layout configuration
	Pages Type = "pages"
	// Site holds the public site settings, read with built-in defaults
	Site Type = "site"
	// Secret holds sensitive settings, stored encrypted
	Secret Type = "secret"
)

// docIDs maps each config type to the fixed document id it is stored under.
// A type outside this map is unrecognized and every operation on it
// degrades.
var docIDs = map[Type]string{
	Init:   "__init_configs__",
	User:   "__user_configs__",
	Pages:  "__pages_configs__",
	Site:   "__site_configs__",
	Secret: "__secret_configs__",
}

// encrypted reports whether the type is stored as an encrypted envelope
func (t Type) encrypted() bool {
	return t == User || t == Secret
}

// DefaultSiteConfigs returns the built-in site defaults layered under every
// stored site config. The result is a fresh copy on each call.
func DefaultSiteConfigs() map[string]any {
	return map[string]any{
		"title":       "",
		"description": "",
		"keywords":    "",
		"author":      "",
		"language":    "en",
	}
}

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

// Store reads and writes the typed configuration documents of buckets. Each
// (bucket, type) pair maps to one fixed document in the bucket's namespace;
// user and secret configs are wrapped in an encrypted envelope by the
// injected Cipher before they touch the backend.
//
// Reads within one request are memoized in the request scope carried by the
// context: the first Get loads from the backend, later Gets return the
// cached mapping verbatim, and a Set invalidates the entry. Without a scope
// every Get loads fresh.
//
// Writes merge shallowly into the current stored state. The read and the
// write are separate backend calls, so two concurrent writers to the same
// (bucket, type) can lose one writer's keys; last writer wins.
type Store struct {
	store  *kv.Adapter
	cipher Cipher
	exists func(ctx context.Context, bucket string) bool
	log    *zap.Logger
}

// Options configures a Store
type Options struct {
	// Cipher seals and opens user/secret configs. Without one, encrypted
	// reads yield empty mappings and encrypted writes fail.
	Cipher Cipher
	// Exists reports whether a bucket is registered; the site defaults
	// overlay only applies to existing buckets. Nil selects the sentinel
	// field check.
	Exists func(ctx context.Context, bucket string) bool
	// Logger for absorbed failures (nil = no logging)
	Logger *zap.Logger
}

// New creates a config store over the given adapter
func New(store *kv.Adapter, opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	exists := opts.Exists
	if exists == nil {
		exists = func(ctx context.Context, b string) bool {
			return store.HExists(ctx, b, bucket.SentinelField)
		}
	}
	return &Store{store: store, cipher: opts.Cipher, exists: exists, log: log}
}

// cacheKey addresses one (bucket, type) entry in the request scope
type cacheKey struct {
	bucket string
	typ    Type
}

// --------------------------------------------------------------------------
// Reading
// --------------------------------------------------------------------------

// Get returns the effective config of the given type for a bucket: the
// stored document, decrypted for user/secret types, with the built-in
// defaults layered underneath for the site type of existing buckets. An
// empty bucket or unrecognized type yields an empty mapping.
//
// Within one request the result is memoized in the request scope and later
// calls return the same mapping, including any mutations made to it.
func (s *Store) Get(ctx context.Context, bucketID string, typ Type) map[string]any {
	if bucketID == "" {
		return map[string]any{}
	}
	docID, ok := docIDs[typ]
	if !ok {
		return map[string]any{}
	}

	sc := scope.FromContext(ctx)
	key := cacheKey{bucket: bucketID, typ: typ}
	if cached, ok := sc.Value(key).(map[string]any); ok {
		return cached
	}

	configs := s.load(ctx, bucketID, typ, docID)
	sc.SetValue(key, configs)
	return configs
}

// load reads the effective config from the backend, bypassing the scope
// cache
func (s *Store) load(ctx context.Context, bucketID string, typ Type, docID string) map[string]any {
	configs := s.store.HGetMap(ctx, bucketID, docID)

	// Encrypted types store an envelope whose data field is the token;
	// an empty stored record has nothing to open
	if typ.encrypted() && len(configs) > 0 {
		token, _ := configs["data"].(string)
		configs = s.open(bucketID, token)
	}

	if typ == Site && s.exists(ctx, bucketID) {
		overlaid := DefaultSiteConfigs()
		for k, v := range configs {
			overlaid[k] = v
		}
		configs = overlaid
	}
	return configs
}

// open decrypts an envelope token into a mapping. Missing cipher, empty
// token or a failed decryption all yield an empty mapping.
func (s *Store) open(bucketID, token string) map[string]any {
	if s.cipher == nil || token == "" {
		return map[string]any{}
	}
	configs := s.cipher.DecryptMapping(bucketID, token)
	if configs == nil {
		return map[string]any{}
	}
	return configs
}

// --------------------------------------------------------------------------
// Writing
// --------------------------------------------------------------------------

// Set merges updates into the stored config of the given type and persists
// the result, re-encrypting user/secret types. The merge is shallow: each
// updated key replaces the stored value outright, nested mappings are not
// merged. Reports whether the new state was persisted.
//
// The current state is re-read from the backend, not from the scope cache,
// so a Set sees writes made elsewhere in the same request. Read and write
// are still two separate calls: concurrent writers to the same document can
// lose updates, the last writer wins.
func (s *Store) Set(ctx context.Context, bucketID string, updates map[string]any, typ Type) bool {
	if bucketID == "" {
		return false
	}
	docID, ok := docIDs[typ]
	if !ok {
		return false
	}

	configs := s.load(ctx, bucketID, typ, docID)
	for k, v := range updates {
		configs[k] = v
	}

	var payload any = configs
	if typ.encrypted() {
		if s.cipher == nil {
			return false
		}
		token, err := s.cipher.EncryptMapping(bucketID, configs)
		if err != nil {
			s.log.Warn("config encryption failed",
				zap.String("bucket", bucketID),
				zap.String("type", string(typ)),
				zap.Error(err))
			return false
		}
		payload = map[string]any{"data": token}
	}

	if !s.store.HSet(ctx, bucketID, docID, payload) {
		return false
	}

	// Drop the request-scoped copy so the next Get reloads
	scope.FromContext(ctx).DeleteValue(cacheKey{bucket: bucketID, typ: typ})
	return true
}

// --------------------------------------------------------------------------
// Typed Accessors
// --------------------------------------------------------------------------

// InitConfigs returns the init configs of a bucket
func (s *Store) InitConfigs(ctx context.Context, bucketID string) map[string]any {
	return s.Get(ctx, bucketID, Init)
}

// UserConfigs returns the decrypted user configs of a bucket
func (s *Store) UserConfigs(ctx context.Context, bucketID string) map[string]any {
	return s.Get(ctx, bucketID, User)
}

// PagesConfigs returns the pages configs of a bucket
func (s *Store) PagesConfigs(ctx context.Context, bucketID string) map[string]any {
	return s.Get(ctx, bucketID, Pages)
}

// SiteConfigs returns the site configs of a bucket. An empty bucket falls
// back to the bucket the request scope is bound to.
func (s *Store) SiteConfigs(ctx context.Context, bucketID string) map[string]any {
	if bucketID == "" {
		bucketID = scope.FromContext(ctx).Bucket()
	}
	return s.Get(ctx, bucketID, Site)
}

// SecretConfigs returns the decrypted secret configs of a bucket. An empty
// bucket falls back to the bucket the request scope is bound to.
func (s *Store) SecretConfigs(ctx context.Context, bucketID string) map[string]any {
	if bucketID == "" {
		bucketID = scope.FromContext(ctx).Bucket()
	}
	return s.Get(ctx, bucketID, Secret)
}
