package bucket

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"

	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb"
	"github.com/ValentinKolb/bKV/lib/bucket/rsakeys"
	"github.com/ValentinKolb/bKV/lib/kv"
)

// generatePrivateKeyPEM returns a fresh PEM-encoded RSA private key
func generatePrivateKeyPEM(t *testing.T) string {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey returned error: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}))
}

// stubKeys is a Keys collaborator with scripted answers
type stubKeys struct {
	valid  bool
	public string
	err    error
}

func (s *stubKeys) ValidatePublicKey(string) bool {
	return s.valid
}

func (s *stubKeys) PublicFromPrivate(string) (string, error) {
	return s.public, s.err
}

// newTestService returns a service over a fresh in-memory engine
func newTestService(t *testing.T, keys Keys) *Service {
	t.Helper()
	conn := memdb.New(nil)
	t.Cleanup(func() { conn.Close() })
	return NewService(kv.NewAdapter(conn, nil), keys)
}

// TestFromPublicKey tests id resolution with and without validation
func TestFromPublicKey(t *testing.T) {
	svc := newTestService(t, &stubKeys{valid: false})

	if _, ok := svc.FromPublicKey("", true); ok {
		t.Error("FromPublicKey accepted an empty key")
	}
	if _, ok := svc.FromPublicKey(testPublicKey, true); ok {
		t.Error("FromPublicKey accepted a key the collaborator rejects")
	}

	// Skipping verification trusts the key
	id, ok := svc.FromPublicKey(testPublicKey, false)
	if !ok || id != DeriveID(testPublicKey) {
		t.Errorf("FromPublicKey unverified = (%q, %v), want the derived id", id, ok)
	}

	// A nil collaborator can still resolve unverified keys
	bare := newTestService(t, nil)
	if _, ok := bare.FromPublicKey(testPublicKey, true); ok {
		t.Error("FromPublicKey verified without a collaborator")
	}
	if _, ok := bare.FromPublicKey(testPublicKey, false); !ok {
		t.Error("FromPublicKey unverified failed without a collaborator")
	}
}

// TestFromPrivateKey tests derivation through the collaborator
func TestFromPrivateKey(t *testing.T) {
	svc := newTestService(t, &stubKeys{public: testPublicKey})

	id, ok := svc.FromPrivateKey("some private key")
	if !ok || id != DeriveID(testPublicKey) {
		t.Errorf("FromPrivateKey = (%q, %v), want the derived id", id, ok)
	}

	if _, ok := svc.FromPrivateKey(""); ok {
		t.Error("FromPrivateKey accepted an empty key")
	}

	failing := newTestService(t, &stubKeys{err: errors.New("bad key")})
	if _, ok := failing.FromPrivateKey("key"); ok {
		t.Error("FromPrivateKey succeeded although derivation failed")
	}

	bare := newTestService(t, nil)
	if _, ok := bare.FromPrivateKey("key"); ok {
		t.Error("FromPrivateKey succeeded without a collaborator")
	}
}

// TestRegister tests bucket creation, existence and the registry
func TestRegister(t *testing.T) {
	svc := newTestService(t, &stubKeys{valid: true})
	ctx := context.Background()

	if svc.Exists(ctx, DeriveID(testPublicKey)) {
		t.Fatal("bucket exists before registration")
	}
	if n := svc.Count(ctx); n != 0 {
		t.Fatalf("Count = %d before registration, want 0", n)
	}

	id, ok := svc.Register(ctx, testPublicKey)
	if !ok || !IsValidID(id) {
		t.Fatalf("Register = (%q, %v), want a valid id", id, ok)
	}

	if !svc.Exists(ctx, id) {
		t.Error("Exists = false after registration")
	}
	if pub, ok := svc.PublicKey(ctx, id); !ok || pub != testPublicKey {
		t.Errorf("PublicKey = (%q, %v), want the registered key", pub, ok)
	}
	if n := svc.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	// Registering again changes nothing
	again, ok := svc.Register(ctx, testPublicKey)
	if !ok || again != id {
		t.Errorf("second Register = (%q, %v), want the same id", again, ok)
	}
	if n := svc.Count(ctx); n != 1 {
		t.Errorf("Count = %d after re-registration, want 1", n)
	}

	// A rejected key does not register
	invalid := newTestService(t, &stubKeys{valid: false})
	if _, ok := invalid.Register(ctx, testPublicKey); ok {
		t.Error("Register accepted a key the collaborator rejects")
	}
}

// TestInfoDocuments tests the per-bucket document accessors
func TestInfoDocuments(t *testing.T) {
	conn := memdb.New(nil)
	t.Cleanup(func() { conn.Close() })
	store := kv.NewAdapter(conn, nil)
	svc := NewService(store, &stubKeys{valid: true})
	ctx := context.Background()

	id, _ := svc.Register(ctx, testPublicKey)

	// Unset documents coerce to empty mappings
	if m := svc.FilesInfo(ctx, id); m == nil || len(m) != 0 {
		t.Errorf("FilesInfo of fresh bucket = %v, want empty non-nil", m)
	}

	store.HSet(ctx, id, FilesInfoDoc, map[string]any{"count": 3})
	store.HSet(ctx, id, PostsInfoDoc, map[string]any{"count": 1})
	store.HSet(ctx, id, FilesConfigDoc, map[string]any{"homepage": "index.md"})

	if m := svc.FilesInfo(ctx, id); m["count"] == nil {
		t.Errorf("FilesInfo = %v, want the stored document", m)
	}
	if m := svc.PostsInfo(ctx, id); m["count"] == nil {
		t.Errorf("PostsInfo = %v, want the stored document", m)
	}
	if m := svc.FilesConfig(ctx, id); m["homepage"] != "index.md" {
		t.Errorf("FilesConfig = %v, want the stored document", m)
	}

	// Empty bucket ids degrade
	if m := svc.FilesInfo(ctx, ""); m == nil || len(m) != 0 {
		t.Errorf("FilesInfo of empty id = %v, want empty non-nil", m)
	}
}

// TestServiceWithRSAKeys tests the real collaborator end to end: the id
// derived from the private key matches the one derived from its public key
func TestServiceWithRSAKeys(t *testing.T) {
	keys := rsakeys.New()
	svc := newTestService(t, keys)
	ctx := context.Background()

	priv := generatePrivateKeyPEM(t)
	pub, err := keys.PublicFromPrivate(priv)
	if err != nil {
		t.Fatalf("PublicFromPrivate returned error: %v", err)
	}

	fromPub, ok := svc.FromPublicKey(pub, true)
	if !ok {
		t.Fatal("FromPublicKey rejected a generated key")
	}
	fromPriv, ok := svc.FromPrivateKey(priv)
	if !ok {
		t.Fatal("FromPrivateKey failed for a generated key")
	}
	if fromPub != fromPriv {
		t.Errorf("ids disagree: public %q, private %q", fromPub, fromPriv)
	}

	id, ok := svc.Register(ctx, pub)
	if !ok || id != fromPub {
		t.Errorf("Register = (%q, %v), want (%q, true)", id, ok, fromPub)
	}
}
