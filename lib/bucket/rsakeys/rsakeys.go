package rsakeys

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrNotPEM is returned when the input carries no PEM block
	ErrNotPEM = errors.New("rsakeys: not PEM encoded")
	// ErrNotRSA is returned when the key material is not an RSA key
	ErrNotRSA = errors.New("rsakeys: not an RSA key")
)

// --------------------------------------------------------------------------
// Keys
// --------------------------------------------------------------------------

// Keys handles RSA key material in PEM encoding. Checks are structural: a
// key is valid when it parses, nothing is verified cryptographically.
type Keys struct{}

// New returns the RSA keys collaborator
func New() *Keys {
	return &Keys{}
}

// ValidatePublicKey reports whether the input parses as an RSA public key.
// Both PKIX ("PUBLIC KEY") and PKCS #1 ("RSA PUBLIC KEY") encodings are
// accepted.
func (k *Keys) ValidatePublicKey(publicKey string) bool {
	block, _ := pem.Decode([]byte(publicKey))
	if block == nil {
		return false
	}
	switch block.Type {
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return false
		}
		_, ok := parsed.(*rsa.PublicKey)
		return ok
	case "RSA PUBLIC KEY":
		_, err := x509.ParsePKCS1PublicKey(block.Bytes)
		return err == nil
	default:
		return false
	}
}

// PublicFromPrivate derives the PEM-encoded public key belonging to a
// PEM-encoded RSA private key. Both PKCS #1 ("RSA PRIVATE KEY") and PKCS #8
// ("PRIVATE KEY") encodings are accepted; the result is always PKIX.
func (k *Keys) PublicFromPrivate(privateKey string) (string, error) {
	priv, err := parsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return "", fmt.Errorf("rsakeys: marshal public key: %w", err)
	}
	out := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return string(out), nil
}

// parsePrivateKey decodes and parses an RSA private key in either PKCS
// encoding
func parsePrivateKey(privateKey string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKey))
	if block == nil {
		return nil, ErrNotPEM
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("rsakeys: parse private key: %w", err)
		}
		return priv, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("rsakeys: parse private key: %w", err)
		}
		priv, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrNotRSA
		}
		return priv, nil
	default:
		return nil, ErrNotRSA
	}
}
