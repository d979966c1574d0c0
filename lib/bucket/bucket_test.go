package bucket

import (
	"strings"
	"testing"
)

const testPublicKey = `-----BEGIN PUBLIC KEY-----
MFwwDQYJKoZIhvcNAQEBBQADSwAwSAJBAK5Z0m38zJaF1SzpUGu7kXGDxM8F5rUA
BpQqM3cENzUQ3rE3F1H1V9mPzW8l0n9m0nNfJ8xQ2Y1p8pZayGRB4HcCAwEAAQ==
-----END PUBLIC KEY-----`

// TestNormalizeKey tests armor and whitespace stripping
func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "abc", "abc"},
		{"whitespace", "  a b\nc\t", "abc"},
		{
			"armor",
			"-----BEGIN PUBLIC KEY-----\nabc\ndef\n-----END PUBLIC KEY-----",
			"abcdef",
		},
		{
			"armor without body",
			"-----BEGIN PUBLIC KEY-----\n-----END PUBLIC KEY-----",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.key); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

// TestDeriveID tests shape and determinism of derived ids
func TestDeriveID(t *testing.T) {
	id := DeriveID(testPublicKey)
	if len(id) != 40 {
		t.Fatalf("DeriveID returned %d characters, want 40", len(id))
	}
	if !IsValidID(id) {
		t.Error("derived id does not validate")
	}
	if id != strings.ToLower(id) {
		t.Error("derived id is not lowercase hex")
	}

	// Formatting noise does not change the id
	rewrapped := strings.ReplaceAll(testPublicKey, "\n", " \n ")
	if got := DeriveID(rewrapped); got != id {
		t.Errorf("DeriveID of rewrapped key = %q, want %q", got, id)
	}
	unwrapped := NormalizeKey(testPublicKey)
	if got := DeriveID(unwrapped); got != id {
		t.Errorf("DeriveID of unwrapped key = %q, want %q", got, id)
	}

	// A different key yields a different id
	if got := DeriveID(testPublicKey + "x"); got == id {
		t.Error("different keys derived the same id")
	}
}

// TestIsValidID tests id well-formedness
func TestIsValidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"40 chars", strings.Repeat("a", 40), true},
		{"39 chars", strings.Repeat("a", 39), false},
		{"41 chars", strings.Repeat("a", 41), false},
		{"empty", "", false},
		{"padded", "  " + strings.Repeat("a", 40) + "\n", true},
		{"only spaces", strings.Repeat(" ", 40), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidID(tt.id); got != tt.want {
				t.Errorf("IsValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
