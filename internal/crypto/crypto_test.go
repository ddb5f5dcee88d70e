package crypto

import (
	"encoding/base64"
	"testing"
)

func testKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox(testKey())
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}

	sealed, err := box.Seal("ya29.access-token")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "ya29.access-token" {
		t.Fatal("sealed value should not equal the plaintext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "ya29.access-token" {
		t.Errorf("round trip produced %q", opened)
	}
}

func TestSealIsNondeterministic(t *testing.T) {
	box, err := NewBox(testKey())
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	a, _ := box.Seal("token")
	b, _ := box.Seal("token")
	if a == b {
		t.Error("two seals of the same plaintext should differ")
	}
}

func TestEmptyStringPassesThrough(t *testing.T) {
	box, err := NewBox(testKey())
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	if sealed, _ := box.Seal(""); sealed != "" {
		t.Errorf("empty plaintext sealed to %q", sealed)
	}
	if opened, _ := box.Open(""); opened != "" {
		t.Errorf("empty ciphertext opened to %q", opened)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	box, err := NewBox(testKey())
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	if _, err := box.Open("not base64!!"); err == nil {
		t.Error("expected an error for invalid base64")
	}
	if _, err := box.Open(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected an error for truncated ciphertext")
	}
}

func TestNewBoxRejectsBadKeys(t *testing.T) {
	if _, err := NewBox(""); err == nil {
		t.Error("expected an error for an empty key")
	}
	if _, err := NewBox("tooshort"); err == nil {
		t.Error("expected an error for a non-base64 or short key")
	}
	short := base64.StdEncoding.EncodeToString(make([]byte, 16))
	if _, err := NewBox(short); err == nil {
		t.Error("expected an error for a 16-byte key")
	}
}
