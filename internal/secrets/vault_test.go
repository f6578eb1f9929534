package secrets

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestVault_RoundTrip(t *testing.T) {
	v, err := NewWithKey(bytes.Repeat([]byte{1}, 32))
	if err != nil {
		t.Fatalf("NewWithKey() error: %v", err)
	}

	blob, err := v.Encrypt("sk-super-secret")
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if strings.Contains(blob, "sk-super-secret") {
		t.Error("ciphertext contains plaintext")
	}

	plain, err := v.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if plain != "sk-super-secret" {
		t.Errorf("decrypted = %q", plain)
	}
}

func TestVault_NonceVaries(t *testing.T) {
	v, _ := NewWithKey(bytes.Repeat([]byte{2}, 32))
	a, _ := v.Encrypt("same")
	b, _ := v.Encrypt("same")
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical blobs")
	}
}

func TestVault_WrongKeyFails(t *testing.T) {
	v1, _ := NewWithKey(bytes.Repeat([]byte{3}, 32))
	v2, _ := NewWithKey(bytes.Repeat([]byte{4}, 32))

	blob, err := v1.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := v2.Decrypt(blob); err == nil {
		t.Error("expected decryption failure with the wrong key")
	}
}

func TestVault_RejectsBadKeyLength(t *testing.T) {
	if _, err := NewWithKey([]byte("short")); err == nil {
		t.Error("expected error for short key")
	}
}

func TestVault_RejectsGarbageBlob(t *testing.T) {
	v, _ := NewWithKey(bytes.Repeat([]byte{5}, 32))
	for _, blob := range []string{
		"not base64 !!!",
		base64.StdEncoding.EncodeToString([]byte("not json")),
	} {
		if _, err := v.Decrypt(blob); err == nil {
			t.Errorf("expected error decrypting %q", blob)
		}
	}
}

func TestOpen_EnvKey(t *testing.T) {
	key := bytes.Repeat([]byte{6}, 32)
	t.Setenv(envMasterKey, base64.StdEncoding.EncodeToString(key))

	v, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	blob, err := v.Encrypt("hello")
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	direct, _ := NewWithKey(key)
	plain, err := direct.Decrypt(blob)
	if err != nil || plain != "hello" {
		t.Errorf("Decrypt() = (%q, %v)", plain, err)
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("sk-test-credential")
	if !strings.Contains(fp, "...") {
		t.Errorf("fingerprint %q missing separator", fp)
	}
	if fp == Fingerprint("sk-other") {
		t.Error("different keys produced the same fingerprint")
	}
	if strings.Contains(fp, "sk-test") {
		t.Errorf("fingerprint %q leaks key material", fp)
	}
}
