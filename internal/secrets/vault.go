// Package secrets encrypts provider API keys at rest with AES-256-GCM.
// The master key comes from the environment or, failing that, the OS
// keyring; a fresh key is generated and stored on first use.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	envMasterKey   = "AGORA_ENCRYPTION_KEY"
	keyringService = "agora.credentials"
	keyringUser    = "master-key"
)

type encryptedBlob struct {
	Version    string `json:"version"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// Vault holds the master key and performs credential encryption.
type Vault struct {
	key []byte
}

// Open loads the master key. Resolution order: AGORA_ENCRYPTION_KEY
// (base64, 32 bytes), then the OS keyring, then a newly generated key
// persisted to the keyring.
func Open() (*Vault, error) {
	if env := os.Getenv(envMasterKey); env != "" {
		key, err := base64.StdEncoding.DecodeString(env)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", envMasterKey, err)
		}
		return NewWithKey(key)
	}

	if stored, err := keyring.Get(keyringService, keyringUser); err == nil {
		key, err := base64.StdEncoding.DecodeString(stored)
		if err != nil {
			return nil, fmt.Errorf("decode keyring master key: %w", err)
		}
		return NewWithKey(key)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate master key: %w", err)
	}
	if err := keyring.Set(keyringService, keyringUser, base64.StdEncoding.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("store master key: %w", err)
	}
	return NewWithKey(key)
}

// NewWithKey creates a Vault from an explicit 32-byte key.
func NewWithKey(key []byte) (*Vault, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(key))
	}
	return &Vault{key: key}, nil
}

// Encrypt seals plaintext and returns a base64-wrapped versioned blob.
func (v *Vault) Encrypt(plain string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nil, nonce, []byte(plain), nil)
	blob, err := json.Marshal(encryptedBlob{
		Version:    "v1",
		Nonce:      base64.RawStdEncoding.EncodeToString(nonce),
		Ciphertext: base64.RawStdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt.
func (v *Vault) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode credential blob: %w", err)
	}
	var blob encryptedBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", fmt.Errorf("parse credential blob: %w", err)
	}
	if blob.Version != "v1" {
		return "", fmt.Errorf("unsupported blob version %q", blob.Version)
	}
	nonce, err := base64.RawStdEncoding.DecodeString(blob.Nonce)
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	ciphertext, err := base64.RawStdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", fmt.Errorf("invalid nonce length %d", len(nonce))
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt credential: %w", err)
	}
	return string(plain), nil
}

// Fingerprint returns a short non-reversible identifier for an API key,
// safe to show in settings UIs.
func Fingerprint(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	hexSum := hex.EncodeToString(sum[:])
	return hexSum[:8] + "..." + hexSum[len(hexSum)-4:]
}
