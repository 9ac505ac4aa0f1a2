// Package vault encrypts delivery credentials at rest.
//
// Values are protected with AES-256-GCM and stored as a recognizable
// envelope: "enc:v1:" followed by base64(nonce || ciphertext). The envelope
// prefix lets callers detect already-protected values, so plaintext passwords
// migrated from older records can be re-encrypted exactly once.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// envelopePrefix marks vault-encrypted values. The version segment allows a
// future cipher change without guessing at formats.
const envelopePrefix = "enc:v1:"

// Vault performs symmetric encryption with a process-wide key. The key is
// derived once at construction and read-only for the process lifetime.
type Vault struct {
	key []byte // 32-byte AES-256 key
}

// New derives a vault from the configured secret. The secret is hashed to a
// 32-byte AES-256 key, so any non-empty string is acceptable.
func New(secret string) (*Vault, error) {
	if secret == "" {
		return nil, fmt.Errorf("vault: secret is required")
	}
	key := sha256.Sum256([]byte(secret))
	return &Vault{key: key[:]}, nil
}

// Encrypt seals a plaintext value into the vault envelope.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return envelopePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a vault envelope. A wrong key, truncated value, or tampered
// ciphertext is a hard error, never an empty credential.
func (v *Vault) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return "", fmt.Errorf("vault: value is not an encrypted envelope")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, envelopePrefix))
	if err != nil {
		return "", fmt.Errorf("vault: malformed envelope: %w", err)
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("vault: ciphertext too short")
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("vault: decrypt failed: %w", err)
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether a value carries the vault envelope. It is a
// format check only; it does not prove the value decrypts under this key.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, envelopePrefix)
}

// EnsureEncrypted returns the value encrypted, leaving already-protected
// values untouched. Used when importing player records that may still carry
// plaintext passwords from before the vault existed.
func (v *Vault) EnsureEncrypted(value string) (string, error) {
	if value == "" || IsEncrypted(value) {
		return value, nil
	}
	return v.Encrypt(value)
}
