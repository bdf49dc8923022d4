// Package vault provides opaque encryption of secret tokens. Every
// component that stores or forwards a credential goes through a Vault so
// plaintext secrets never reach the database or the logs.
package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Vault encrypts and decrypts secret tokens.
type Vault interface {
	// Encrypt returns an opaque ciphertext for the given plaintext.
	Encrypt(plaintext string) (string, error)
	// Decrypt recovers the plaintext from a ciphertext produced by Encrypt.
	Decrypt(ciphertext string) (string, error)
}

// SecretBoxVault is a Vault backed by ChaCha20-Poly1305 with a key derived
// from a process-wide secret.
type SecretBoxVault struct {
	key [32]byte
}

// NewSecretBoxVault derives the encryption key from the configured secret.
func NewSecretBoxVault(secret string) (*SecretBoxVault, error) {
	if secret == "" {
		return nil, fmt.Errorf("vault secret must not be empty")
	}
	return &SecretBoxVault{key: sha256.Sum256([]byte(secret))}, nil
}

// Encrypt seals the plaintext with a fresh random nonce. The nonce is
// prepended to the ciphertext before base64 encoding.
func (v *SecretBoxVault) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(v.key[:])
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func (v *SecretBoxVault) Decrypt(ciphertext string) (string, error) {
	sealed, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.New(v.key[:])
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("malformed ciphertext: too short")
	}
	nonce, box := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
