package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	vaultKeySize   = 32
	vaultNonceSize = 24
	vaultInfo      = "merlin backend token v1"
)

// ErrTokenUnsealable is returned when a sealed token cannot be opened with
// the vault's key.
var ErrTokenUnsealable = errors.New("sealed token cannot be opened")

// TokenVault seals backend tokens before they are stored.
type TokenVault struct {
	key [vaultKeySize]byte
}

// NewTokenVault derives the sealing key from secret.
func NewTokenVault(secret string) (*TokenVault, error) {
	if secret == "" {
		return nil, errors.New("token encryption key is empty")
	}
	v := &TokenVault{}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(vaultInfo))
	if _, err := io.ReadFull(r, v.key[:]); err != nil {
		return nil, fmt.Errorf("deriving token key: %w", err)
	}
	return v, nil
}

// Seal encrypts token. The random nonce is prepended to the result.
func (v *TokenVault) Seal(token string) ([]byte, error) {
	var nonce [vaultNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(token), &nonce, &v.key), nil
}

// Open decrypts a value produced by Seal.
func (v *TokenVault) Open(sealed []byte) (string, error) {
	if len(sealed) < vaultNonceSize+secretbox.Overhead {
		return "", ErrTokenUnsealable
	}
	var nonce [vaultNonceSize]byte
	copy(nonce[:], sealed[:vaultNonceSize])
	plain, ok := secretbox.Open(nil, sealed[vaultNonceSize:], &nonce, &v.key)
	if !ok {
		return "", ErrTokenUnsealable
	}
	return string(plain), nil
}

// hashToken returns the SHA-256 hex digest of a token string.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
