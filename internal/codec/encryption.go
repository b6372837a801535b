package codec

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the width of every AEAD key used by this package.
const KeySize = chacha20poly1305.KeySize

// nonceSize is the width of the random nonce prepended to each sealed blob.
const nonceSize = chacha20poly1305.NonceSizeX

// Key is a symmetric AEAD key: either a repository's master key or the
// password-derived wrapping key that protects it.
type Key [KeySize]byte

// EncryptionKind selects the encryption stage of the codec pipeline.
type EncryptionKind byte

const (
	EncryptionNone EncryptionKind = iota
	EncryptionAEAD
)

// Seal encrypts plaintext under key, returning nonce||ciphertext||tag. Each
// call draws a fresh random nonce, so the same plaintext never produces the
// same ciphertext twice even under the same key — required because every
// chunk sharing content is sealed under the one repository master key.
func Seal(key Key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("codec: new aead: %w", err)
	}

	nonce := make([]byte, nonceSize, nonceSize+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("codec: generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open inverts Seal.
func Open(key Key, sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("codec: new aead: %w", err)
	}
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("codec: sealed blob shorter than nonce")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: open: %w", err)
	}
	return plaintext, nil
}

// NewRandomKey draws a fresh random key, used to mint a repository's master
// key at create time.
func NewRandomKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("codec: generate key: %w", err)
	}
	return k, nil
}
