package codec

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// KDFParams are the Argon2id cost parameters used to stretch a repository
// password into a wrapping key. Defaults follow the usual OWASP-recommended
// settings for stretching an attacker-guessable secret into a key.
type KDFParams struct {
	Memory  uint32 // KiB
	Time    uint32 // iterations
	Threads uint8
}

// DefaultKDFParams returns the parameters used for newly created repositories.
func DefaultKDFParams() KDFParams {
	return KDFParams{Memory: 64 * 1024, Time: 3, Threads: 4}
}

// SaltSize is the width of the random salt stored alongside KDFParams in a
// repository's header.
const SaltSize = 16

// NewSalt draws a fresh random KDF salt.
func NewSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return salt, fmt.Errorf("codec: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches password into a Key using Argon2id.
func DeriveKey(password string, salt [SaltSize]byte, params KDFParams) Key {
	raw := argon2.IDKey([]byte(password), salt[:], params.Time, params.Memory, params.Threads, KeySize)
	var key Key
	copy(key[:], raw)
	return key
}

// WrapMasterKey seals a repository's random master key under a password-
// derived wrapping key, so the master key at rest in the header is never
// stored in the clear.
func WrapMasterKey(wrappingKey, masterKey Key) ([]byte, error) {
	return Seal(wrappingKey, masterKey[:])
}

// UnwrapMasterKey inverts WrapMasterKey. A wrong password produces a
// wrapping key that fails AEAD authentication here, which is how
// ErrWrongPassword is detected.
func UnwrapMasterKey(wrappingKey Key, wrapped []byte) (Key, error) {
	raw, err := Open(wrappingKey, wrapped)
	if err != nil {
		return Key{}, fmt.Errorf("codec: unwrap master key: %w", err)
	}
	if len(raw) != KeySize {
		return Key{}, fmt.Errorf("codec: unwrapped key has wrong length %d", len(raw))
	}
	var key Key
	copy(key[:], raw)
	return key, nil
}
