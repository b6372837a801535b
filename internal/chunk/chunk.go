// Package chunk implements content-defined chunking and chunk identity for
// vaultstore: splitting a byte stream into content-addressed, deduplicated
// pieces, and the small value types (Hash, Ref, BlobID) used to name them.
package chunk

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// HashSize is the width of a chunk's content hash in bytes (BLAKE3-256).
const HashSize = 32

// Hash identifies a chunk by the BLAKE3 hash of its plaintext content.
type Hash [HashSize]byte

// Sum returns the content hash of data.
func Sum(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// String returns the lowercase hex encoding of the hash, used as the
// serialization-friendly map key form (header chunkmap/refcounts) since
// not every binary encoding supports fixed-size byte arrays as map keys.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash inverts Hash.String.
func ParseHash(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != HashSize {
		return Hash{}, fmt.Errorf("chunk: invalid hash %q", s)
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

// Ref is the metadata an ObjectHandle keeps for one chunk in its chunk
// list: its content hash (used both for addressing in the store and for
// verifying integrity on read) and its plaintext size.
type Ref struct {
	Hash Hash
	Size uint64
}

// Verify reports whether data is the exact plaintext this Ref describes.
// A zero Size is treated as unknown (not an assertion that data is empty)
// so a Ref built from a bare Hash, with no recorded size, can still check
// the hash alone.
func (r Ref) Verify(data []byte) bool {
	if r.Size != 0 && uint64(len(data)) != r.Size {
		return false
	}
	return Sum(data) == r.Hash
}
