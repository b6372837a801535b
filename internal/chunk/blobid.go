package chunk

import (
	"encoding/base32"
	"fmt"

	"github.com/google/uuid"
)

// blobIDEncoding renders a BlobID as an uppercase, unpadded base32hex string:
// shorter than the canonical UUID form and safe to use directly as a path
// segment or object key in every Store backend.
var blobIDEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// BlobID names one blob in the backing Store: a chunk payload or a
// repository header. It is a UUIDv7, so ids sort lexically by
// creation time, which keeps storefile/storesqlite directory and index
// scans roughly append-ordered.
type BlobID [16]byte

// NewBlobID allocates a fresh, time-ordered BlobID.
func NewBlobID() (BlobID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return BlobID{}, fmt.Errorf("chunk: generate blob id: %w", err)
	}
	return BlobID(id), nil
}

// ParseBlobID decodes the string form produced by BlobID.String.
func ParseBlobID(s string) (BlobID, error) {
	raw, err := blobIDEncoding.DecodeString(s)
	if err != nil || len(raw) != 16 {
		return BlobID{}, fmt.Errorf("chunk: invalid blob id %q", s)
	}
	var id BlobID
	copy(id[:], raw)
	return id, nil
}

func (id BlobID) String() string {
	return blobIDEncoding.EncodeToString(id[:])
}

// IsZero reports whether id is the zero value (never a valid, allocated id).
func (id BlobID) IsZero() bool {
	return id == BlobID{}
}
