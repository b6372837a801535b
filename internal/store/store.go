// Package store defines the capability every blob backend must provide:
// id-keyed write/read/remove/list, plus an advisory exclusive lock.
// vaultstore's core never depends on a concrete backend, only on this
// interface, so storemem, storefile, storesqlite, and stores3 are
// interchangeable at Repository Create/Open time.
package store

import (
	"errors"
	"iter"

	"context"
)

// Blob is the capability a backend must provide to hold a repository's
// blobs. Every method is keyed by an opaque string id — callers use
// chunk.BlobID.String() — so a backend never needs to understand the
// structure of what it stores.
type Blob interface {
	// Write stores data under id, creating or overwriting it.
	Write(ctx context.Context, id string, data []byte) error

	// Read returns the data stored under id, or ErrNotFound.
	Read(ctx context.Context, id string) ([]byte, error)

	// Remove deletes id. Removing a nonexistent id is not an error.
	Remove(ctx context.Context, id string) error

	// List iterates every id currently stored. Implementations may list
	// lazily; callers must drain or abandon the sequence before issuing
	// further mutating calls against the same backend instance.
	List(ctx context.Context) iter.Seq2[string, error]

	// Lock acquires the repository's advisory exclusive lock according to
	// strategy, returning a Guard that releases it.
	Lock(ctx context.Context, strategy LockStrategy) (Guard, error)
}

// Guard releases a lock acquired via Blob.Lock.
type Guard interface {
	Unlock(ctx context.Context) error
}

// LockStrategy selects what Lock does when the repository is already
// locked by another instance.
type LockStrategy int

const (
	// LockAbort fails immediately with ErrAlreadyLocked.
	LockAbort LockStrategy = iota
	// LockWait polls until the existing lock is released.
	LockWait
	// LockForce seizes the lock unconditionally, for recovering a
	// repository after a crash left a stale lock behind.
	LockForce
)

var (
	ErrNotFound      = errors.New("store: blob not found")
	ErrAlreadyExists = errors.New("store: blob already exists")
	ErrAlreadyLocked = errors.New("store: repository already locked")
)

// Well-known blob ids, fixed by the persistent layout every backend shares.
const (
	HeaderPointerID = "HEADER_POINTER"
	LockID          = "LOCK"
	VersionID       = "VERSION"
)

// HeaderBlobID returns the blob id for a header record identified by uuid.
func HeaderBlobID(uuid string) string { return "HEADER_" + uuid }

// ChunkBlobID returns the blob id for a chunk blob identified by uuid.
func ChunkBlobID(uuid string) string { return "CHUNK_" + uuid }
