// Package vaultstore is an embedded, content-addressed object store: named
// objects whose bodies are arbitrary byte streams, deduplicated into
// content-defined chunks over a pluggable blob backend (store.Blob),
// with transactional commit, integrity verification, and optional
// encryption/compression.
package vaultstore

import (
	"errors"
	"fmt"

	"vaultstore/internal/chunkstore"
	"vaultstore/internal/object"
)

// Kind classifies the error conditions the engine can report, independent
// of whatever caused them.
type Kind int

const (
	// KindOther covers conditions with no more specific Kind.
	KindOther Kind = iota
	// KindNotFound means a named object or a referenced chunk is absent.
	KindNotFound
	// KindAlreadyExists means Insert collided with an existing name.
	KindAlreadyExists
	// KindInvalidData means a hash mismatch, AEAD authentication failure,
	// or codec failure was detected while decoding a stored blob.
	KindInvalidData
	// KindSerialize means encoding a header or user value failed.
	KindSerialize
	// KindDeserialize means decoding a header or user value failed.
	KindDeserialize
	// KindUnsupportedFormat means the on-disk format version does not
	// match what this build of the engine understands.
	KindUnsupportedFormat
	// KindKeyNotFound means the repository has no wrapped master key but
	// one was required (encryption was requested but never configured).
	KindKeyNotFound
	// KindWrongPassword means unwrapping the master key failed
	// authentication.
	KindWrongPassword
	// KindAlreadyLocked means Open failed to acquire the repository lock
	// under LockAbort.
	KindAlreadyLocked
	// KindInvalidInput means a caller-supplied argument (a seek target,
	// for instance) was out of range.
	KindInvalidInput
	// KindStore wraps an opaque error returned by the store.Blob backend.
	KindStore
	// KindIO wraps a failure from an external io.Reader/io.Writer passed
	// to a convenience method.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindInvalidData:
		return "invalid data"
	case KindSerialize:
		return "serialize"
	case KindDeserialize:
		return "deserialize"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindKeyNotFound:
		return "key not found"
	case KindWrongPassword:
		return "wrong password"
	case KindAlreadyLocked:
		return "already locked"
	case KindInvalidInput:
		return "invalid input"
	case KindStore:
		return "store"
	case KindIO:
		return "io"
	default:
		return "other"
	}
}

// Error is the error type every Repository operation returns. Op names the
// failing operation (e.g. "Insert", "Commit"); Err, when present, is the
// underlying cause and is reachable through Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vaultstore: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("vaultstore: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel errors, exposed so callers can use errors.Is(err,
// vaultstore.ErrNotFound) without depending on the Kind enum directly.
//
// ErrInvalidData, ErrInvalidInput, ErrSerialize, and ErrDeserialize are the
// same sentinel values internal/chunkstore and internal/object already
// return directly from Object/ReadOnlyObject methods (Read, Seek,
// Serialize, Deserialize never pass back through the Repository to be
// re-wrapped as a *vaultstore.Error) — re-exporting them here, rather than
// minting unrelated errors.New values, keeps errors.Is(err,
// vaultstore.ErrInvalidData) true no matter which layer produced err.
var (
	ErrNotFound          = errors.New("vaultstore: not found")
	ErrAlreadyExists     = errors.New("vaultstore: already exists")
	ErrInvalidData       = chunkstore.ErrInvalidData
	ErrSerialize         = object.ErrSerialize
	ErrDeserialize       = object.ErrDeserialize
	ErrUnsupportedFormat = errors.New("vaultstore: unsupported format")
	ErrKeyNotFound       = errors.New("vaultstore: key not found")
	ErrWrongPassword     = errors.New("vaultstore: wrong password")
	ErrAlreadyLocked     = errors.New("vaultstore: already locked")
	ErrInvalidInput      = object.ErrInvalidInput
)

// kindSentinel returns the sentinel error errors.Is should match for kind,
// or nil if kind has none (KindStore/KindIO/KindOther wrap an arbitrary
// cause instead).
func kindSentinel(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindAlreadyExists:
		return ErrAlreadyExists
	case KindInvalidData:
		return ErrInvalidData
	case KindSerialize:
		return ErrSerialize
	case KindDeserialize:
		return ErrDeserialize
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindKeyNotFound:
		return ErrKeyNotFound
	case KindWrongPassword:
		return ErrWrongPassword
	case KindAlreadyLocked:
		return ErrAlreadyLocked
	case KindInvalidInput:
		return ErrInvalidInput
	default:
		return nil
	}
}

// newError builds an *Error whose Unwrap chain reaches both cause (if any)
// and the sentinel for kind, so errors.Is works against either.
func newError(op string, kind Kind, cause error) *Error {
	sentinel := kindSentinel(kind)
	if sentinel == nil {
		return &Error{Kind: kind, Op: op, Err: cause}
	}
	if cause == nil {
		return &Error{Kind: kind, Op: op, Err: sentinel}
	}
	return &Error{Kind: kind, Op: op, Err: &joinedCause{sentinel: sentinel, cause: cause}}
}

// joinedCause lets errors.Is match the Kind's sentinel while errors.As /
// fmt's %v still surface the original cause's message.
type joinedCause struct {
	sentinel error
	cause    error
}

func (j *joinedCause) Error() string { return j.cause.Error() }
func (j *joinedCause) Unwrap() []error {
	return []error{j.sentinel, j.cause}
}
