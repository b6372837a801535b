package vaultstore

import "vaultstore/internal/object"

// Object is a read-write view of a named object's bytes: Read, Write,
// Seek, Truncate, and Flush over content-defined, deduplicated chunks.
// Because chunks are immutable, every in-place edit is a splice: the
// affected region is re-chunked and the new chunks replace the old ones
// in the object's chunk list at Flush.
//
// Written data is not durable until Flush, and not committed until the
// owning Repository's Commit succeeds. An Object obtained from GetMut
// should have its pending writes explicitly flushed (or discarded) before
// the Repository is closed; this engine performs no implicit flush.
type Object = object.Object

// ReadOnlyObject is an immutable view of a named object's bytes: Read and
// Seek only. Obtained from Get.
type ReadOnlyObject = object.ReadOnlyObject

// ContentID is a cheap fingerprint of an object's content, scoped to one
// repository: equal content within the same repository produces an equal
// ContentID, and two repositories never produce an equal one for the same
// bytes. Compare two objects from the same repository with Equal;
// compare against external bytes with CompareContents.
type ContentID = object.ContentID

// Whence selects what a Seek offset is relative to.
type Whence = object.Whence

const (
	// SeekFromStart seeks to an absolute offset from the beginning.
	SeekFromStart = object.SeekFromStart
	// SeekFromCurrent seeks relative to the current position.
	SeekFromCurrent = object.SeekFromCurrent
	// SeekFromEnd seeks to offset bytes before the end of the object.
	// Unlike io.Seeker's SeekEnd, offset here is non-negative and counted
	// backward from the end; offset > size is ErrInvalidInput.
	SeekFromEnd = object.SeekFromEnd
)
