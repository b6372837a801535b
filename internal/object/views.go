package object

import (
	"context"
	"io"

	"github.com/google/uuid"

	"vaultstore/internal/chunk"
	"vaultstore/internal/chunkstore"
	"vaultstore/internal/header"
)

// ReadOnlyObject is an immutable view of a handle's content: it implements
// Read and Seek but exposes no mutating operation, so a caller that only
// has a ReadOnlyObject can never affect the repository.
type ReadOnlyObject struct {
	repoID uuid.UUID
	c      *core
}

// NewReadOnly binds a ReadOnlyObject to handle, reading chunks through
// chunks under cfg's chunking parameters.
func NewReadOnly(ctx context.Context, repoID uuid.UUID, handle *header.ObjectHandle, chunks *chunkstore.Store, cfg chunk.Config) *ReadOnlyObject {
	return &ReadOnlyObject{repoID: repoID, c: newCore(ctx, handle, chunks, cfg)}
}

func (o *ReadOnlyObject) Read(buf []byte) (int, error) { return o.c.Read(buf) }

func (o *ReadOnlyObject) Seek(whence Whence, offset int64) (int64, error) {
	return o.c.Seek(whence, offset)
}

// Size reports the object's size as of the last flush.
func (o *ReadOnlyObject) Size() uint64 { return o.c.Size() }

// ContentID returns the cheap content fingerprint for this object's
// current (flushed) contents.
func (o *ReadOnlyObject) ContentID() ContentID { return contentID(o.repoID, o.c.handle) }

// CompareContents reports whether this object's content matches other,
// without reading this object's bytes back from the store.
func (o *ReadOnlyObject) CompareContents(other io.Reader) (bool, error) {
	return o.ContentID().CompareContents(other)
}

// Verify re-hashes every chunk referenced by this object.
func (o *ReadOnlyObject) Verify() (bool, error) { return o.c.Verify() }

// Deserialize reads this object's full contents and decodes them with
// MessagePack into value.
func (o *ReadOnlyObject) Deserialize(value any) error { return o.c.Deserialize(value) }

// Object is a read-write view of a handle's content. Every in-place edit
// is implemented as a splice of the handle's immutable chunk list — see
// core.Flush.
type Object struct {
	repoID uuid.UUID
	c      *core
}

// New binds a read-write Object to handle.
func New(ctx context.Context, repoID uuid.UUID, handle *header.ObjectHandle, chunks *chunkstore.Store, cfg chunk.Config) *Object {
	return &Object{repoID: repoID, c: newCore(ctx, handle, chunks, cfg)}
}

func (o *Object) Read(buf []byte) (int, error) { return o.c.Read(buf) }

func (o *Object) Write(buf []byte) (int, error) { return o.c.Write(buf) }

func (o *Object) Seek(whence Whence, offset int64) (int64, error) {
	return o.c.Seek(whence, offset)
}

// Flush finalizes any pending write into the handle's chunk list. It is a
// no-op if nothing has been written since the last Flush.
func (o *Object) Flush() error { return o.c.Flush() }

// Truncate shortens the object to n bytes, flushing first.
func (o *Object) Truncate(n uint64) error { return o.c.Truncate(n) }

// Size reports the object's size as of the last flush.
func (o *Object) Size() uint64 { return o.c.Size() }

// ContentID returns the cheap content fingerprint for this object's
// current (flushed) contents.
func (o *Object) ContentID() ContentID { return contentID(o.repoID, o.c.handle) }

// CompareContents reports whether this object's content matches other,
// without reading this object's bytes back from the store.
func (o *Object) CompareContents(other io.Reader) (bool, error) {
	return o.ContentID().CompareContents(other)
}

// Verify re-hashes every chunk referenced by this object.
func (o *Object) Verify() (bool, error) { return o.c.Verify() }

// Serialize encodes value with MessagePack and replaces the object's
// entire contents with the encoding.
func (o *Object) Serialize(value any) error { return o.c.Serialize(value) }

// Deserialize reads this object's full contents and decodes them with
// MessagePack into value.
func (o *Object) Deserialize(value any) error { return o.c.Deserialize(value) }

// Discard abandons any pending write without flushing it: already-persisted
// new chunks become garbage reclaimable by the repository's next clean.
// Callers requiring durability must call Flush explicitly; Discard exists
// so a caller that is deliberately abandoning edits (closing without
// saving) doesn't pay for an implicit flush it doesn't want.
func (o *Object) Discard() {
	o.c.st = newState(o.c.cfg)
}
