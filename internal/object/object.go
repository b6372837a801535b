// Package object implements the Object/ReadOnlyObject view over an
// ObjectHandle: a seekable read buffer, a write-side chunker, and the
// chunk-splice flush that reconciles edits against immutable chunks.
package object

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"vaultstore/internal/chunk"
	"vaultstore/internal/chunkstore"
	"vaultstore/internal/header"
)

// Whence selects what a Seek offset is relative to. Unlike io.Seeker's
// SeekEnd (where a backward seek takes a negative offset), SeekFromEnd
// here takes a non-negative offset counted backward from the end.
type Whence int

const (
	SeekFromStart Whence = iota
	SeekFromCurrent
	SeekFromEnd
)

// location pinpoints the chunk an object position falls within.
type location struct {
	ref   chunk.Ref
	start uint64
	end   uint64
	index int
}

func (l location) relative(position uint64) uint64 { return position - l.start }

// state is the transient per-open bookkeeping for an Object: the read
// buffer, pending chunker, and the splice bounds a write is building.
type state struct {
	position      uint64
	bufferedChunk *chunk.Ref
	readBuffer    []byte
	chunker       *chunk.Chunker
	newChunks     []chunk.Ref
	startLocation *location
	needsFlush    bool
}

func newState(cfg chunk.Config) *state {
	return &state{chunker: chunk.New(cfg)}
}

// core holds the logic shared by Object and ReadOnlyObject. Both types are
// thin wrappers restricting which of its methods are reachable, so a
// ReadOnlyObject can never accidentally mutate the handle it views.
type core struct {
	ctx    context.Context
	handle *header.ObjectHandle
	chunks *chunkstore.Store
	cfg    chunk.Config
	st     *state
}

func newCore(ctx context.Context, handle *header.ObjectHandle, chunks *chunkstore.Store, cfg chunk.Config) *core {
	return &core{ctx: ctx, handle: handle, chunks: chunks, cfg: cfg, st: newState(cfg)}
}

// currentChunk returns the chunk containing position, or nil if position
// is at or past the end of the object (always the case for an empty one).
func (c *core) currentChunk(position uint64) *location {
	var start uint64
	for i, ref := range c.handle.Chunks {
		end := start + ref.Size
		if position >= start && position < end {
			return &location{ref: ref, start: start, end: end, index: i}
		}
		start = end
	}
	return nil
}

// Size reports the object's size as of the last flush.
func (c *core) Size() uint64 { return c.handle.Size }

// Seek relocates the read/write position, flushing any pending write
// first. See Whence for the SeekFromEnd convention.
func (c *core) Seek(whence Whence, offset int64) (int64, error) {
	if err := c.Flush(); err != nil {
		return 0, err
	}

	size := int64(c.handle.Size)
	var newPos int64

	switch whence {
	case SeekFromStart:
		if offset < 0 {
			return 0, fmt.Errorf("object: seek: %w", ErrInvalidInput)
		}
		newPos = offset
		if newPos > size {
			newPos = size
		}
	case SeekFromEnd:
		if offset < 0 || offset > size {
			return 0, fmt.Errorf("object: seek: %w", ErrInvalidInput)
		}
		newPos = size - offset
	case SeekFromCurrent:
		newPos = int64(c.st.position) + offset
		if newPos < 0 {
			return 0, fmt.Errorf("object: seek: %w", ErrInvalidInput)
		}
		if newPos > size {
			newPos = size
		}
	default:
		return 0, fmt.Errorf("object: seek: unknown whence %d", whence)
	}

	c.st.position = uint64(newPos)
	return newPos, nil
}

// fetchChunk returns the decoded payload of loc, reusing the cached read
// buffer when loc is the chunk already buffered.
func (c *core) fetchChunk(loc location) ([]byte, error) {
	if c.st.bufferedChunk != nil && *c.st.bufferedChunk == loc.ref {
		return c.st.readBuffer, nil
	}
	data, err := c.chunks.ReadChunk(c.ctx, loc.ref)
	if err != nil {
		return nil, err
	}
	ref := loc.ref
	c.st.bufferedChunk = &ref
	c.st.readBuffer = data
	return data, nil
}

// Read implements the object's Read operation: a single call never
// crosses a chunk boundary (partial-read semantics).
func (c *core) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	loc := c.currentChunk(c.st.position)
	if loc == nil {
		return 0, io.EOF
	}

	data, err := c.fetchChunk(*loc)
	if err != nil {
		return 0, err
	}

	start := loc.relative(c.st.position)
	end := uint64(len(buf))
	if max := loc.ref.Size - start; end > max {
		end = max
	}
	n := copy(buf, data[start:start+end])
	c.st.position += uint64(n)
	return n, nil
}

// Write feeds buf into the pending chunker, draining and persisting any
// chunk boundaries it confirms. See flush for how the splice is applied.
func (c *core) Write(buf []byte) (int, error) {
	if !c.st.needsFlush {
		c.st.startLocation = c.currentChunk(c.st.position)
		if loc := c.st.startLocation; loc != nil {
			data, err := c.fetchChunk(*loc)
			if err != nil {
				return 0, err
			}
			rel := loc.relative(c.st.position)
			for _, payload := range c.st.chunker.Write(data[:rel]) {
				ref, err := c.chunks.WriteChunk(c.ctx, payload)
				if err != nil {
					return 0, err
				}
				c.st.newChunks = append(c.st.newChunks, ref)
			}
		}
	}

	for _, payload := range c.st.chunker.Write(buf) {
		ref, err := c.chunks.WriteChunk(c.ctx, payload)
		if err != nil {
			return 0, err
		}
		c.st.newChunks = append(c.st.newChunks, ref)
	}

	c.st.position += uint64(len(buf))
	c.st.needsFlush = true
	return len(buf), nil
}

// Flush finalizes the pending chunker and splices the resulting chunk
// sequence into the handle's chunk list, replacing exactly the range of
// chunks that the writes since the last flush touched.
func (c *core) Flush() error {
	if !c.st.needsFlush {
		return nil
	}

	endLoc := c.currentChunk(c.st.position)
	if endLoc != nil {
		data, err := c.fetchChunk(*endLoc)
		if err != nil {
			return err
		}
		rel := endLoc.relative(c.st.position)
		for _, payload := range c.st.chunker.Write(data[rel:]) {
			ref, err := c.chunks.WriteChunk(c.ctx, payload)
			if err != nil {
				return err
			}
			c.st.newChunks = append(c.st.newChunks, ref)
		}
	}

	if tail := c.st.chunker.Finalize(); tail != nil {
		ref, err := c.chunks.WriteChunk(c.ctx, tail)
		if err != nil {
			return err
		}
		c.st.newChunks = append(c.st.newChunks, ref)
	}

	startIndex := len(c.handle.Chunks)
	if c.st.startLocation != nil {
		startIndex = c.st.startLocation.index
	}
	endIndex := len(c.handle.Chunks)
	if endLoc != nil {
		endIndex = endLoc.index + 1
	}

	spliced := make([]chunk.Ref, 0, startIndex+len(c.st.newChunks)+(len(c.handle.Chunks)-endIndex))
	spliced = append(spliced, c.handle.Chunks[:startIndex]...)
	spliced = append(spliced, c.st.newChunks...)
	spliced = append(spliced, c.handle.Chunks[endIndex:]...)
	c.handle.Chunks = spliced

	var size uint64
	for _, ref := range c.handle.Chunks {
		size += ref.Size
	}
	c.handle.Size = size

	c.st.startLocation = nil
	c.st.newChunks = nil
	c.st.needsFlush = false
	c.st.chunker = chunk.New(c.cfg)
	return nil
}

// Truncate shortens the object to n bytes, splicing a sliced tail chunk in
// place of whatever chunk straddled the new end.
func (c *core) Truncate(n uint64) error {
	if err := c.Flush(); err != nil {
		return err
	}
	if n >= c.handle.Size {
		return nil
	}

	originalPosition := c.st.position
	c.st.position = n

	endLoc := c.currentChunk(n)
	if endLoc == nil {
		return nil
	}

	data, err := c.fetchChunk(*endLoc)
	if err != nil {
		return err
	}
	rel := endLoc.relative(n)
	newTail := append([]byte(nil), data[:rel]...)

	var newRef chunk.Ref
	if len(newTail) > 0 {
		newRef, err = c.chunks.WriteChunk(c.ctx, newTail)
		if err != nil {
			return err
		}
	}

	c.handle.Chunks = c.handle.Chunks[:endLoc.index]
	if len(newTail) > 0 {
		c.handle.Chunks = append(c.handle.Chunks, newRef)
	}

	if n < c.handle.Size {
		c.handle.Size = n
	}

	if originalPosition < n {
		c.st.position = originalPosition
	} else {
		c.st.position = n
	}
	return nil
}

// Verify re-hashes every chunk in the handle, reporting false on the first
// hash mismatch or codec failure rather than propagating it.
func (c *core) Verify() (bool, error) {
	for _, ref := range c.handle.Chunks {
		ok, err := c.chunks.VerifyChunk(c.ctx, ref)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Serialize encodes value with MessagePack and replaces the object's
// entire contents with the encoding.
func (c *core) Serialize(value any) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("object: serialize: %w: %v", ErrSerialize, err)
	}
	if _, err := c.Seek(SeekFromStart, 0); err != nil {
		return err
	}
	if _, err := c.Write(encoded); err != nil {
		return err
	}
	if err := c.Flush(); err != nil {
		return err
	}
	return c.Truncate(uint64(len(encoded)))
}

// Deserialize reads the object's full contents from the start and decodes
// them with MessagePack into value.
func (c *core) Deserialize(value any) error {
	if _, err := c.Seek(SeekFromStart, 0); err != nil {
		return err
	}
	data, err := io.ReadAll(readerFunc(c.Read))
	if err != nil {
		return fmt.Errorf("object: deserialize: %w", err)
	}
	if err := msgpack.Unmarshal(data, value); err != nil {
		return fmt.Errorf("object: deserialize: %w: %v", ErrDeserialize, err)
	}
	return nil
}

// ContentID is a cheap content fingerprint scoped to a single repository:
// equal content within the same repo produces an equal ContentID; two
// repositories never produce an equal one for the same bytes, because
// RepoID is part of the value.
type ContentID struct {
	RepoID uuid.UUID
	Size   uint64
	Chunks []chunk.Ref
}

// Equal reports whether id and other represent the same content. It is
// meaningful only when both came from the same repository.
func (id ContentID) Equal(other ContentID) bool {
	if id.RepoID != other.RepoID || id.Size != other.Size || len(id.Chunks) != len(other.Chunks) {
		return false
	}
	for i := range id.Chunks {
		if id.Chunks[i] != other.Chunks[i] {
			return false
		}
	}
	return true
}

// CompareContents streams other in chunk-sized reads and compares each
// against id's chunk hashes, short-circuiting on the first mismatch
// without reading the object's actual bytes back from the store.
func (id ContentID) CompareContents(other io.Reader) (bool, error) {
	var buf []byte
	for _, ref := range id.Chunks {
		if uint64(cap(buf)) < ref.Size {
			buf = make([]byte, ref.Size)
		}
		buf = buf[:ref.Size]
		if _, err := io.ReadFull(other, buf); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return false, nil
			}
			return false, fmt.Errorf("object: compare contents: %w", err)
		}
		if chunk.Sum(buf) != ref.Hash {
			return false, nil
		}
	}

	var tail [1]byte
	n, err := other.Read(tail[:])
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("object: compare contents: %w", err)
	}
	return n == 0, nil
}

// contentID builds the ContentID for handle as of its last flush.
func contentID(repoID uuid.UUID, handle *header.ObjectHandle) ContentID {
	chunks := make([]chunk.Ref, len(handle.Chunks))
	copy(chunks, handle.Chunks)
	return ContentID{RepoID: repoID, Size: handle.Size, Chunks: chunks}
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
