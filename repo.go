package vaultstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"vaultstore/internal/chunk"
	"vaultstore/internal/chunkstore"
	"vaultstore/internal/codec"
	"vaultstore/internal/header"
	"vaultstore/internal/logging"
	"vaultstore/internal/object"
	"vaultstore/internal/store"
)

// Repository is a handle to one opened content-addressed repository: the
// committed Header, the chunk store built on top of the backing
// store.Blob, and the advisory lock held for the lifetime of the handle.
//
// Repository is not safe for concurrent use by multiple goroutines — the
// engine is single-threaded cooperative within one opened repository;
// serialize calls externally if you must share one.
type Repository struct {
	blob store.Blob
	hdr  *header.Header
	cs   *chunkstore.Store
	key  codec.Key

	lock store.Guard

	// headerBlobID is the blob id the HEADER_POINTER blob currently names.
	headerBlobID chunk.BlobID

	// staleHeaders accumulates header blob ids superseded by a
	// successful Commit, pending removal by the next Clean.
	staleHeaders []chunk.BlobID

	logger *slog.Logger
}

// versionBytes is the on-disk encoding of the VERSION blob written once at
// Create and checked on every Open.
func versionBytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], header.FormatVersion)
	return b
}

// Create initializes a brand-new, empty repository against store, fixing
// its chunking and codec configuration for the repository's lifetime.
func Create(ctx context.Context, blob store.Blob, cfg Config, logger *slog.Logger) (*Repository, error) {
	logger = logging.Default(logger).With("component", "vaultstore.repo")

	lock, err := blob.Lock(ctx, LockAbort)
	if err != nil {
		return nil, newError("Create", KindAlreadyLocked, err)
	}

	repoID := uuid.New()
	repoCfg := cfg.repoConfig()

	var key codec.Key
	if cfg.Encryption == codec.EncryptionAEAD {
		if cfg.Password == "" {
			return nil, newError("Create", KindKeyNotFound, fmt.Errorf("encryption requested without a password"))
		}
		key, err = codec.NewRandomKey()
		if err != nil {
			return nil, newError("Create", KindOther, err)
		}
		salt, err := codec.NewSalt()
		if err != nil {
			return nil, newError("Create", KindOther, err)
		}
		kdfParams := codec.DefaultKDFParams()
		wrappingKey := codec.DeriveKey(cfg.Password, salt, kdfParams)
		wrapped, err := codec.WrapMasterKey(wrappingKey, key)
		if err != nil {
			return nil, newError("Create", KindOther, err)
		}
		repoCfg.KDFSalt = salt
		repoCfg.KDFParams = kdfParams
		repoCfg.WrappedKey = wrapped
	}

	hdr := header.New(repoID, repoCfg)

	r := &Repository{blob: blob, hdr: hdr, key: key, lock: lock, logger: logger}
	r.rebuildChunkStore()

	vb := versionBytes()
	if err := blob.Write(ctx, store.VersionID, vb[:]); err != nil {
		return nil, newError("Create", KindStore, err)
	}

	if err := r.persistHeader(ctx); err != nil {
		return nil, err
	}

	logger.Info("repository created", "repo_id", repoID)
	return r, nil
}

// Open recovers a previously created repository from store. password is
// ignored (and may be empty) unless the repository was created with
// encryption enabled, in which case a wrong password is reported as
// ErrWrongPassword.
func Open(ctx context.Context, blob store.Blob, password string, strategy LockStrategy, logger *slog.Logger) (*Repository, error) {
	logger = logging.Default(logger).With("component", "vaultstore.repo")

	lock, err := blob.Lock(ctx, strategy)
	if err != nil {
		return nil, newError("Open", KindAlreadyLocked, err)
	}

	vb, err := blob.Read(ctx, store.VersionID)
	if err != nil {
		return nil, newError("Open", KindUnsupportedFormat, err)
	}
	if len(vb) != 4 || binary.LittleEndian.Uint32(vb) != header.FormatVersion {
		return nil, newError("Open", KindUnsupportedFormat, fmt.Errorf("unrecognized VERSION blob"))
	}

	pointerBytes, err := blob.Read(ctx, store.HeaderPointerID)
	if err != nil {
		return nil, newError("Open", KindUnsupportedFormat, err)
	}
	headerBlobID, err := chunk.ParseBlobID(string(pointerBytes))
	if err != nil {
		return nil, newError("Open", KindUnsupportedFormat, err)
	}

	hdr, key, err := loadHeader(ctx, blob, headerBlobID, password, "Open")
	if err != nil {
		return nil, err
	}

	r := &Repository{blob: blob, hdr: hdr, key: key, lock: lock, headerBlobID: headerBlobID, logger: logger}
	r.rebuildChunkStore()
	logger.Info("repository opened", "repo_id", hdr.RepoID)
	return r, nil
}

// loadHeader reads and decodes the header blob identified by id, deriving
// the master key from password if the repository is encrypted.
func loadHeader(ctx context.Context, blob store.Blob, id chunk.BlobID, password string, op string) (*header.Header, codec.Key, error) {
	body, err := blob.Read(ctx, store.HeaderBlobID(id.String()))
	if err != nil {
		return nil, codec.Key{}, newError(op, KindUnsupportedFormat, err)
	}

	hdr, key, err := decodeHeaderBlob(body, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			return nil, codec.Key{}, newError(op, KindWrongPassword, err)
		case errors.Is(err, ErrKeyNotFound):
			return nil, codec.Key{}, newError(op, KindKeyNotFound, err)
		default:
			return nil, codec.Key{}, newError(op, KindUnsupportedFormat, err)
		}
	}
	return hdr, key, nil
}

func (r *Repository) rebuildChunkStore() {
	r.cs = chunkstore.New(r.blob, r.hdr, r.key)
}

// Close releases the repository's advisory lock. It does not flush or
// commit any pending work — callers must Commit explicitly first.
func (r *Repository) Close(ctx context.Context) error {
	if r.lock == nil {
		return nil
	}
	if err := r.lock.Unlock(ctx); err != nil {
		return newError("Close", KindStore, err)
	}
	r.lock = nil
	return nil
}

// Insert creates a new, empty named object and returns a writable view of
// it. It fails with ErrAlreadyExists if name is already in use.
func (r *Repository) Insert(ctx context.Context, name string) (*Object, error) {
	instance := r.hdr.Instance(r.hdr.DefaultInstanceID)
	if _, exists := instance[name]; exists {
		return nil, newError("Insert", KindAlreadyExists, fmt.Errorf("object %q", name))
	}

	handle := &header.ObjectHandle{
		HandleID:   r.hdr.HandleIDs.Alloc(),
		RepoID:     r.hdr.RepoID,
		InstanceID: r.hdr.DefaultInstanceID,
	}
	instance[name] = handle

	return object.New(ctx, r.hdr.RepoID, handle, r.cs, r.chunkConfig()), nil
}

// Remove deletes the named object. Its chunks become unreferenced — not
// immediately deleted — and are reclaimed by the next Clean after a
// Commit makes the removal durable.
func (r *Repository) Remove(ctx context.Context, name string) error {
	instance := r.hdr.Instance(r.hdr.DefaultInstanceID)
	handle, exists := instance[name]
	if !exists {
		return newError("Remove", KindNotFound, fmt.Errorf("object %q", name))
	}
	delete(instance, name)
	r.hdr.HandleIDs.Release(handle.HandleID)
	return nil
}

// Get returns a read-only view of the named object.
func (r *Repository) Get(ctx context.Context, name string) (*ReadOnlyObject, error) {
	handle, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return object.NewReadOnly(ctx, r.hdr.RepoID, handle, r.cs, r.chunkConfig()), nil
}

// GetMut returns a read-write view of the named object.
func (r *Repository) GetMut(ctx context.Context, name string) (*Object, error) {
	handle, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return object.New(ctx, r.hdr.RepoID, handle, r.cs, r.chunkConfig()), nil
}

func (r *Repository) lookup(name string) (*header.ObjectHandle, error) {
	instance := r.hdr.Instance(r.hdr.DefaultInstanceID)
	handle, exists := instance[name]
	if !exists {
		return nil, newError("lookup", KindNotFound, fmt.Errorf("object %q", name))
	}
	return handle, nil
}

func (r *Repository) chunkConfig() chunk.Config {
	return chunk.Config{
		MinSize: r.hdr.Config.ChunkMinSize,
		AvgSize: r.hdr.Config.ChunkAvgSize,
		MaxSize: r.hdr.Config.ChunkMaxSize,
	}
}

// Commit durably persists the current in-memory state: it serializes the
// Header through the same codec pipeline as a chunk, writes it under a
// fresh blob id, and atomically swaps the HEADER_POINTER blob to point at
// it. The previous header blob is left in place — queued in staleHeaders —
// until the next Clean removes it, so a crash between the header write
// and the pointer swap leaves the repository openable at the prior state.
func (r *Repository) Commit(ctx context.Context) error {
	newBlobID, err := r.persistHeaderSnapshot(ctx)
	if err != nil {
		return newError("Commit", KindStore, err)
	}
	if !r.currentHeaderBlobID().IsZero() {
		r.staleHeaders = append(r.staleHeaders, r.currentHeaderBlobID())
	}
	r.setCurrentHeaderBlobID(newBlobID)
	return nil
}

// currentHeaderBlobID and setCurrentHeaderBlobID track the header blob the
// HEADER_POINTER currently names, purely so Commit knows what to queue for
// Clean. They are stored as Repository fields rather than re-read from the
// backend on every Commit.
func (r *Repository) currentHeaderBlobID() chunk.BlobID { return r.headerBlobID }

func (r *Repository) setCurrentHeaderBlobID(id chunk.BlobID) { r.headerBlobID = id }

// persistHeader is used by Create, where there is no previous header blob
// to queue for cleanup.
func (r *Repository) persistHeader(ctx context.Context) error {
	id, err := r.persistHeaderSnapshot(ctx)
	if err != nil {
		return newError("Create", KindStore, err)
	}
	r.setCurrentHeaderBlobID(id)
	return nil
}

// persistHeaderSnapshot serializes the current in-memory Header, writes it
// under a fresh blob id, and swaps HEADER_POINTER to name it — the single
// write that makes a generation of the repository durable. It does not
// touch r.staleHeaders or r.headerBlobID; callers decide what to do with
// the blob id it returns.
func (r *Repository) persistHeaderSnapshot(ctx context.Context) (chunk.BlobID, error) {
	body, err := encodeHeaderBlob(r.hdr, r.key)
	if err != nil {
		return chunk.BlobID{}, err
	}

	newBlobID, err := chunk.NewBlobID()
	if err != nil {
		return chunk.BlobID{}, err
	}

	if err := r.blob.Write(ctx, store.HeaderBlobID(newBlobID.String()), body); err != nil {
		return chunk.BlobID{}, err
	}
	if err := r.blob.Write(ctx, store.HeaderPointerID, []byte(newBlobID.String())); err != nil {
		return chunk.BlobID{}, err
	}
	return newBlobID, nil
}

// Rollback discards in-memory changes made since the last Commit, reloading
// the Header from the currently pointed-to header blob. It reuses the
// repository's already-known master key rather than re-deriving it from a
// password — a repository holds exactly one key for its whole open
// lifetime, so there is nothing to re-bootstrap.
func (r *Repository) Rollback(ctx context.Context) error {
	body, err := r.blob.Read(ctx, store.HeaderBlobID(r.headerBlobID.String()))
	if err != nil {
		return newError("Rollback", KindStore, err)
	}
	hdr, err := decodeHeaderBlobWithKey(body, r.key)
	if err != nil {
		return newError("Rollback", KindInvalidData, err)
	}
	r.hdr = hdr
	r.rebuildChunkStore()
	return nil
}

// Clean deletes chunk blobs that no ObjectHandle references, neither in
// the committed Header that HEADER_POINTER names nor in the current
// in-memory Header, and any header blobs superseded by a Commit since the
// last Clean. It recomputes reachability from both Headers rather than
// trusting in-memory refcounts at this instant, since refcounts are never
// eagerly decremented when a splice orphans a chunk.
func (r *Repository) Clean(ctx context.Context) error {
	reachable := r.hdr.ReachableChunks()
	body, err := r.blob.Read(ctx, store.HeaderBlobID(r.headerBlobID.String()))
	if err != nil {
		return newError("Clean", KindStore, err)
	}
	committed, err := decodeHeaderBlobWithKey(body, r.key)
	if err != nil {
		return newError("Clean", KindInvalidData, err)
	}
	for hash, ref := range committed.ReachableChunks() {
		reachable[hash] = ref
	}

	for key, blobID := range r.hdr.Chunkmap {
		hash, err := chunk.ParseHash(key)
		if err != nil {
			continue
		}
		if _, ok := reachable[hash]; ok {
			continue
		}
		if err := r.blob.Remove(ctx, store.ChunkBlobID(blobID.String())); err != nil {
			return newError("Clean", KindStore, err)
		}
		r.hdr.DeleteChunk(hash)
	}

	for _, old := range r.staleHeaders {
		if err := r.blob.Remove(ctx, store.HeaderBlobID(old.String())); err != nil {
			return newError("Clean", KindStore, err)
		}
	}
	r.staleHeaders = nil
	return nil
}

// Verify re-hashes chunks and reports the set of chunk hashes that failed
// integrity verification. With full false, only chunks reachable from a
// live ObjectHandle are checked; with full true, every chunk the Chunkmap
// still tracks is checked, including orphans a Clean hasn't reclaimed yet.
func (r *Repository) Verify(ctx context.Context, full bool) (map[chunk.Hash]struct{}, error) {
	targets := r.hdr.ReachableChunks()
	if full {
		targets = make(map[chunk.Hash]chunk.Ref, len(r.hdr.Chunkmap))
		for key := range r.hdr.Chunkmap {
			hash, err := chunk.ParseHash(key)
			if err != nil {
				continue
			}
			targets[hash] = chunk.Ref{Hash: hash}
		}
	}

	corrupted := make(map[chunk.Hash]struct{})
	for hash, ref := range targets {
		if _, ok := r.hdr.BlobIDFor(hash); !ok {
			corrupted[hash] = struct{}{}
			continue
		}
		ok, err := r.cs.VerifyChunk(ctx, ref)
		if err != nil {
			return nil, newError("Verify", KindStore, err)
		}
		if !ok {
			corrupted[hash] = struct{}{}
		}
	}
	return corrupted, nil
}
