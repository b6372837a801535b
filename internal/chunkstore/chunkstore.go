// Package chunkstore implements the (hash → compress → encrypt → persist)
// path for individual chunks and its inverse on read, grounded on the
// hashEncryptAndWriteMaybeAsync / newRawReader pair of kopia's ObjectManager
// (cas-repository.go, repo/object_manager.go): compute the content hash
// first, skip the write entirely if that hash is already known, and only
// then run the codec pipeline and talk to the backend.
package chunkstore

import (
	"context"
	"fmt"

	"vaultstore/internal/blobenv"
	"vaultstore/internal/chunk"
	"vaultstore/internal/codec"
	"vaultstore/internal/header"
	"vaultstore/internal/store"
)

// Store reads and writes individual chunks, applying the configured codec
// pipeline and keeping the header's chunkmap/refcounts authoritative: the
// backend never tells the engine what references exist.
type Store struct {
	blob     store.Blob
	hdr      *header.Header
	pipeline codec.Pipeline
	key      codec.Key
}

// New returns a Store bound to hdr's chunkmap/refcounts and blob's backend.
// key is the repository master key; it is unused (and may be zero) when
// hdr.Config.Encryption is codec.EncryptionNone.
func New(blob store.Blob, hdr *header.Header, key codec.Key) *Store {
	return &Store{
		blob: blob,
		hdr:  hdr,
		pipeline: codec.Pipeline{
			Compression: hdr.Config.Compression,
			Encryption:  hdr.Config.Encryption,
		},
		key: key,
	}
}

// WriteChunk stores payload if its content hash is not already known,
// incrementing the refcount either way, and returns the ChunkRef a caller
// should append to an ObjectHandle's chunk list.
func (s *Store) WriteChunk(ctx context.Context, payload []byte) (chunk.Ref, error) {
	hash := chunk.Sum(payload)
	ref := chunk.Ref{Hash: hash, Size: uint64(len(payload))}

	if _, ok := s.hdr.BlobIDFor(hash); ok {
		s.hdr.IncRefcount(hash)
		return ref, nil
	}

	blobID, err := chunk.NewBlobID()
	if err != nil {
		return chunk.Ref{}, fmt.Errorf("chunkstore: write chunk: %w", err)
	}

	encoded, flags, err := s.pipeline.Encode(payload, s.key)
	if err != nil {
		return chunk.Ref{}, fmt.Errorf("chunkstore: write chunk: encode: %w", err)
	}
	env := blobenv.Envelope{Kind: blobenv.KindChunk, Version: blobenv.Version1, Flags: flags}
	body := append(env.Encode()[:], encoded...)

	if err := s.blob.Write(ctx, store.ChunkBlobID(blobID.String()), body); err != nil {
		return chunk.Ref{}, fmt.Errorf("chunkstore: write chunk: %w", err)
	}

	s.hdr.SetChunk(hash, blobID)
	return ref, nil
}

// ReadChunk fetches and decodes the payload ref describes, verifying that
// its content hash matches ref.Hash. A mismatch, or any codec failure,
// reports ErrInvalidData.
func (s *Store) ReadChunk(ctx context.Context, ref chunk.Ref) ([]byte, error) {
	blobID, ok := s.hdr.BlobIDFor(ref.Hash)
	if !ok {
		return nil, fmt.Errorf("chunkstore: read chunk %s: %w", ref.Hash, ErrInvalidData)
	}

	body, err := s.blob.Read(ctx, store.ChunkBlobID(blobID.String()))
	if err != nil {
		return nil, fmt.Errorf("chunkstore: read chunk %s: %w", ref.Hash, err)
	}

	env, err := blobenv.DecodeAndValidate(body, blobenv.KindChunk)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: read chunk %s: %w: %v", ref.Hash, ErrInvalidData, err)
	}

	payload, err := codec.Decode(body[blobenv.Size:], env.Flags, s.key)
	if err != nil {
		return nil, fmt.Errorf("chunkstore: read chunk %s: %w: %v", ref.Hash, ErrInvalidData, err)
	}

	if !ref.Verify(payload) {
		return nil, fmt.Errorf("chunkstore: read chunk %s: %w", ref.Hash, ErrInvalidData)
	}
	return payload, nil
}

// DropChunk decrements hash's refcount. Chunks left at refcount 0 are only
// candidates for reclamation — actual deletion happens in Repository.Clean,
// which recomputes reachability from the committed header rather than
// trusting refcounts at an arbitrary instant (see header.ReachableChunks).
func (s *Store) DropChunk(hash chunk.Hash) {
	s.hdr.DecRefcount(hash)
}

// VerifyChunk re-reads and re-hashes the chunk ref describes, reporting
// false (rather than an error) when the stored bytes don't match — the
// contract Repository.Verify needs to classify corruption without
// aborting the whole sweep.
func (s *Store) VerifyChunk(ctx context.Context, ref chunk.Ref) (bool, error) {
	_, err := s.ReadChunk(ctx, ref)
	if err != nil {
		if isInvalidData(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
