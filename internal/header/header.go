// Package header defines the repository's committed state: the record
// serialized into each HEADER_<uuid> blob. The Header is authoritative for
// the chunkmap and refcounts — the BlobStore never tells the engine what
// references exist.
package header

import (
	"github.com/google/uuid"

	"vaultstore/internal/chunk"
	"vaultstore/internal/codec"
)

// FormatVersion is the current Header binary format version.
const FormatVersion uint32 = 1

// RepoConfig fixes the knobs a repository was created with: chunker
// parameters, compression, and encryption. It is part of the Header so
// every committed generation of a repository remains self-describing.
type RepoConfig struct {
	ChunkMinSize uint32 `msgpack:"chunk_min_size"`
	ChunkAvgSize uint32 `msgpack:"chunk_avg_size"`
	ChunkMaxSize uint32 `msgpack:"chunk_max_size"`

	Compression codec.Compression     `msgpack:"compression"`
	Encryption  codec.EncryptionKind  `msgpack:"encryption"`
	KDFParams   codec.KDFParams       `msgpack:"kdf_params"`
	KDFSalt     [codec.SaltSize]byte  `msgpack:"kdf_salt"`
	WrappedKey  []byte                `msgpack:"wrapped_key,omitempty"` // master key, AEAD-wrapped under the user key
}

// DefaultRepoConfig returns the chunker defaults with no encryption and no
// compression, matching codec.NoCompression and the chunker's
// chunk.DefaultConfig.
func DefaultRepoConfig() RepoConfig {
	cc := chunk.DefaultConfig()
	return RepoConfig{
		ChunkMinSize: cc.MinSize,
		ChunkAvgSize: cc.AvgSize,
		ChunkMaxSize: cc.MaxSize,
		Compression:  codec.NoCompression(),
		Encryption:   codec.EncryptionNone,
	}
}

// ObjectHandle is a named stream of bytes: an ordered list of chunk
// references plus the bookkeeping identity Insert/Get/GetMut need.
type ObjectHandle struct {
	HandleID   uint64       `msgpack:"handle_id"`
	RepoID     uuid.UUID    `msgpack:"repo_id"`
	InstanceID uuid.UUID    `msgpack:"instance_id"`
	Size       uint64       `msgpack:"size"`
	Chunks     []chunk.Ref  `msgpack:"chunks"`
}

// Header is the full committed repository state, part of every
// HEADER_<uuid> blob.
type Header struct {
	Version uint32    `msgpack:"version"`
	RepoID  uuid.UUID `msgpack:"repo_id"`
	Config  RepoConfig `msgpack:"config"`

	// DefaultInstanceID names the instance a freshly opened Repository
	// works within. It is minted once at Create and never changes, so
	// named objects inserted in one process session remain reachable by
	// the same name after a later Open — switching to a different
	// instance is a higher-level-façade feature this core doesn't expose.
	DefaultInstanceID uuid.UUID `msgpack:"default_instance_id"`

	// Instances maps instance UUID -> object name -> handle.
	Instances map[uuid.UUID]map[string]*ObjectHandle `msgpack:"instances"`

	// Chunkmap maps a chunk hash's hex string -> the blob id it is stored
	// under. Keyed by string, not chunk.Hash, since not every binary
	// encoding supports fixed-size byte arrays as map keys; use the
	// BlobIDFor/SetChunk/Refcount accessors below rather than the field
	// directly.
	Chunkmap map[string]chunk.BlobID `msgpack:"chunkmap"`

	// Refcounts maps a chunk hash's hex string -> the number of times the
	// chunk has been written or deduplicated. It is not decremented when a
	// splice or Remove drops a reference, so it can exceed the number of
	// live chunk-list entries; Clean uses ReachableChunks instead.
	Refcounts map[string]uint32 `msgpack:"refcounts"`

	HandleIDs *IdTable `msgpack:"handle_ids"`
}

// New creates an empty Header for a freshly created repository, with a
// fresh default instance ready to receive objects.
func New(repoID uuid.UUID, cfg RepoConfig) *Header {
	return &Header{
		Version:           FormatVersion,
		RepoID:            repoID,
		Config:            cfg,
		DefaultInstanceID: uuid.New(),
		Instances:         make(map[uuid.UUID]map[string]*ObjectHandle),
		Chunkmap:          make(map[string]chunk.BlobID),
		Refcounts:         make(map[string]uint32),
		HandleIDs:         NewIdTable(),
	}
}

// BlobIDFor looks up the blob id a chunk hash is stored under.
func (h *Header) BlobIDFor(hash chunk.Hash) (chunk.BlobID, bool) {
	id, ok := h.Chunkmap[hash.String()]
	return id, ok
}

// SetChunk records that hash is stored under blobID with an initial
// refcount of 1.
func (h *Header) SetChunk(hash chunk.Hash, blobID chunk.BlobID) {
	key := hash.String()
	h.Chunkmap[key] = blobID
	h.Refcounts[key] = 1
}

// Refcount returns the current reference count for hash.
func (h *Header) Refcount(hash chunk.Hash) uint32 {
	return h.Refcounts[hash.String()]
}

// IncRefcount increments hash's reference count and reports the new value.
func (h *Header) IncRefcount(hash chunk.Hash) uint32 {
	key := hash.String()
	h.Refcounts[key]++
	return h.Refcounts[key]
}

// DecRefcount decrements hash's reference count (floored at 0) and reports
// the new value.
func (h *Header) DecRefcount(hash chunk.Hash) uint32 {
	key := hash.String()
	if h.Refcounts[key] > 0 {
		h.Refcounts[key]--
	}
	return h.Refcounts[key]
}

// DeleteChunk removes hash from the chunkmap and refcounts entirely,
// called by clean once a chunk's blob has been removed from the backend.
func (h *Header) DeleteChunk(hash chunk.Hash) {
	key := hash.String()
	delete(h.Chunkmap, key)
	delete(h.Refcounts, key)
}

// Instance returns (creating if absent) the named-object map for
// instanceID.
func (h *Header) Instance(instanceID uuid.UUID) map[string]*ObjectHandle {
	m, ok := h.Instances[instanceID]
	if !ok {
		m = make(map[string]*ObjectHandle)
		h.Instances[instanceID] = m
	}
	return m
}

// Clone returns a deep copy of the Header, suitable for snapshotting
// in-memory state before attempting a commit.
func (h *Header) Clone() *Header {
	clone := &Header{
		Version:           h.Version,
		RepoID:            h.RepoID,
		Config:            h.Config,
		DefaultInstanceID: h.DefaultInstanceID,
		Instances:         make(map[uuid.UUID]map[string]*ObjectHandle, len(h.Instances)),
		Chunkmap:          make(map[string]chunk.BlobID, len(h.Chunkmap)),
		Refcounts:         make(map[string]uint32, len(h.Refcounts)),
		HandleIDs:         h.HandleIDs.Clone(),
	}
	clone.Config.WrappedKey = append([]byte(nil), h.Config.WrappedKey...)

	for instanceID, objects := range h.Instances {
		m := make(map[string]*ObjectHandle, len(objects))
		for name, handle := range objects {
			h2 := *handle
			h2.Chunks = append([]chunk.Ref(nil), handle.Chunks...)
			m[name] = &h2
		}
		clone.Instances[instanceID] = m
	}
	for hash, blobID := range h.Chunkmap {
		clone.Chunkmap[hash] = blobID
	}
	for hash, count := range h.Refcounts {
		clone.Refcounts[hash] = count
	}
	return clone
}

// ReachableChunks returns, keyed by hash, every ChunkRef referenced by at
// least one ObjectHandle across every instance. clean and verify use this
// — rather than trusting Refcounts at an arbitrary instant — to recompute
// which chunks are truly garbage without relying on eager refcount
// decrements.
func (h *Header) ReachableChunks() map[chunk.Hash]chunk.Ref {
	reachable := make(map[chunk.Hash]chunk.Ref)
	for _, objects := range h.Instances {
		for _, handle := range objects {
			for _, ref := range handle.Chunks {
				reachable[ref.Hash] = ref
			}
		}
	}
	return reachable
}
