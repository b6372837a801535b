package header

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"vaultstore/internal/chunk"
)

// Preamble is the portion of a Header blob that is never run through the
// codec pipeline: the format version, repository id, and RepoConfig
// (chunker parameters, and the encryption bootstrap material — KDF
// params/salt and the password-wrapped master key). It must be readable
// before the master key is known, since deriving that key is exactly what
// the preamble's contents are for — the same chicken-and-egg problem
// every encrypted-backup tool with a password-derived key solves by
// keeping its key-wrapping envelope outside the encrypted payload.
type Preamble struct {
	Version uint32    `msgpack:"version"`
	RepoID  uuid.UUID `msgpack:"repo_id"`
	Config  RepoConfig `msgpack:"config"`
}

// Body is the rest of the Header: everything the codec pipeline protects
// once the master key has been recovered from the Preamble.
type Body struct {
	DefaultInstanceID uuid.UUID                              `msgpack:"default_instance_id"`
	Instances         map[uuid.UUID]map[string]*ObjectHandle `msgpack:"instances"`
	Chunkmap          map[string]chunk.BlobID                `msgpack:"chunkmap"`
	Refcounts         map[string]uint32                      `msgpack:"refcounts"`
	HandleIDs         *IdTable                                `msgpack:"handle_ids"`
}

// MarshalPreamble serializes the plaintext-eligible portion of h.
func (h *Header) MarshalPreamble() ([]byte, error) {
	data, err := msgpack.Marshal(Preamble{Version: h.Version, RepoID: h.RepoID, Config: h.Config})
	if err != nil {
		return nil, fmt.Errorf("header: marshal preamble: %w", err)
	}
	return data, nil
}

// MarshalBody serializes the portion of h that the codec pipeline
// protects.
func (h *Header) MarshalBody() ([]byte, error) {
	data, err := msgpack.Marshal(Body{
		DefaultInstanceID: h.DefaultInstanceID,
		Instances:         h.Instances,
		Chunkmap:          h.Chunkmap,
		Refcounts:         h.Refcounts,
		HandleIDs:         h.HandleIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("header: marshal body: %w", err)
	}
	return data, nil
}

// UnmarshalPreamble decodes just the Preamble, letting a caller recover
// RepoConfig (and therefore derive the master key) before the rest of the
// Header can be decoded.
func UnmarshalPreamble(data []byte) (Preamble, error) {
	var p Preamble
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return Preamble{}, fmt.Errorf("header: unmarshal preamble: %w", err)
	}
	return p, nil
}

// AssembleHeader combines a decoded Preamble and Body into a Header.
func AssembleHeader(p Preamble, body []byte) (*Header, error) {
	var b Body
	if err := msgpack.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("header: unmarshal body: %w", err)
	}
	h := &Header{
		Version:           p.Version,
		RepoID:            p.RepoID,
		Config:            p.Config,
		DefaultInstanceID: b.DefaultInstanceID,
		Instances:         b.Instances,
		Chunkmap:          b.Chunkmap,
		Refcounts:         b.Refcounts,
		HandleIDs:         b.HandleIDs,
	}
	if h.Instances == nil {
		h.Instances = make(map[uuid.UUID]map[string]*ObjectHandle)
	}
	if h.Chunkmap == nil {
		h.Chunkmap = make(map[string]chunk.BlobID)
	}
	if h.Refcounts == nil {
		h.Refcounts = make(map[string]uint32)
	}
	if h.HandleIDs == nil {
		h.HandleIDs = NewIdTable()
	}
	return h, nil
}
