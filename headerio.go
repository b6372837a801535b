package vaultstore

import (
	"encoding/binary"
	"fmt"

	"vaultstore/internal/blobenv"
	"vaultstore/internal/codec"
	"vaultstore/internal/header"
)

// Header blobs share the chunk blob envelope (blobenv) but carry one extra
// plaintext section between the envelope and the codec-encoded payload: a
// uint32 length-prefixed Preamble (RepoConfig, including the encryption
// bootstrap material), so Open can derive the master key before it has to
// decode anything the codec pipeline protects.
//
//	[envelope: 4 bytes][uint32 preamble length][preamble bytes][codec-encoded body]

// encodeHeaderBlob serializes hdr into the on-disk form written under a
// HEADER_<uuid> blob id, encoding the body (everything but the Preamble's
// format version, repository id and RepoConfig) through the repository's codec pipeline under key.
func encodeHeaderBlob(hdr *header.Header, key codec.Key) ([]byte, error) {
	preamble, err := hdr.MarshalPreamble()
	if err != nil {
		return nil, fmt.Errorf("vaultstore: encode header: %w", err)
	}
	body, err := hdr.MarshalBody()
	if err != nil {
		return nil, fmt.Errorf("vaultstore: encode header: %w", err)
	}

	pipeline := codec.Pipeline{Compression: hdr.Config.Compression, Encryption: hdr.Config.Encryption}
	encodedBody, flags, err := pipeline.Encode(body, key)
	if err != nil {
		return nil, fmt.Errorf("vaultstore: encode header: %w", err)
	}

	env := blobenv.Envelope{Kind: blobenv.KindHeader, Version: blobenv.Version1, Flags: flags}
	out := make([]byte, 0, blobenv.Size+4+len(preamble)+len(encodedBody))
	out = append(out, env.Encode()[:]...)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(preamble)))
	out = append(out, lenBuf[:]...)
	out = append(out, preamble...)
	out = append(out, encodedBody...)
	return out, nil
}

// splitHeaderBlob validates the envelope and pulls the plaintext Preamble
// and still-encoded Body out of a header blob's bytes.
func splitHeaderBlob(body []byte) (header.Preamble, blobenv.Envelope, []byte, error) {
	env, err := blobenv.DecodeAndValidate(body, blobenv.KindHeader)
	if err != nil {
		return header.Preamble{}, blobenv.Envelope{}, nil, fmt.Errorf("vaultstore: decode header: %w", err)
	}
	rest := body[blobenv.Size:]
	if len(rest) < 4 {
		return header.Preamble{}, blobenv.Envelope{}, nil, fmt.Errorf("vaultstore: decode header: truncated preamble length")
	}
	preambleLen := binary.LittleEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint64(preambleLen) > uint64(len(rest)) {
		return header.Preamble{}, blobenv.Envelope{}, nil, fmt.Errorf("vaultstore: decode header: truncated preamble")
	}
	preambleBytes, encodedBody := rest[:preambleLen], rest[preambleLen:]

	preamble, err := header.UnmarshalPreamble(preambleBytes)
	if err != nil {
		return header.Preamble{}, blobenv.Envelope{}, nil, fmt.Errorf("vaultstore: decode header: %w", err)
	}
	return preamble, env, encodedBody, nil
}

// decodeHeaderBlob inverts encodeHeaderBlob, deriving the master key from
// password when the repository is encrypted.
func decodeHeaderBlob(body []byte, password string) (*header.Header, codec.Key, error) {
	preamble, env, encodedBody, err := splitHeaderBlob(body)
	if err != nil {
		return nil, codec.Key{}, err
	}

	var key codec.Key
	if preamble.Config.Encryption == codec.EncryptionAEAD {
		if len(preamble.Config.WrappedKey) == 0 {
			return nil, codec.Key{}, ErrKeyNotFound
		}
		wrappingKey := codec.DeriveKey(password, preamble.Config.KDFSalt, preamble.Config.KDFParams)
		key, err = codec.UnwrapMasterKey(wrappingKey, preamble.Config.WrappedKey)
		if err != nil {
			return nil, codec.Key{}, ErrWrongPassword
		}
	}

	plainBody, err := codec.Decode(encodedBody, env.Flags, key)
	if err != nil {
		return nil, codec.Key{}, fmt.Errorf("vaultstore: decode header: %w: %v", ErrInvalidData, err)
	}

	hdr, err := header.AssembleHeader(preamble, plainBody)
	if err != nil {
		return nil, codec.Key{}, fmt.Errorf("vaultstore: decode header: %w", err)
	}
	return hdr, key, nil
}

// decodeHeaderBlobWithKey inverts encodeHeaderBlob using an already-known
// master key, skipping the password bootstrap entirely — used by Rollback,
// which never needs to re-derive a key it already holds for the lifetime
// of the open Repository.
func decodeHeaderBlobWithKey(body []byte, key codec.Key) (*header.Header, error) {
	preamble, env, encodedBody, err := splitHeaderBlob(body)
	if err != nil {
		return nil, err
	}
	plainBody, err := codec.Decode(encodedBody, env.Flags, key)
	if err != nil {
		return nil, fmt.Errorf("vaultstore: decode header: %w: %v", ErrInvalidData, err)
	}
	hdr, err := header.AssembleHeader(preamble, plainBody)
	if err != nil {
		return nil, fmt.Errorf("vaultstore: decode header: %w", err)
	}
	return hdr, nil
}
