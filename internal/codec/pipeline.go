package codec

import (
	"fmt"

	"vaultstore/internal/blobenv"
)

// Pipeline is the configured compress-then-encrypt stage order applied to
// every chunk and header blob in a repository. A repository carries exactly
// one Pipeline, fixed at creation time and stored in its header.
type Pipeline struct {
	Compression Compression
	Encryption  EncryptionKind
}

// Encode runs plaintext through compression (if configured) then encryption
// (if configured), returning the payload to write after the blob envelope
// and the flag bits the envelope should carry so Decode can invert it.
//
// When compression runs, its kind is prefixed as a single byte ahead of the
// compressed data (before encryption, if any), so a later Decode can invert
// the pipeline from the envelope's flags and this one byte alone, without
// consulting the repository header's configured Pipeline — useful during
// verify or a future format migration where the configured Pipeline may no
// longer match what an old blob was actually written with.
func (p Pipeline) Encode(plaintext []byte, key Key) (payload []byte, flags byte, err error) {
	payload = plaintext
	if p.Compression.Kind != CompressionNone {
		compressed, cerr := p.Compression.Compress(payload)
		if cerr != nil {
			return nil, 0, cerr
		}
		payload = append([]byte{byte(p.Compression.Kind)}, compressed...)
		flags |= blobenv.FlagCompressed
	}
	if p.Encryption == EncryptionAEAD {
		payload, err = Seal(key, payload)
		if err != nil {
			return nil, 0, err
		}
		flags |= blobenv.FlagEncrypted
	}
	return payload, flags, nil
}

// Decode inverts Encode. flags comes from the blob envelope that preceded
// payload in the stored blob.
func Decode(payload []byte, flags byte, key Key) ([]byte, error) {
	out := payload
	var err error
	if flags&blobenv.FlagEncrypted != 0 {
		out, err = Open(key, out)
		if err != nil {
			return nil, fmt.Errorf("codec: decrypt: %w", err)
		}
	}
	if flags&blobenv.FlagCompressed != 0 {
		if len(out) < 1 {
			return nil, fmt.Errorf("codec: compressed payload missing kind byte")
		}
		kind := CompressionKind(out[0])
		out, err = (Compression{Kind: kind}).Decompress(out[1:])
		if err != nil {
			return nil, fmt.Errorf("codec: decompress: %w", err)
		}
	}
	return out, nil
}
