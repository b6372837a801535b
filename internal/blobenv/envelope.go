// Package blobenv provides the small fixed header prepended to every blob
// this library writes to a Store: chunk payloads and repository headers
// alike. The header records which codec stages were applied so a reader
// can invert the pipeline without consulting the repository Header.
package blobenv

import "errors"

// Envelope layout (4 bytes):
//
//	signature (1 byte, 'v' = 0x76)
//	kind      (1 byte, identifies what the payload after the header is)
//	version   (1 byte, envelope format version)
//	flags     (1 byte, FlagCompressed | FlagEncrypted)
const (
	Signature = 'v'
	Size      = 4

	KindChunk  = 'c'
	KindHeader = 'h'

	Version1 = 1

	FlagCompressed byte = 1 << 0
	FlagEncrypted  byte = 1 << 1
)

var (
	ErrTooSmall          = errors.New("blobenv: buffer smaller than envelope")
	ErrSignatureMismatch = errors.New("blobenv: signature mismatch")
	ErrKindMismatch      = errors.New("blobenv: kind mismatch")
	ErrVersionMismatch   = errors.New("blobenv: unsupported envelope version")
)

// Envelope is the common 4-byte header written before the encoded payload
// of every chunk blob and every header blob.
type Envelope struct {
	Kind    byte
	Version byte
	Flags   byte
}

// Compressed reports whether FlagCompressed is set.
func (e Envelope) Compressed() bool { return e.Flags&FlagCompressed != 0 }

// Encrypted reports whether FlagEncrypted is set.
func (e Envelope) Encrypted() bool { return e.Flags&FlagEncrypted != 0 }

// Encode returns the 4-byte on-disk representation of e.
func (e Envelope) Encode() [Size]byte {
	return [Size]byte{Signature, e.Kind, e.Version, e.Flags}
}

// EncodeInto writes the envelope into buf at offset 0 and returns the
// number of bytes written (always Size).
func (e Envelope) EncodeInto(buf []byte) int {
	buf[0] = Signature
	buf[1] = e.Kind
	buf[2] = e.Version
	buf[3] = e.Flags
	return Size
}

// Decode reads an envelope from the front of buf.
func Decode(buf []byte) (Envelope, error) {
	if len(buf) < Size {
		return Envelope{}, ErrTooSmall
	}
	if buf[0] != Signature {
		return Envelope{}, ErrSignatureMismatch
	}
	return Envelope{
		Kind:    buf[1],
		Version: buf[2],
		Flags:   buf[3],
	}, nil
}

// DecodeAndValidate reads an envelope and checks its kind and version.
func DecodeAndValidate(buf []byte, expectedKind byte) (Envelope, error) {
	e, err := Decode(buf)
	if err != nil {
		return Envelope{}, err
	}
	if e.Kind != expectedKind {
		return Envelope{}, ErrKindMismatch
	}
	if e.Version != Version1 {
		return Envelope{}, ErrVersionMismatch
	}
	return e, nil
}
