package object

import "errors"

var (
	// ErrInvalidInput is returned by Seek when the requested position
	// cannot be resolved to a valid offset (a negative absolute position,
	// or a SeekFromEnd offset past the start of the object).
	ErrInvalidInput = errors.New("object: invalid input")
	// ErrSerialize wraps a MessagePack encoding failure in Serialize.
	ErrSerialize = errors.New("object: serialize")
	// ErrDeserialize wraps a MessagePack decoding failure in Deserialize.
	ErrDeserialize = errors.New("object: deserialize")
)
