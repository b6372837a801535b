package chunkstore

import "errors"

// ErrInvalidData is the sentinel wrapped into every error ReadChunk/
// VerifyChunk return because of a hash mismatch or codec failure.
var ErrInvalidData = errors.New("chunkstore: invalid data")

func isInvalidData(err error) bool {
	return errors.Is(err, ErrInvalidData)
}
