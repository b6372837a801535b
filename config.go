package vaultstore

import (
	"vaultstore/internal/chunk"
	"vaultstore/internal/codec"
	"vaultstore/internal/header"
	"vaultstore/internal/store"
)

// CompressionKind selects the compression stage of the codec pipeline a
// repository is created with.
type CompressionKind = codec.CompressionKind

const (
	CompressionNone    = codec.CompressionNone
	CompressionDeflate = codec.CompressionDeflate
	CompressionLzma    = codec.CompressionLzma
	CompressionLz4     = codec.CompressionLz4
)

// Compression is a configured compression stage: a kind plus the level
// that kind uses.
type Compression = codec.Compression

// EncryptionKind selects the encryption stage of the codec pipeline.
type EncryptionKind = codec.EncryptionKind

const (
	EncryptionNone EncryptionKind = codec.EncryptionNone
	EncryptionAEAD EncryptionKind = codec.EncryptionAEAD
)

// LockStrategy selects what Open does when the repository is already
// locked by another instance.
type LockStrategy = store.LockStrategy

const (
	LockAbort = store.LockAbort
	LockWait  = store.LockWait
	LockForce = store.LockForce
)

// Config fixes the knobs a repository is created with: content-defined
// chunking parameters and the codec pipeline protecting both chunks and
// the committed header. It is immutable after Create — Open recovers it
// from the stored Header rather than taking it as a parameter.
type Config struct {
	ChunkMinSize uint32
	ChunkAvgSize uint32
	ChunkMaxSize uint32

	Compression Compression
	Encryption  EncryptionKind

	// Password is required when Encryption is EncryptionAEAD. It is
	// stretched through Argon2id into the key that wraps the repository's
	// randomly generated master key; it is never stored.
	Password string
}

// DefaultConfig returns the chunker defaults with no compression and no
// encryption.
func DefaultConfig() Config {
	cc := chunk.DefaultConfig()
	return Config{
		ChunkMinSize: cc.MinSize,
		ChunkAvgSize: cc.AvgSize,
		ChunkMaxSize: cc.MaxSize,
		Compression:  codec.NoCompression(),
		Encryption:   codec.EncryptionNone,
	}
}

func (c Config) chunkConfig() chunk.Config {
	return chunk.Config{MinSize: c.ChunkMinSize, AvgSize: c.ChunkAvgSize, MaxSize: c.ChunkMaxSize}
}

func (c Config) repoConfig() header.RepoConfig {
	return header.RepoConfig{
		ChunkMinSize: c.ChunkMinSize,
		ChunkAvgSize: c.ChunkAvgSize,
		ChunkMaxSize: c.ChunkMaxSize,
		Compression:  c.Compression,
		Encryption:   c.Encryption,
	}
}
