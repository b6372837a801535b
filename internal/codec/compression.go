// Package codec implements the two codec stages every blob passes through
// on its way to and from a Store: compression and encryption. Both stages
// are tagged variants, not open extension points — adding a new algorithm
// means adding a case here, never registering a plugin.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// CompressionKind selects the compression stage of the codec pipeline.
type CompressionKind byte

const (
	CompressionNone CompressionKind = iota
	CompressionDeflate
	CompressionLzma
	CompressionLz4
)

// Compression is one configured compression stage: a kind plus the level
// that kind uses. Level is ignored by CompressionNone and by
// CompressionLzma, which always uses the lzma package's default writer
// settings.
type Compression struct {
	Kind  CompressionKind
	Level int
}

// NoCompression is the zero-cost passthrough stage.
func NoCompression() Compression { return Compression{Kind: CompressionNone} }

// Compress returns the compressed form of data, or an equal-length copy of
// data when Kind is CompressionNone.
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c.Kind {
	case CompressionNone:
		return append([]byte(nil), data...), nil

	case CompressionDeflate:
		var buf bytes.Buffer
		level := c.Level
		if level == 0 {
			level = flate.DefaultCompression
		}
		w, err := flate.NewWriter(&buf, level)
		if err != nil {
			return nil, fmt.Errorf("codec: deflate writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("codec: deflate write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("codec: deflate close: %w", err)
		}
		return buf.Bytes(), nil

	case CompressionLzma:
		var buf bytes.Buffer
		cfg := lzma.WriterConfig{}
		w, err := cfg.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("codec: lzma writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("codec: lzma write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("codec: lzma close: %w", err)
		}
		return buf.Bytes(), nil

	case CompressionLz4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if c.Level != 0 {
			if err := w.Apply(lz4.CompressionLevelOption(lz4.CompressionLevel(c.Level))); err != nil {
				return nil, fmt.Errorf("codec: lz4 options: %w", err)
			}
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("codec: lz4 write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("codec: lz4 close: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("codec: unsupported compression kind %d", c.Kind)
	}
}

// Decompress inverts Compress.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c.Kind {
	case CompressionNone:
		return append([]byte(nil), data...), nil

	case CompressionDeflate:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("codec: deflate read: %w", err)
		}
		return out, nil

	case CompressionLzma:
		r, err := lzma.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("codec: lzma reader: %w", err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("codec: lzma read: %w", err)
		}
		return out, nil

	case CompressionLz4:
		r := lz4.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4 read: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("codec: unsupported compression kind %d", c.Kind)
	}
}
