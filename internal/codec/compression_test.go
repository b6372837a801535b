package codec

import (
	"bytes"
	"testing"
)

func TestCompressionRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

	for _, kind := range []CompressionKind{CompressionNone, CompressionDeflate, CompressionLzma, CompressionLz4} {
		c := Compression{Kind: kind}
		compressed, err := c.Compress(data)
		if err != nil {
			t.Fatalf("kind %d: Compress: %v", kind, err)
		}
		out, err := c.Decompress(compressed)
		if err != nil {
			t.Fatalf("kind %d: Decompress: %v", kind, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("kind %d: round trip mismatch", kind)
		}
	}
}

func TestCompressionReducesSize(t *testing.T) {
	data := bytes.Repeat([]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), 1000)

	for _, kind := range []CompressionKind{CompressionDeflate, CompressionLzma, CompressionLz4} {
		c := Compression{Kind: kind}
		compressed, err := c.Compress(data)
		if err != nil {
			t.Fatalf("kind %d: Compress: %v", kind, err)
		}
		if len(compressed) >= len(data) {
			t.Fatalf("kind %d: expected compression to shrink highly repetitive data", kind)
		}
	}
}

func TestCompressionEmptyInput(t *testing.T) {
	for _, kind := range []CompressionKind{CompressionNone, CompressionDeflate, CompressionLzma, CompressionLz4} {
		c := Compression{Kind: kind}
		compressed, err := c.Compress(nil)
		if err != nil {
			t.Fatalf("kind %d: Compress(nil): %v", kind, err)
		}
		out, err := c.Decompress(compressed)
		if err != nil {
			t.Fatalf("kind %d: Decompress: %v", kind, err)
		}
		if len(out) != 0 {
			t.Fatalf("kind %d: expected empty round trip, got %d bytes", kind, len(out))
		}
	}
}
