package codec

import (
	"bytes"
	"testing"

	"vaultstore/internal/blobenv"
)

func TestPipelineRoundTripAllCombinations(t *testing.T) {
	key, err := NewRandomKey()
	if err != nil {
		t.Fatalf("NewRandomKey: %v", err)
	}
	plaintext := bytes.Repeat([]byte("vaultstore chunk payload "), 500)

	cases := []Pipeline{
		{Compression: NoCompression(), Encryption: EncryptionNone},
		{Compression: Compression{Kind: CompressionDeflate}, Encryption: EncryptionNone},
		{Compression: NoCompression(), Encryption: EncryptionAEAD},
		{Compression: Compression{Kind: CompressionLzma}, Encryption: EncryptionAEAD},
		{Compression: Compression{Kind: CompressionLz4}, Encryption: EncryptionAEAD},
	}

	for _, p := range cases {
		payload, flags, err := p.Encode(plaintext, key)
		if err != nil {
			t.Fatalf("%+v: Encode: %v", p, err)
		}

		wantCompressed := p.Compression.Kind != CompressionNone
		wantEncrypted := p.Encryption == EncryptionAEAD
		if (flags&blobenv.FlagCompressed != 0) != wantCompressed {
			t.Fatalf("%+v: unexpected FlagCompressed", p)
		}
		if (flags&blobenv.FlagEncrypted != 0) != wantEncrypted {
			t.Fatalf("%+v: unexpected FlagEncrypted", p)
		}

		out, err := Decode(payload, flags, key)
		if err != nil {
			t.Fatalf("%+v: Decode: %v", p, err)
		}
		if !bytes.Equal(out, plaintext) {
			t.Fatalf("%+v: round trip mismatch", p)
		}
	}
}

func TestDecodeWrongKeyFailsWhenEncrypted(t *testing.T) {
	key, _ := NewRandomKey()
	other, _ := NewRandomKey()
	p := Pipeline{Compression: NoCompression(), Encryption: EncryptionAEAD}

	payload, flags, err := p.Encode([]byte("secret content"), key)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(payload, flags, other); err == nil {
		t.Fatal("expected Decode to fail under the wrong key")
	}
}
