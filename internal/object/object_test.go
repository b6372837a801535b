package object

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"

	"vaultstore/internal/chunk"
	"vaultstore/internal/chunkstore"
	"vaultstore/internal/codec"
	"vaultstore/internal/header"
	"vaultstore/internal/store/storemem"
)

func testChunkConfig() chunk.Config {
	return chunk.Config{MinSize: 4, AvgSize: 16, MaxSize: 64}
}

func newTestObject(t *testing.T) (*Object, *header.ObjectHandle) {
	t.Helper()
	cfg := header.DefaultRepoConfig()
	cfg.ChunkMinSize, cfg.ChunkAvgSize, cfg.ChunkMaxSize = 4, 16, 64
	hdr := header.New(uuid.New(), cfg)
	handle := &header.ObjectHandle{RepoID: hdr.RepoID}
	cs := chunkstore.New(storemem.New(), hdr, codec.Key{})
	obj := New(context.Background(), hdr.RepoID, handle, cs, testChunkConfig())
	return obj, handle
}

func readAll(t *testing.T, obj *Object) []byte {
	t.Helper()
	if _, err := obj.Seek(SeekFromStart, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	var out bytes.Buffer
	buf := make([]byte, 8)
	for {
		n, err := obj.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			break
		}
		if n == 0 {
			break
		}
	}
	return out.Bytes()
}

func TestObjectWriteReadRoundTrip(t *testing.T) {
	obj, _ := newTestObject(t)
	data := []byte("0123456789ABCDEF")

	if _, err := obj.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if obj.Size() != uint64(len(data)) {
		t.Fatalf("Size() = %d, want %d", obj.Size(), len(data))
	}
	if got := readAll(t, obj); !bytes.Equal(got, data) {
		t.Fatalf("readAll = %q, want %q", got, data)
	}
}

func TestObjectSpliceMidEdit(t *testing.T) {
	obj, _ := newTestObject(t)
	if _, err := obj.Write([]byte("Hello, World!")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if _, err := obj.Seek(SeekFromStart, 7); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := obj.Write([]byte("there")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "Hello, there!"
	if got := readAll(t, obj); string(got) != want {
		t.Fatalf("readAll = %q, want %q", got, want)
	}
	if obj.Size() != uint64(len(want)) {
		t.Fatalf("Size() = %d, want %d", obj.Size(), len(want))
	}
}

func TestObjectTruncate(t *testing.T) {
	obj, _ := newTestObject(t)
	if _, err := obj.Write([]byte("Hello, there!")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if err := obj.Truncate(5); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if obj.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", obj.Size())
	}
	if got := readAll(t, obj); string(got) != "Hello" {
		t.Fatalf("readAll = %q, want %q", got, "Hello")
	}
}

func TestObjectTruncateNoOpWhenGrowing(t *testing.T) {
	obj, _ := newTestObject(t)
	if _, err := obj.Write([]byte("short")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := obj.Truncate(100); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if obj.Size() != 5 {
		t.Fatalf("Size() = %d, want unchanged 5", obj.Size())
	}
}

func TestObjectSeekBounds(t *testing.T) {
	obj, _ := newTestObject(t)
	if _, err := obj.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if pos, err := obj.Seek(SeekFromStart, 100); err != nil || pos != 10 {
		t.Fatalf("Seek past end = (%d, %v), want (10, nil)", pos, err)
	}
	if pos, err := obj.Seek(SeekFromEnd, 4); err != nil || pos != 6 {
		t.Fatalf("Seek from end = (%d, %v), want (6, nil)", pos, err)
	}
	if _, err := obj.Seek(SeekFromEnd, 11); err == nil {
		t.Fatal("Seek from end past start did not error")
	}
	if _, err := obj.Seek(SeekFromCurrent, -100); err == nil {
		t.Fatal("Seek to negative position did not error")
	}
}

func TestObjectVerifyDetectsCorruption(t *testing.T) {
	blob := storemem.New()
	cfg := header.DefaultRepoConfig()
	cfg.ChunkMinSize, cfg.ChunkAvgSize, cfg.ChunkMaxSize = 4, 16, 64
	hdr := header.New(uuid.New(), cfg)
	handle := &header.ObjectHandle{RepoID: hdr.RepoID}
	cs := chunkstore.New(blob, hdr, codec.Key{})
	obj := New(context.Background(), hdr.RepoID, handle, cs, testChunkConfig())

	if _, err := obj.Write(bytes.Repeat([]byte("x"), 100)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ok, err := obj.Verify()
	if err != nil || !ok {
		t.Fatalf("Verify before corruption = (%v, %v), want (true, nil)", ok, err)
	}

	blobID, _ := hdr.BlobIDFor(handle.Chunks[0].Hash)
	id := "CHUNK_" + blobID.String()
	ctx := context.Background()
	body, err := blob.Read(ctx, id)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	body[len(body)-1] ^= 0xFF
	if err := blob.Write(ctx, id, body); err != nil {
		t.Fatalf("write corrupted: %v", err)
	}

	ok, err = obj.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("Verify did not detect corruption")
	}
}

func TestContentIDDiffersAcrossRepos(t *testing.T) {
	objA, _ := newTestObject(t)
	objB, _ := newTestObject(t)

	for _, obj := range []*Object{objA, objB} {
		if _, err := obj.Write([]byte("same bytes, different repos")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := obj.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	}

	if objA.ContentID().Equal(objB.ContentID()) {
		t.Fatal("ContentID equal across distinct repositories")
	}
}

func TestContentIDCompareContents(t *testing.T) {
	obj, _ := newTestObject(t)
	data := []byte("compare against an external reader")
	if _, err := obj.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	ok, err := obj.CompareContents(bytes.NewReader(data))
	if err != nil || !ok {
		t.Fatalf("CompareContents identical = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = obj.CompareContents(bytes.NewReader(append(append([]byte{}, data...), 'x')))
	if err != nil || ok {
		t.Fatalf("CompareContents with extra byte = (%v, %v), want (false, nil)", ok, err)
	}

	ok, err = obj.CompareContents(bytes.NewReader(data[:len(data)-1]))
	if err != nil || ok {
		t.Fatalf("CompareContents short = (%v, %v), want (false, nil)", ok, err)
	}
}
