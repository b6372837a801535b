package vaultstore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"vaultstore"
	"vaultstore/internal/store/storefile"
	"vaultstore/internal/store/storemem"
)

func readAll(t *testing.T, r interface {
	Read([]byte) (int, error)
}) []byte {
	t.Helper()
	var buf bytes.Buffer
	tmp := make([]byte, 4096)
	for {
		n, err := r.Read(tmp)
		buf.Write(tmp[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	return buf.Bytes()
}

func newTestRepo(t *testing.T) (*vaultstore.Repository, func()) {
	t.Helper()
	blob := storemem.New()
	ctx := context.Background()
	repo, err := vaultstore.Create(ctx, blob, vaultstore.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return repo, func() { repo.Close(ctx) }
}

// S1 write-read
func TestS1WriteRead(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	obj, err := repo.Insert(ctx, "a")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	want := make([]byte, 16)
	for i := range want {
		want[i] = byte(i)
	}
	if _, err := obj.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if obj.Size() != 16 {
		t.Fatalf("size = %d, want 16", obj.Size())
	}

	ro, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := readAll(t, ro)
	if !bytes.Equal(got, want) {
		t.Fatalf("read all = %x, want %x", got, want)
	}
}

// S2 chunk dedup
func TestS2ChunkDedup(t *testing.T) {
	blob := storemem.New()
	ctx := context.Background()
	cfg := vaultstore.DefaultConfig()
	cfg.ChunkMinSize = 1 << 14
	cfg.ChunkAvgSize = 1 << 16
	cfg.ChunkMaxSize = 1 << 18

	repo, err := vaultstore.Create(ctx, blob, cfg, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer repo.Close(ctx)

	pattern := bytes.Repeat([]byte("acid"), (1<<20)/4)

	x, err := repo.Insert(ctx, "x")
	if err != nil {
		t.Fatalf("insert x: %v", err)
	}
	if _, err := x.Write(pattern); err != nil {
		t.Fatalf("write x: %v", err)
	}
	if err := x.Flush(); err != nil {
		t.Fatalf("flush x: %v", err)
	}

	countChunkBlobs := func() int {
		n := 0
		for id, err := range blob.List(ctx) {
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(id) > 6 && id[:6] == "CHUNK_" {
				n++
			}
		}
		return n
	}
	before := countChunkBlobs()

	y, err := repo.Insert(ctx, "y")
	if err != nil {
		t.Fatalf("insert y: %v", err)
	}
	if _, err := y.Write(pattern); err != nil {
		t.Fatalf("write y: %v", err)
	}
	if err := y.Flush(); err != nil {
		t.Fatalf("flush y: %v", err)
	}
	after := countChunkBlobs()

	if after != before {
		t.Fatalf("chunk blob count grew by %d on second flush, want 0", after-before)
	}
}

// S3 splice
func TestS3Splice(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	f, err := repo.Insert(ctx, "f")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := f.Write([]byte("Hello, World!")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if _, err := f.Seek(vaultstore.SeekFromStart, 7); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := f.Write([]byte("there")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if _, err := f.Seek(vaultstore.SeekFromStart, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	got := readAll(t, f)
	want := "Hello, there!"
	if string(got) != want {
		t.Fatalf("read all = %q, want %q", got, want)
	}
	if len(got) != 13 {
		t.Fatalf("len = %d, want 13", len(got))
	}
}

// S4 truncate (continues from S3's splice result)
func TestS4Truncate(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	f, err := repo.Insert(ctx, "f")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := f.Write([]byte("Hello, World!")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if _, err := f.Seek(vaultstore.SeekFromStart, 7); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := f.Write([]byte("there")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if err := f.Truncate(5); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if f.Size() != 5 {
		t.Fatalf("size = %d, want 5", f.Size())
	}
	if _, err := f.Seek(vaultstore.SeekFromStart, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	got := readAll(t, f)
	if string(got) != "Hello" {
		t.Fatalf("read all = %q, want %q", got, "Hello")
	}
}

// S5 commit/rollback
func TestS5CommitRollback(t *testing.T) {
	blob := storemem.New()
	ctx := context.Background()
	cfg := vaultstore.DefaultConfig()

	repo, err := vaultstore.Create(ctx, blob, cfg, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	k, err := repo.Insert(ctx, "k")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := k.Write([]byte("A")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := k.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	k2, err := repo.GetMut(ctx, "k")
	if err != nil {
		t.Fatalf("getmut: %v", err)
	}
	if err := k2.Truncate(0); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if _, err := k2.Write([]byte("B")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := k2.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if err := repo.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if err := repo.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := vaultstore.Open(ctx, blob, "", vaultstore.LockAbort, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close(ctx)

	ro, err := reopened.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := readAll(t, ro)
	if string(got) != "A" {
		t.Fatalf("read all after rollback+reopen = %q, want %q", got, "A")
	}
}

// S6 corruption
func TestS6Corruption(t *testing.T) {
	blob := storemem.New()
	ctx := context.Background()
	repo, err := vaultstore.Create(ctx, blob, vaultstore.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer repo.Close(ctx)

	obj, err := repo.Insert(ctx, "obj")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	payload := bytes.Repeat([]byte{0xAB}, 100)
	if _, err := obj.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var chunkBlobID string
	for id, err := range blob.List(ctx) {
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(id) > 6 && id[:6] == "CHUNK_" {
			chunkBlobID = id
			break
		}
	}
	if chunkBlobID == "" {
		t.Fatal("no chunk blob found")
	}
	data, err := blob.Read(ctx, chunkBlobID)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := blob.Write(ctx, chunkBlobID, data); err != nil {
		t.Fatalf("write raw: %v", err)
	}

	corrupted, err := repo.Verify(ctx, true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(corrupted) == 0 {
		t.Fatal("verify did not detect corruption")
	}

	ro, err := repo.Get(ctx, "obj")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	tmp := make([]byte, 100)
	_, err = ro.Read(tmp)
	if !errors.Is(err, vaultstore.ErrInvalidData) {
		t.Fatalf("read corrupted chunk: got %v, want ErrInvalidData", err)
	}
}

// Invariant 2: idempotent commit.
func TestCommitIsIdempotent(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	obj, err := repo.Insert(ctx, "a")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := obj.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit 1: %v", err)
	}
	size1 := obj.Size()
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit 2: %v", err)
	}
	if obj.Size() != size1 {
		t.Fatalf("size changed across idempotent commit: %d vs %d", size1, obj.Size())
	}
}

// Invariant 4: seek bounds.
func TestSeekBoundsInvariant(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	obj, err := repo.Insert(ctx, "a")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := obj.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pos, err := obj.Seek(vaultstore.SeekFromStart, 100)
	if err != nil {
		t.Fatalf("seek past end: %v", err)
	}
	if pos != 10 {
		t.Fatalf("seek past end = %d, want 10 (clamped to size)", pos)
	}

	if _, err := obj.Seek(vaultstore.SeekFromEnd, 100); !errors.Is(err, vaultstore.ErrInvalidInput) {
		t.Fatalf("seek before start via SeekFromEnd: got %v, want ErrInvalidInput", err)
	}

	if _, err := obj.Seek(vaultstore.SeekFromStart, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := obj.Seek(vaultstore.SeekFromCurrent, -1); !errors.Is(err, vaultstore.ErrInvalidInput) {
		t.Fatalf("seek to negative position: got %v, want ErrInvalidInput", err)
	}
}

// Invariant 6 and 7: ContentID soundness within and across repositories.
func TestContentIDSoundness(t *testing.T) {
	ctx := context.Background()

	makeRepo := func(t *testing.T) *vaultstore.Repository {
		repo, err := vaultstore.Create(ctx, storemem.New(), vaultstore.DefaultConfig(), nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return repo
	}
	write := func(t *testing.T, repo *vaultstore.Repository, name string, data []byte) *vaultstore.Object {
		obj, err := repo.Insert(ctx, name)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if _, err := obj.Write(data); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := obj.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}
		return obj
	}

	repoA := makeRepo(t)
	defer repoA.Close(ctx)
	a1 := write(t, repoA, "a1", []byte("same content"))
	a2 := write(t, repoA, "a2", []byte("same content"))
	a3 := write(t, repoA, "a3", []byte("different content"))

	if !a1.ContentID().Equal(a2.ContentID()) {
		t.Fatal("equal content within one repo produced unequal ContentIDs")
	}
	if a1.ContentID().Equal(a3.ContentID()) {
		t.Fatal("distinct content within one repo produced equal ContentIDs")
	}

	repoB := makeRepo(t)
	defer repoB.Close(ctx)
	b1 := write(t, repoB, "b1", []byte("same content"))
	if a1.ContentID().Equal(b1.ContentID()) {
		t.Fatal("two independently created repos produced an equal ContentID for the same bytes")
	}
}

// Invariant 9: crash safety, reopen half only. A fresh storefile.Store over
// the same directory stands in for a restarted process: after a Commit and
// Close, Open must recover exactly the committed generation. No Commit is
// interrupted part-way through in this test.
func TestCrashConsistency(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	blob := storefile.New(dir)

	repo, err := vaultstore.Create(ctx, blob, vaultstore.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	obj, err := repo.Insert(ctx, "k")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := obj.Write([]byte("generation one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := repo.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := vaultstore.Open(ctx, storefile.New(dir), "", vaultstore.LockAbort, nil)
	if err != nil {
		t.Fatalf("reopen after simulated crash: %v", err)
	}
	defer reopened.Close(ctx)

	ro, err := reopened.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := readAll(t, ro)
	if string(got) != "generation one" {
		t.Fatalf("read all = %q, want %q", got, "generation one")
	}
}

// Invariant 3 (dedup bound): writing the same bytes to a second object
// yields the identical chunk sequence, so every chunk of the second write
// deduplicates against the first. Exercised against the default-sized
// chunker; this repetitive 1.2 MB payload forms a single chunk there.
func TestDedupBound(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	data := bytes.Repeat([]byte("xyz123"), 200000)

	x, err := repo.Insert(ctx, "x")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := x.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := x.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	y, err := repo.Insert(ctx, "y")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := y.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := y.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if !x.ContentID().Equal(y.ContentID()) {
		t.Fatal("identical writes produced different chunk sequences")
	}
}

// Remove/Insert name collisions and the not-found path.
func TestInsertRemoveGetErrors(t *testing.T) {
	repo, done := newTestRepo(t)
	defer done()
	ctx := context.Background()

	if _, err := repo.Insert(ctx, "dup"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, "dup"); !errors.Is(err, vaultstore.ErrAlreadyExists) {
		t.Fatalf("duplicate insert: got %v, want ErrAlreadyExists", err)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, vaultstore.ErrNotFound) {
		t.Fatalf("get missing: got %v, want ErrNotFound", err)
	}

	if err := repo.Remove(ctx, "dup"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.Get(ctx, "dup"); !errors.Is(err, vaultstore.ErrNotFound) {
		t.Fatalf("get removed: got %v, want ErrNotFound", err)
	}
}

// Clean reclaims chunks orphaned by Remove once the removal is committed.
func TestCleanReclaimsOrphanedChunks(t *testing.T) {
	blob := storemem.New()
	ctx := context.Background()
	repo, err := vaultstore.Create(ctx, blob, vaultstore.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer repo.Close(ctx)

	obj, err := repo.Insert(ctx, "a")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := obj.Write(bytes.Repeat([]byte{0x42}, 64)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := obj.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	countChunkBlobs := func() int {
		n := 0
		for id, err := range blob.List(ctx) {
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(id) > 6 && id[:6] == "CHUNK_" {
				n++
			}
		}
		return n
	}
	before := countChunkBlobs()
	if before == 0 {
		t.Fatal("expected at least one chunk blob after commit")
	}

	if err := repo.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := repo.Clean(ctx); err != nil {
		t.Fatalf("clean: %v", err)
	}

	after := countChunkBlobs()
	if after != 0 {
		t.Fatalf("chunk blobs remained after clean: %d", after)
	}
}
