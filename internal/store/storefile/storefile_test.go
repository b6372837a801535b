package storefile

import (
	"testing"

	"vaultstore/internal/store"
	"vaultstore/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.TestStore(t, func(t *testing.T) store.Blob {
		return New(t.TempDir())
	})
}

func TestWritesAreAtomic(t *testing.T) {
	s := New(t.TempDir())
	ctx := t.Context()

	if err := s.Write(ctx, "a", []byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for id, err := range s.List(ctx) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(id) > 0 && id[0] == '.' {
			t.Fatalf("List leaked a temp file: %q", id)
		}
	}
}
