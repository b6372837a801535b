// Package storetest provides a shared conformance test suite for
// store.Blob implementations. Each backend wires this suite to verify it
// satisfies the full Blob contract the same way.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"vaultstore/internal/store"
)

// TestStore runs the full conformance suite against a Blob implementation.
// newStore must return a fresh, empty backend for each sub-test.
func TestStore(t *testing.T, newStore func(t *testing.T) store.Blob) {
	t.Run("ReadMissingReturnsNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Read(context.Background(), "missing")
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Read missing: got %v, want ErrNotFound", err)
		}
	})

	t.Run("WriteThenRead", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := []byte("hello blob")

		if err := s.Write(ctx, "a", want); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := s.Read(ctx, "a")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Read = %q, want %q", got, want)
		}
	})

	t.Run("WriteOverwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Write(ctx, "a", []byte("v1")); err != nil {
			t.Fatalf("Write v1: %v", err)
		}
		if err := s.Write(ctx, "a", []byte("v2")); err != nil {
			t.Fatalf("Write v2: %v", err)
		}
		got, err := s.Read(ctx, "a")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if string(got) != "v2" {
			t.Fatalf("Read = %q, want %q", got, "v2")
		}
	})

	t.Run("WriteEmptyBlob", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Write(ctx, "empty", []byte{}); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := s.Read(ctx, "empty")
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Read = %q, want empty", got)
		}
	})

	t.Run("RemoveThenReadIsNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Write(ctx, "a", []byte("v1")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := s.Remove(ctx, "a"); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, err := s.Read(ctx, "a"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("Read after remove: got %v, want ErrNotFound", err)
		}
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := newStore(t)
		if err := s.Remove(context.Background(), "never-existed"); err != nil {
			t.Fatalf("Remove missing: %v", err)
		}
	})

	t.Run("ListEnumeratesAllWrittenIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		want := map[string]bool{"a": true, "b": true, "c": true}
		for id := range want {
			if err := s.Write(ctx, id, []byte(id)); err != nil {
				t.Fatalf("Write %s: %v", id, err)
			}
		}

		got := map[string]bool{}
		for id, err := range s.List(ctx) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got[id] = true
		}
		if len(got) != len(want) {
			t.Fatalf("List returned %v, want %v", got, want)
		}
		for id := range want {
			if !got[id] {
				t.Errorf("List missing id %q", id)
			}
		}
	})

	t.Run("ListOmitsRemoved", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if err := s.Write(ctx, "keep", []byte("x")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := s.Write(ctx, "drop", []byte("y")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := s.Remove(ctx, "drop"); err != nil {
			t.Fatalf("Remove: %v", err)
		}

		for id, err := range s.List(ctx) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if id == "drop" {
				t.Fatalf("List returned removed id %q", id)
			}
		}
	})

	t.Run("ListCanStopEarly", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			if err := s.Write(ctx, id, []byte(id)); err != nil {
				t.Fatalf("Write %s: %v", id, err)
			}
		}

		count := 0
		for _, err := range s.List(ctx) {
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			count++
			break
		}
		if count != 1 {
			t.Fatalf("expected exactly one iteration before stopping, got %d", count)
		}
	})

	t.Run("LockAbortFailsWhenHeld", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		guard, err := s.Lock(ctx, store.LockAbort)
		if err != nil {
			t.Fatalf("first Lock: %v", err)
		}
		defer guard.Unlock(ctx)

		if _, err := s.Lock(ctx, store.LockAbort); !errors.Is(err, store.ErrAlreadyLocked) {
			t.Fatalf("second Lock: got %v, want ErrAlreadyLocked", err)
		}
	})

	t.Run("UnlockAllowsReacquire", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		guard, err := s.Lock(ctx, store.LockAbort)
		if err != nil {
			t.Fatalf("Lock: %v", err)
		}
		if err := guard.Unlock(ctx); err != nil {
			t.Fatalf("Unlock: %v", err)
		}

		guard2, err := s.Lock(ctx, store.LockAbort)
		if err != nil {
			t.Fatalf("re-Lock: %v", err)
		}
		guard2.Unlock(ctx)
	})

	t.Run("LockForceSeizesStaleLock", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		guard, err := s.Lock(ctx, store.LockAbort)
		if err != nil {
			t.Fatalf("Lock: %v", err)
		}
		_ = guard // simulate a crashed holder: never call Unlock

		guard2, err := s.Lock(ctx, store.LockForce)
		if err != nil {
			t.Fatalf("LockForce: %v", err)
		}
		guard2.Unlock(ctx)
	})
}
