// Package storesqlite is a Blob backend backed by a single SQLite file via
// the pure-Go modernc.org/sqlite driver, using the usual connection-pragma
// and single-writer-connection conventions for a SQLite-backed store.
package storesqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"vaultstore/internal/store"
)

// Store persists blobs as rows in a single-table SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) a SQLite database at path and ensures
// its schema exists.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storesqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storesqlite: open: %w", err)
	}

	// A single writer connection avoids SQLITE_BUSY under the single-
	// threaded, cooperative access model this engine assumes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storesqlite: set journal_mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		id   TEXT PRIMARY KEY,
		body BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storesqlite: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Write(ctx context.Context, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (id, body) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
		id, data)
	if err != nil {
		return fmt.Errorf("storesqlite: write: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM blobs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storesqlite: read: %w", err)
	}
	return data, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("storesqlite: remove: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT id FROM blobs`)
		if err != nil {
			yield("", fmt.Errorf("storesqlite: list: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				yield("", fmt.Errorf("storesqlite: scan: %w", err))
				return
			}
			if !yield(id, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", fmt.Errorf("storesqlite: rows: %w", err))
		}
	}
}

// Lock implements store.Blob.Lock using the same blobs table: the lock
// row's presence is the advisory exclusion. LockForce removes any existing
// lock row first; LockAbort fails with ErrAlreadyLocked when the row
// exists. LockWait does not wait: when the row exists it fails as well,
// with an error wrapping ErrAlreadyLocked.
func (s *Store) Lock(ctx context.Context, strategy store.LockStrategy) (store.Guard, error) {
	switch strategy {
	case store.LockForce:
		if err := s.Remove(ctx, store.LockID); err != nil {
			return nil, err
		}
	case store.LockWait, store.LockAbort:
		if _, err := s.Read(ctx, store.LockID); err == nil {
			if strategy == store.LockAbort {
				return nil, store.ErrAlreadyLocked
			}
			return nil, fmt.Errorf("storesqlite: lock wait not supported by this backend: %w", store.ErrAlreadyLocked)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.Write(ctx, store.LockID, []byte("locked")); err != nil {
		return nil, err
	}
	return &guard{store: s}, nil
}

type guard struct {
	store *Store
}

func (g *guard) Unlock(ctx context.Context) error {
	return g.store.Remove(ctx, store.LockID)
}
