// Package sqlite persists trained indexes in a SQLite database, one row per cache key.
//
// It uses modernc.org/sqlite, a pure Go driver, so no CGO is required.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"qaindex/internal/domain"
	"qaindex/internal/index"
	"qaindex/internal/indexstore"
)

// DefaultKey is used when no cache key is configured.
const DefaultKey = "default"

const schema = `
CREATE TABLE IF NOT EXISTS qa_index (
	cache_key TEXT PRIMARY KEY,
	version   INTEGER NOT NULL,
	payload   BLOB NOT NULL,
	saved_at  TEXT NOT NULL
)`

// Store keeps index snapshots in the qa_index table.
type Store struct {
	db   *sql.DB
	path string
	key  string
}

var _ indexstore.Storage = (*Store)(nil)

// NewStore opens (creating if needed) the database at path.
func NewStore(path, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: path, key: key}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the database path and cache key.
func (s *Store) Location() string {
	return s.path + "#" + s.key
}

// Save upserts the snapshot for the store key inside a transaction.
func (s *Store) Save(ctx context.Context, ix *index.Index) error {
	if ix == nil || !ix.Trained {
		return domain.ErrNotTrained
	}
	var buf bytes.Buffer
	if err := index.Encode(&buf, ix); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO qa_index (cache_key, version, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, s.key, index.SnapshotVersion, buf.Bytes(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Load returns the snapshot for the store key, or nil if none was saved.
func (s *Store) Load(ctx context.Context) (*index.Index, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM qa_index WHERE cache_key = ?`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.LoadError{Location: s.Location(), Err: err}
	}
	ix, err := index.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.LoadError{Location: s.Location(), Err: err}
	}
	return ix, nil
}
