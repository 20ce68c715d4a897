package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qaindex/internal/domain"
	"qaindex/internal/index"
	"qaindex/internal/indexstore"
)

// Store keeps the index as a single gob blob on disk.
// Writes go to a temporary file in the same directory and are renamed into place.
type Store struct {
	path string
}

var _ indexstore.Storage = (*Store)(nil)

// NewStore returns a store at path. A non-empty key is inserted before the
// file extension: index.gob with key ab12 becomes index-ab12.gob.
func NewStore(path, key string) *Store {
	if key != "" {
		ext := filepath.Ext(path)
		path = strings.TrimSuffix(path, ext) + "-" + key + ext
	}
	return &Store{path: path}
}

// Location returns the blob path.
func (s *Store) Location() string { return s.path }

// Save writes ix atomically.
func (s *Store) Save(_ context.Context, ix *index.Index) error {
	if ix == nil || !ix.Trained {
		return domain.ErrNotTrained
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := index.Encode(w, ix); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}
	committed = true
	return nil
}

// Load reads the blob. A missing file is not an error.
func (s *Store) Load(_ context.Context) (*index.Index, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.LoadError{Location: s.path, Err: err}
	}
	defer f.Close()
	ix, err := index.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &domain.LoadError{Location: s.path, Err: err}
	}
	return ix, nil
}
