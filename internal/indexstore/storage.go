// Package indexstore persists a trained index so later runs skip re-fitting.
package indexstore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"

	"qaindex/internal/index"
)

// Storage saves and loads one trained index.
//
// Save fails with domain.ErrNotTrained for an untrained index.
// Load returns (nil, nil) when nothing has been persisted and a *domain.LoadError
// when persisted data cannot be decoded.
type Storage interface {
	Save(ctx context.Context, ix *index.Index) error
	Load(ctx context.Context) (*index.Index, error)
	Location() string
}

// SourceKey hashes the names and contents of the given files into a short cache key,
// so indexes built from different corpora do not overwrite each other.
// Missing files contribute only their name.
func SourceKey(paths []string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	h := sha1.New()
	for _, p := range sorted {
		fmt.Fprintf(h, "%s\x00", p)
		f, err := os.Open(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("hashing %s: %w", p, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", p, err)
		}
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8]), nil
}
