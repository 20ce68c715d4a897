// Package index bundles the fitted encoder, the corpus and its vector matrix
// into the unit that answers queries and gets persisted.
package index

import (
	"errors"
	"fmt"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/embedding/tfidf"
)

// Index is the trained retrieval state. Once Trained it is never mutated;
// new data requires a full Build.
type Index struct {
	Encoder *tfidf.Encoder
	Corpus  *corpus.Corpus
	Matrix  domain.Matrix
	Trained bool
}

// New returns an empty, untrained index.
func New() *Index {
	return &Index{Corpus: corpus.New(corpus.Replace)}
}

// Build fits enc on the corpus questions and returns a trained index.
func Build(c *corpus.Corpus, enc *tfidf.Encoder) (*Index, error) {
	if c == nil || c.IsEmpty() {
		return nil, fmt.Errorf("%w: corpus has no questions", domain.ErrEmptyCorpus)
	}
	m, err := enc.Fit(c.Questions())
	if err != nil {
		return nil, fmt.Errorf("fitting encoder: %w", err)
	}
	ix := &Index{Encoder: enc, Corpus: c, Matrix: m, Trained: true}
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	return ix, nil
}

// Size returns the number of indexed questions.
func (ix *Index) Size() int {
	if ix.Corpus == nil {
		return 0
	}
	return ix.Corpus.Size()
}

// Validate checks the row and column invariants of a trained index.
func (ix *Index) Validate() error {
	if !ix.Trained {
		return domain.ErrNotTrained
	}
	if ix.Encoder == nil || ix.Corpus == nil {
		return errors.New("trained index is missing its encoder or corpus")
	}
	if got, want := len(ix.Matrix.Rows), ix.Corpus.Size(); got != want {
		return fmt.Errorf("matrix has %d rows for %d questions", got, want)
	}
	if got, want := ix.Matrix.Cols, ix.Encoder.Dimension(); got != want {
		return fmt.Errorf("matrix has %d columns for a vocabulary of %d", got, want)
	}
	return nil
}
