package index

import (
	"encoding/gob"
	"fmt"
	"io"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/embedding/tfidf"
)

// SnapshotVersion is bumped whenever the encoded layout changes.
const SnapshotVersion = 1

type snapshot struct {
	Version int
	Encoder tfidf.State
	Policy  string
	Records []domain.Record
	Matrix  domain.Matrix
	Trained bool
}

// Encode writes ix as a single gob snapshot.
func Encode(w io.Writer, ix *Index) error {
	if ix == nil || !ix.Trained {
		return domain.ErrNotTrained
	}
	if err := ix.Validate(); err != nil {
		return fmt.Errorf("refusing to encode inconsistent index: %w", err)
	}
	snap := snapshot{
		Version: SnapshotVersion,
		Encoder: ix.Encoder.State(),
		Policy:  string(ix.Corpus.Policy()),
		Records: ix.Corpus.Records(),
		Matrix:  ix.Matrix,
		Trained: ix.Trained,
	}
	if err := gob.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encoding index snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode and checks its invariants.
func Decode(r io.Reader) (*Index, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding index snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, SnapshotVersion)
	}
	if !snap.Trained {
		return nil, domain.ErrNotTrained
	}
	enc, err := tfidf.FromState(snap.Encoder)
	if err != nil {
		return nil, err
	}
	policy, err := corpus.ParsePolicy(snap.Policy)
	if err != nil {
		return nil, err
	}
	c, err := corpus.FromRecords(policy, snap.Records)
	if err != nil {
		return nil, err
	}
	ix := &Index{Encoder: enc, Corpus: c, Matrix: snap.Matrix, Trained: true}
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	return ix, nil
}
