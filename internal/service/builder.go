package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/embedding/tfidf"
	"qaindex/internal/index"
	"qaindex/internal/indexstore"
	"qaindex/internal/ingest"
	"qaindex/internal/logging"
)

// BuildResult describes how an index was obtained.
type BuildResult struct {
	Index     *index.Index
	FromCache bool
	Report    ingest.Report
	// SaveErr is set when the index was built but could not be persisted.
	SaveErr error
}

// Builder produces a trained index, preferring a persisted one.
type Builder struct {
	Loader  *ingest.Loader
	Store   indexstore.Storage
	Policy  corpus.Policy
	Encoder tfidf.Config
	logger  *slog.Logger
}

// NewBuilder wires a builder. store may be nil to disable persistence.
func NewBuilder(loader *ingest.Loader, store indexstore.Storage, policy corpus.Policy, enc tfidf.Config, logger *slog.Logger) *Builder {
	return &Builder{Loader: loader, Store: store, Policy: policy, Encoder: enc, logger: logging.OrDiscard(logger)}
}

// Build loads the persisted index unless force is set. When nothing is persisted,
// the persisted blob is corrupt, or it was fitted with different tokenization
// settings, it ingests files, fits a fresh index and saves it.
func (b *Builder) Build(ctx context.Context, files []ingest.File, force bool) (BuildResult, error) {
	if b.Store != nil && !force {
		ix, err := b.Store.Load(ctx)
		switch {
		case err == nil && ix != nil && !b.encoderMatches(ix):
			b.logger.Warn("saved index uses different encoder settings, rebuilding", "location", b.Store.Location())
		case err == nil && ix != nil:
			b.logger.Info("using saved index", "location", b.Store.Location(), "questions", ix.Size())
			return BuildResult{Index: ix, FromCache: true}, nil
		case errors.Is(err, domain.ErrLoad):
			b.logger.Warn("saved index unreadable, rebuilding", "error", err)
		case err != nil:
			return BuildResult{}, err
		default:
			b.logger.Info("no saved index found", "location", b.Store.Location())
		}
	}

	c := corpus.New(b.Policy)
	rep, err := b.Loader.Load(files, c)
	if err != nil {
		return BuildResult{Report: rep}, fmt.Errorf("ingesting sources: %w", err)
	}
	ix, err := index.Build(c, tfidf.NewEncoder(b.Encoder))
	if err != nil {
		return BuildResult{Report: rep}, err
	}
	b.logger.Info("index trained", "questions", ix.Size(), "vocabulary", ix.Encoder.Dimension())

	res := BuildResult{Index: ix, Report: rep}
	if b.Store == nil {
		return res, nil
	}
	if err := b.Store.Save(ctx, ix); err != nil {
		b.logger.Error("failed to save index", "location", b.Store.Location(), "error", err)
		res.SaveErr = err
		return res, nil
	}
	b.logger.Info("index saved", "location", b.Store.Location())
	return res, nil
}

// encoderMatches reports whether ix was fitted with the tokenization settings
// the builder would use now.
func (b *Builder) encoderMatches(ix *index.Index) bool {
	want := tfidf.NewEncoder(b.Encoder).State()
	got := ix.Encoder.State()
	return got.MinTokenLength == want.MinTokenLength && slices.Equal(got.Stopwords, want.Stopwords)
}
