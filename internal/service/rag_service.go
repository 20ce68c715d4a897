package service

import (
	"fmt"
	"log/slog"

	"qaindex/internal/domain"
	"qaindex/internal/index"
	"qaindex/internal/logging"
	"qaindex/internal/vectorstore"
	"qaindex/internal/vectorstore/memory"
)

// QAServiceImpl answers questions from a trained index. It is read-only after
// construction and safe for concurrent queries.
type QAServiceImpl struct {
	index    *index.Index
	store    vectorstore.Storage
	selector *Selector
	logger   *slog.Logger
}

var _ domain.QAService = (*QAServiceImpl)(nil)

// NewQAService loads the index matrix into an in-memory store.
func NewQAService(ix *index.Index, selector *Selector, logger *slog.Logger) (*QAServiceImpl, error) {
	return NewQAServiceWithStore(ix, memory.NewStorage(), selector, logger)
}

// NewQAServiceWithStore is NewQAService with a caller-provided vector store.
func NewQAServiceWithStore(ix *index.Index, store vectorstore.Storage, selector *Selector, logger *slog.Logger) (*QAServiceImpl, error) {
	if ix == nil {
		return nil, domain.ErrNotTrained
	}
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	if err := store.Init(ix.Matrix.Cols); err != nil {
		return nil, fmt.Errorf("initialising vector store: %w", err)
	}
	if err := store.Load(ix.Matrix); err != nil {
		return nil, fmt.Errorf("loading vectors: %w", err)
	}
	if selector == nil {
		selector = NewSelector(DefaultThreshold, logger)
	}
	return &QAServiceImpl{index: ix, store: store, selector: selector, logger: logging.OrDiscard(logger)}, nil
}

// Index returns the trained index backing the service.
func (s *QAServiceImpl) Index() *index.Index { return s.index }

// Threshold returns the selector threshold.
func (s *QAServiceImpl) Threshold() float64 { return s.selector.Threshold }

// AnswerQuestion returns the stored answer of the closest known question.
func (s *QAServiceImpl) AnswerQuestion(question string) domain.Answer {
	return s.selector.Select(question, s.index.Corpus, s.index.Encoder, s.store)
}

// FindSimilar returns up to topK known questions ranked by similarity.
func (s *QAServiceImpl) FindSimilar(question string, topK int) ([]domain.QueryResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidArgument, topK)
	}
	vec, err := s.index.Encoder.Transform(question)
	if err != nil {
		return nil, err
	}
	hits, err := s.store.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QueryResult, 0, len(hits))
	for _, h := range hits {
		rec := s.index.Corpus.Record(h.Row)
		out = append(out, domain.QueryResult{
			Similarity: h.Score,
			Question:   rec.Question,
			Answer:     rec.Answer,
			Source:     rec.Source,
		})
	}
	s.logger.Debug("similar questions", "question", question, "results", len(out))
	return out, nil
}
