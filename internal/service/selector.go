package service

import (
	"log/slog"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/logging"
	"qaindex/internal/vectorstore"
)

// DefaultThreshold is the similarity a match must exceed to be answered.
const DefaultThreshold = 0.5

// Selector turns the best-ranked known question into an answer, or the
// no-answer sentinel when the match is not strictly above Threshold.
type Selector struct {
	Threshold float64
	logger    *slog.Logger
}

// NewSelector creates a selector. Thresholds outside [0,1] select DefaultThreshold.
// Zero answers any question sharing at least one term with the corpus.
func NewSelector(threshold float64, logger *slog.Logger) *Selector {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Selector{Threshold: threshold, logger: logging.OrDiscard(logger)}
}

// Select never fails: encoding errors and empty input resolve to domain.NoAnswer.
func (s *Selector) Select(question string, c *corpus.Corpus, enc domain.Encoder, ranker vectorstore.Storage) domain.Answer {
	vec, err := enc.Transform(question)
	if err != nil {
		s.logger.Error("cannot encode question", "question", question, "error", err)
		return domain.NoAnswer
	}
	hits, err := ranker.Search(vec, 1)
	if err != nil {
		s.logger.Error("ranking failed", "question", question, "error", err)
		return domain.NoAnswer
	}
	if len(hits) == 0 {
		s.logger.Warn("low confidence", "question", question, "similarity", 0.0)
		return domain.NoAnswer
	}
	best := hits[0]
	if best.Score <= s.Threshold {
		s.logger.Warn("low confidence", "question", question, "similarity", best.Score)
		return domain.NoAnswer
	}
	rec := c.Record(best.Row)
	return domain.Answer{Text: rec.Answer, Confidence: best.Score, Source: rec.Source}
}
