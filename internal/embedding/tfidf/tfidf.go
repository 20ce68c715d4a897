package tfidf

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"qaindex/internal/domain"
)

// DefaultMinTokenLength drops single-character tokens.
const DefaultMinTokenLength = 2

// Config controls tokenization. The same settings apply to Fit and Transform.
type Config struct {
	MinTokenLength int
	Stopwords      []string
}

// Encoder implements a TF-IDF vectorizer over sparse vectors.
// It builds a sorted vocabulary from the corpus and computes smoothed IDF values.
//
// Tokens are lowercased maximal runs of letters, digits, marks and underscores.
// No stemming is applied.
type Encoder struct {
	vocabulary     map[string]int
	terms          []string
	idf            []float64
	fitted         bool
	minTokenLength int
	tokenPattern   *regexp.Regexp
	stopwords      map[string]struct{}
}

var _ domain.Encoder = (*Encoder)(nil)

// NewEncoder creates an unfitted TF-IDF encoder.
func NewEncoder(cfg Config) *Encoder {
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = DefaultMinTokenLength
	}
	sw := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		sw[strings.ToLower(w)] = struct{}{}
	}
	return &Encoder{
		vocabulary:     make(map[string]int),
		minTokenLength: cfg.MinTokenLength,
		tokenPattern:   regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`),
		stopwords:      sw,
	}
}

// Fit builds the vocabulary and IDF values from texts and returns their weighted rows.
func (e *Encoder) Fit(texts []string) (domain.Matrix, error) {
	if len(texts) == 0 {
		return domain.Matrix{}, fmt.Errorf("%w: nothing to fit", domain.ErrEmptyCorpus)
	}
	// Build vocabulary and document frequencies
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return domain.Matrix{}, fmt.Errorf("%w: no tokens in %d texts", domain.ErrEmptyCorpus, len(texts))
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.terms = terms
	e.fitted = true

	m := domain.Matrix{Rows: make([]domain.SparseVector, len(texts)), Cols: len(terms)}
	for i, text := range texts {
		m.Rows[i] = e.project(text)
	}
	return m, nil
}

// Dimension returns the vocabulary size.
func (e *Encoder) Dimension() int { return len(e.terms) }

// Fitted reports whether Fit or FromState has populated the encoder.
func (e *Encoder) Fitted() bool { return e.fitted }

// Transform projects text into the fitted term space. Unseen terms are dropped.
func (e *Encoder) Transform(text string) (domain.SparseVector, error) {
	if !e.fitted {
		return domain.SparseVector{}, domain.ErrNotFitted
	}
	return e.project(text), nil
}

func (e *Encoder) project(text string) domain.SparseVector {
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return domain.SparseVector{}
	}
	vec := domain.SparseVector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	norm := 0.0
	for _, idx := range vec.Indices {
		w := float64(tf[idx]) / float64(total) * e.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	// L2 normalize
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// Tokenize exposes the tokenization policy so callers can inspect it.
func (e *Encoder) Tokenize(text string) []string { return e.tokenize(text) }

func (e *Encoder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenPattern.FindAllString(lower, -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if utf8.RuneCountInString(t) < e.minTokenLength {
			continue
		}
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
