package tfidf

import (
	"errors"
	"fmt"
	"sort"
)

// State is the serializable form of a fitted encoder.
// Terms are in column order; IDF[i] belongs to Terms[i].
type State struct {
	Terms          []string
	IDF            []float64
	MinTokenLength int
	Stopwords      []string
}

// State exports the fitted vocabulary, IDF weights and tokenization settings.
func (e *Encoder) State() State {
	st := State{
		Terms:          append([]string(nil), e.terms...),
		IDF:            append([]float64(nil), e.idf...),
		MinTokenLength: e.minTokenLength,
		Stopwords:      make([]string, 0, len(e.stopwords)),
	}
	for w := range e.stopwords {
		st.Stopwords = append(st.Stopwords, w)
	}
	sort.Strings(st.Stopwords)
	return st
}

// FromState restores a fitted encoder.
func FromState(st State) (*Encoder, error) {
	if len(st.Terms) == 0 {
		return nil, errors.New("tfidf state has an empty vocabulary")
	}
	if len(st.Terms) != len(st.IDF) {
		return nil, fmt.Errorf("tfidf state mismatch: %d terms, %d idf values", len(st.Terms), len(st.IDF))
	}
	e := NewEncoder(Config{MinTokenLength: st.MinTokenLength, Stopwords: st.Stopwords})
	e.vocabulary = make(map[string]int, len(st.Terms))
	for i, term := range st.Terms {
		if _, dup := e.vocabulary[term]; dup {
			return nil, fmt.Errorf("tfidf state repeats term %q", term)
		}
		e.vocabulary[term] = i
	}
	e.terms = append([]string(nil), st.Terms...)
	e.idf = append([]float64(nil), st.IDF...)
	e.fitted = true
	return e, nil
}
