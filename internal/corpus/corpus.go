// Package corpus holds the deduplicated set of known questions in ingestion order.
package corpus

import (
	"fmt"
	"strings"

	"qaindex/internal/domain"
)

// Policy decides what happens when a question is added twice.
type Policy string

const (
	// Replace evicts the earlier row and appends the new record at the end.
	Replace Policy = "replace"
	// KeepFirst ignores later duplicates.
	KeepFirst Policy = "keep-first"
	// Reject fails the Add call with domain.ErrDuplicateQuestion.
	Reject Policy = "reject"
)

// ParsePolicy maps a config value to a Policy. Empty selects Replace.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case Replace, "":
		return Replace, nil
	case KeepFirst:
		return KeepFirst, nil
	case Reject:
		return Reject, nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate policy %q", domain.ErrInvalidArgument, s)
	}
}

type entry struct {
	answer string
	source string
}

// Corpus is the ordered question list plus its answer and source lookups.
// Row i of a fitted matrix corresponds to Questions()[i]. Not safe for concurrent writes.
type Corpus struct {
	policy    Policy
	questions []string
	entries   map[string]entry
}

// New creates an empty corpus with the given duplicate policy.
func New(policy Policy) *Corpus {
	if policy == "" {
		policy = Replace
	}
	return &Corpus{policy: policy, entries: make(map[string]entry)}
}

// FromRecords builds a corpus from records in order, applying policy to duplicates.
func FromRecords(policy Policy, records []domain.Record) (*Corpus, error) {
	c := New(policy)
	for _, r := range records {
		if err := c.Add(r.Question, r.Answer, r.Source); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Policy returns the duplicate policy of c.
func (c *Corpus) Policy() Policy { return c.policy }

// Add appends a record. Duplicates are handled according to the corpus policy.
func (c *Corpus) Add(question, answer, source string) error {
	if _, exists := c.entries[question]; exists {
		switch c.policy {
		case KeepFirst:
			return nil
		case Reject:
			return fmt.Errorf("%w: %q", domain.ErrDuplicateQuestion, question)
		default:
			c.evict(question)
		}
	}
	c.questions = append(c.questions, question)
	c.entries[question] = entry{answer: answer, source: source}
	return nil
}

func (c *Corpus) evict(question string) {
	for i, q := range c.questions {
		if q == question {
			c.questions = append(c.questions[:i], c.questions[i+1:]...)
			break
		}
	}
	delete(c.entries, question)
}

// Size returns the number of distinct questions.
func (c *Corpus) Size() int { return len(c.questions) }

// IsEmpty reports whether no question has been added.
func (c *Corpus) IsEmpty() bool { return len(c.questions) == 0 }

// Answer returns the stored answer for question or domain.ErrNotFound.
func (c *Corpus) Answer(question string) (string, error) {
	e, ok := c.entries[question]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrNotFound, question)
	}
	return e.answer, nil
}

// Source returns the source label of question or domain.ErrNotFound.
func (c *Corpus) Source(question string) (string, error) {
	e, ok := c.entries[question]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrNotFound, question)
	}
	return e.source, nil
}

// Questions returns a copy of the questions in row order.
func (c *Corpus) Questions() []string {
	out := make([]string, len(c.questions))
	copy(out, c.questions)
	return out
}

// Record returns the record at row i.
func (c *Corpus) Record(i int) domain.Record {
	q := c.questions[i]
	e := c.entries[q]
	return domain.Record{Question: q, Answer: e.answer, Source: e.source}
}

// Records returns every record in row order.
func (c *Corpus) Records() []domain.Record {
	out := make([]domain.Record, len(c.questions))
	for i := range c.questions {
		out[i] = c.Record(i)
	}
	return out
}
