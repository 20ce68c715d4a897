package tfidf

import (
	"fmt"
	"strings"
)

// Stopwords returns a named stopword list. "none" and "" return nil.
func Stopwords(name string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return nil, nil
	case "english":
		return englishStopwords(), nil
	default:
		return nil, fmt.Errorf("unknown stopword list %q", name)
	}
}

func englishStopwords() []string {
	return []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
}
