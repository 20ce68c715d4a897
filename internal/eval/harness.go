// Package eval replays the corpus through the answer selector and aggregates
// accuracy and confidence statistics per source.
package eval

import (
	"strings"
	"unicode"

	"qaindex/internal/domain"
)

// Answerer is the query side of the QA service.
type Answerer interface {
	AnswerQuestion(question string) domain.Answer
}

// Corpus is the read side of the corpus store the harness iterates.
type Corpus interface {
	Size() int
	Record(i int) domain.Record
}

// Level is a confidence bucket.
type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Bucket classifies a confidence: >0.8 high, >0.5 medium, otherwise low.
func Bucket(confidence float64) Level {
	switch {
	case confidence > 0.8:
		return High
	case confidence > 0.5:
		return Medium
	default:
		return Low
	}
}

// SourceStats aggregates results for one source label.
type SourceStats struct {
	Source        string
	Total         int
	Correct       int
	HighConf      int
	MedConf       int
	LowConf       int
	AvgConfidence float64
}

// Accuracy returns Correct/Total in [0,1].
func (s SourceStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// TotalStats is the rollup across all sources.
type TotalStats struct {
	TotalQuestions int
	TotalCorrect   int
	TotalHighConf  int
	TotalMedConf   int
	TotalLowConf   int
	AvgConfidence  float64
}

// Accuracy returns TotalCorrect/TotalQuestions in [0,1].
func (t TotalStats) Accuracy() float64 {
	if t.TotalQuestions == 0 {
		return 0
	}
	return float64(t.TotalCorrect) / float64(t.TotalQuestions)
}

// Result holds per-source stats in order of first appearance plus the rollup.
type Result struct {
	Sources []SourceStats
	Total   TotalStats
}

// Run asks every corpus question and grades the answer against the stored one.
// Questions are grouped by the source they were ingested from, not by the source
// of the returned answer, so a misrouted or unanswered question still counts
// against its own source and no "unknown source" row appears.
func Run(c Corpus, a Answerer) Result {
	var res Result
	pos := make(map[string]int)
	for i := 0; i < c.Size(); i++ {
		rec := c.Record(i)
		ans := a.AnswerQuestion(rec.Question)
		correct := IsCorrect(ans.Text, rec.Answer)

		j, ok := pos[rec.Source]
		if !ok {
			j = len(res.Sources)
			pos[rec.Source] = j
			res.Sources = append(res.Sources, SourceStats{Source: rec.Source})
		}
		st := &res.Sources[j]
		st.Total++
		st.AvgConfidence += ans.Confidence
		res.Total.TotalQuestions++
		res.Total.AvgConfidence += ans.Confidence
		if correct {
			st.Correct++
			res.Total.TotalCorrect++
		}
		switch Bucket(ans.Confidence) {
		case High:
			st.HighConf++
			res.Total.TotalHighConf++
		case Medium:
			st.MedConf++
			res.Total.TotalMedConf++
		default:
			st.LowConf++
			res.Total.TotalLowConf++
		}
	}
	for i := range res.Sources {
		res.Sources[i].AvgConfidence /= float64(res.Sources[i].Total)
	}
	if res.Total.TotalQuestions > 0 {
		res.Total.AvgConfidence /= float64(res.Total.TotalQuestions)
	}
	return res
}

// IsCorrect compares answers ignoring case and all whitespace.
func IsCorrect(generated, reference string) bool {
	return normalize(generated) == normalize(reference)
}

func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
}
