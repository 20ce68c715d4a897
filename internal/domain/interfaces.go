package domain

// Record is a single known question with its stored answer and provenance.
type Record struct {
	Question string
	Answer   string
	Source   string
}

// SparseVector holds the non-zero weights of a vector in ascending column order.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Matrix is a row-major sparse matrix. Row i corresponds to corpus question i.
type Matrix struct {
	Rows []SparseVector
	Cols int
}

// Hit is a ranked matrix row with its similarity score.
type Hit struct {
	Row   int
	Score float64
}

// QueryResult is a ranked known question returned to callers.
type QueryResult struct {
	Similarity float64 `json:"similarity"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Source     string  `json:"source"`
}

// Answer is the outcome of answer selection for one question.
type Answer struct {
	Text       string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

const (
	// NoAnswerText is returned when no known question is similar enough.
	NoAnswerText = "no suitable answer found"
	// UnknownSource marks an answer that did not come from the corpus.
	UnknownSource = "unknown source"
)

// NoAnswer is the sentinel result for unanswerable questions.
var NoAnswer = Answer{Text: NoAnswerText, Confidence: 0, Source: UnknownSource}

// IsNoAnswer reports whether a is the unanswerable sentinel.
func (a Answer) IsNoAnswer() bool { return a.Source == UnknownSource && a.Confidence == 0 }

// Encoder maps free text into a fixed sparse term space.
// It must be fitted on a corpus before Transform is called.
type Encoder interface {
	Fit(texts []string) (Matrix, error)
	Transform(text string) (SparseVector, error)
	Dimension() int
}

// QAService defines the query operations exposed by the application core.
type QAService interface {
	AnswerQuestion(question string) Answer
	FindSimilar(question string, topK int) ([]QueryResult, error)
}
