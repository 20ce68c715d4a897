package memory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"qaindex/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
// Searches take a read lock, so a loaded store can serve concurrent queries.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	rows      []domain.SparseVector
}

// NewStorage returns an empty store. Call Init before Load.
func NewStorage() *Storage { return &Storage{} }

// Init sets the column count and drops any loaded rows.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.rows = nil
	return nil
}

// Load replaces the stored rows with the rows of m.
func (s *Storage) Load(m domain.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Cols != s.dimension {
		return fmt.Errorf("matrix has %d columns, store expects %d", m.Cols, s.dimension)
	}
	for i, row := range m.Rows {
		for _, idx := range row.Indices {
			if idx < 0 || idx >= s.dimension {
				return fmt.Errorf("row %d references column %d outside [0,%d)", i, idx, s.dimension)
			}
		}
	}
	s.rows = m.Rows
	return nil
}

// Len returns the number of stored rows.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Search ranks every stored row against vector and returns the best topK.
func (s *Storage) Search(vector domain.SparseVector, topK int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Rank(vector, domain.Matrix{Rows: s.rows, Cols: s.dimension}, topK)
}

// Clear drops all rows.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	return nil
}

// Rank scores every row of m by cosine similarity to query and returns at most topK hits,
// descending by score. Equal scores keep ascending row order.
func Rank(query domain.SparseVector, m domain.Matrix, topK int) ([]domain.Hit, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidArgument, topK)
	}
	qn := magnitude(query)
	scores := make([]float64, len(m.Rows))
	for i := range m.Rows {
		scores[i] = cosine(query, qn, m.Rows[i])
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	hits := make([]domain.Hit, 0, topK)
	for _, j := range idxs[:topK] {
		hits = append(hits, domain.Hit{Row: j, Score: scores[j]})
	}
	return hits, nil
}

// Cosine returns the cosine similarity of a and b clamped to [0,1].
func Cosine(a, b domain.SparseVector) float64 {
	return cosine(a, magnitude(a), b)
}

func cosine(q domain.SparseVector, qn float64, row domain.SparseVector) float64 {
	rn := magnitude(row)
	if qn == 0 || rn == 0 {
		return 0
	}
	s := dot(q, row) / (qn * rn)
	// rounding can push identical unit vectors just past 1
	switch {
	case s > 1:
		return 1
	case s < 0:
		return 0
	}
	return s
}

// dot merges two index-sorted sparse vectors.
func dot(a, b domain.SparseVector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

func magnitude(v domain.SparseVector) float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
