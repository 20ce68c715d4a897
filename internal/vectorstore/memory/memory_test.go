package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaindex/internal/domain"
	"qaindex/internal/embedding/tfidf"
)

func vec(indices []int, values []float64) domain.SparseVector {
	return domain.SparseVector{Indices: indices, Values: values}
}

func TestRank_OrdersByScore(t *testing.T) {
	m := domain.Matrix{Cols: 3, Rows: []domain.SparseVector{
		vec([]int{2}, []float64{1}),
		vec([]int{0}, []float64{1}),
		vec([]int{0, 1}, []float64{0.6, 0.8}),
	}}

	hits, err := Rank(vec([]int{0}, []float64{1}), m, 3)
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, 1, hits[0].Row)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-12)
	assert.Equal(t, 2, hits[1].Row)
	assert.InDelta(t, 0.6, hits[1].Score, 1e-12)
	assert.Equal(t, 0, hits[2].Row)
	assert.Equal(t, 0.0, hits[2].Score)
}

func TestRank_TiesKeepRowOrder(t *testing.T) {
	m := domain.Matrix{Cols: 2, Rows: []domain.SparseVector{
		vec([]int{1}, []float64{1}),
		vec([]int{0}, []float64{1}),
		vec([]int{1}, []float64{1}),
		vec([]int{0}, []float64{1}),
		vec([]int{0}, []float64{1}),
	}}
	q := vec([]int{0}, []float64{1})

	for i := 0; i < 20; i++ {
		hits, err := Rank(q, m, 5)
		require.NoError(t, err)
		rows := make([]int, len(hits))
		for k, h := range hits {
			rows[k] = h.Row
		}
		assert.Equal(t, []int{1, 3, 4, 0, 2}, rows)
	}
}

func TestRank_TopKBounds(t *testing.T) {
	m := domain.Matrix{Cols: 1, Rows: []domain.SparseVector{vec([]int{0}, []float64{1})}}

	_, err := Rank(vec(nil, nil), m, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	hits, err := Rank(vec([]int{0}, []float64{1}), m, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = Rank(vec([]int{0}, []float64{1}), domain.Matrix{Cols: 1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRank_ZeroVectorScoresZero(t *testing.T) {
	m := domain.Matrix{Cols: 2, Rows: []domain.SparseVector{
		vec([]int{0}, []float64{1}),
		{},
	}}

	hits, err := Rank(domain.SparseVector{}, m, 2)
	require.NoError(t, err)
	for _, h := range hits {
		assert.Equal(t, 0.0, h.Score)
	}

	hits, err = Rank(vec([]int{0}, []float64{1}), m, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hits[1].Score)
}

func TestCosine_UnnormalisedVectors(t *testing.T) {
	a := vec([]int{0, 1}, []float64{3, 4})
	b := vec([]int{0, 1}, []float64{6, 8})
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-12)
	assert.LessOrEqual(t, Cosine(a, b), 1.0)

	c := vec([]int{1}, []float64{2})
	assert.InDelta(t, 0.8, Cosine(a, c), 1e-12)
}

func TestRank_SelfSimilarity(t *testing.T) {
	questions := []string{
		"tensile strength of rolled steel",
		"yield strength for category 5",
		"impact test temperature",
		"thickness of sheet steel category 5",
	}
	enc := tfidf.NewEncoder(tfidf.Config{})
	m, err := enc.Fit(questions)
	require.NoError(t, err)

	for i, q := range questions {
		v, err := enc.Transform(q)
		require.NoError(t, err)
		hits, err := Rank(v, m, 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, i, hits[0].Row, q)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-9, q)
	}
}

func TestStorage_LoadAndSearch(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(0))
	require.NoError(t, s.Init(2))

	err := s.Load(domain.Matrix{Cols: 3})
	assert.Error(t, err)

	err = s.Load(domain.Matrix{Cols: 2, Rows: []domain.SparseVector{vec([]int{5}, []float64{1})}})
	assert.Error(t, err)

	require.NoError(t, s.Load(domain.Matrix{Cols: 2, Rows: []domain.SparseVector{
		vec([]int{0}, []float64{1}),
		vec([]int{1}, []float64{1}),
	}}))
	assert.Equal(t, 2, s.Len())

	hits, err := s.Search(vec([]int{1}, []float64{1}), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Row)

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
}

func TestStorage_ConcurrentSearch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Load(domain.Matrix{Cols: 2, Rows: []domain.SparseVector{
		vec([]int{0}, []float64{1}),
		vec([]int{0, 1}, []float64{0.6, 0.8}),
	}}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := s.Search(vec([]int{1}, []float64{1}), 2)
			assert.NoError(t, err)
			assert.Equal(t, 1, hits[0].Row)
		}()
	}
	wg.Wait()
}
