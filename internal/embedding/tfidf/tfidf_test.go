package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaindex/internal/domain"
)

func TestEncoder_Tokenize(t *testing.T) {
	e := NewEncoder(Config{})

	got := e.Tokenize("Марка стали Ст3сп, ГОСТ 14637-89 a")

	assert.Equal(t, []string{"марка", "стали", "ст3сп", "гост", "14637", "89"}, got)
}

func TestEncoder_TokenizeStopwords(t *testing.T) {
	sw, err := Stopwords("english")
	require.NoError(t, err)
	e := NewEncoder(Config{Stopwords: sw})

	assert.Equal(t, []string{"what", "tensile", "strength", "steel"}, e.Tokenize("What is the tensile strength of the steel?"))
}

func TestStopwords_Unknown(t *testing.T) {
	_, err := Stopwords("klingon")
	assert.Error(t, err)

	none, err := Stopwords("none")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestEncoder_FitBuildsSortedVocabulary(t *testing.T) {
	e := NewEncoder(Config{})

	m, err := e.Fit([]string{"beta alpha", "alpha gamma"})
	require.NoError(t, err)

	assert.Equal(t, 3, e.Dimension())
	assert.Equal(t, 3, m.Cols)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, e.State().Terms)
	assert.Equal(t, []int{0, 1}, m.Rows[0].Indices)
	assert.Equal(t, []int{0, 2}, m.Rows[1].Indices)
}

func TestEncoder_FitWeights(t *testing.T) {
	e := NewEncoder(Config{})

	m, err := e.Fit([]string{"alpha beta", "alpha gamma"})
	require.NoError(t, err)

	// alpha appears in both documents, beta in one: beta must weigh more.
	row := m.Rows[0]
	require.Equal(t, []int{0, 1}, row.Indices)
	assert.Greater(t, row.Values[1], row.Values[0])

	idfBeta := math.Log(3.0/2.0) + 1
	norm := math.Sqrt(1 + idfBeta*idfBeta)
	assert.InDelta(t, 1/norm, row.Values[0], 1e-12)
	assert.InDelta(t, idfBeta/norm, row.Values[1], 1e-12)
}

func TestEncoder_RowsAreUnitLength(t *testing.T) {
	e := NewEncoder(Config{})
	m, err := e.Fit([]string{"alpha beta beta", "gamma delta alpha", "epsilon"})
	require.NoError(t, err)

	for i, row := range m.Rows {
		sum := 0.0
		for _, v := range row.Values {
			sum += v * v
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d", i)
	}
}

func TestEncoder_FitEmpty(t *testing.T) {
	e := NewEncoder(Config{})

	_, err := e.Fit(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = e.Fit([]string{"", "  ", "?!"})
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
	assert.False(t, e.Fitted())
}

func TestEncoder_FitKeepsEmptyRows(t *testing.T) {
	e := NewEncoder(Config{})
	m, err := e.Fit([]string{"alpha", "?"})
	require.NoError(t, err)

	require.Len(t, m.Rows, 2)
	assert.Empty(t, m.Rows[1].Indices)
}

func TestEncoder_TransformBeforeFit(t *testing.T) {
	e := NewEncoder(Config{})
	_, err := e.Transform("alpha")
	assert.ErrorIs(t, err, domain.ErrNotFitted)
}

func TestEncoder_TransformDropsUnseenTerms(t *testing.T) {
	e := NewEncoder(Config{})
	_, err := e.Fit([]string{"alpha beta"})
	require.NoError(t, err)

	v, err := e.Transform("Alpha omega")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, v.Indices)
	assert.InDelta(t, 1.0, v.Values[0], 1e-12)
	assert.Equal(t, 2, e.Dimension())

	empty, err := e.Transform("omega")
	require.NoError(t, err)
	assert.Empty(t, empty.Indices)
}

func TestEncoder_StateRoundTrip(t *testing.T) {
	sw, err := Stopwords("english")
	require.NoError(t, err)
	e := NewEncoder(Config{MinTokenLength: 3, Stopwords: sw})
	_, err = e.Fit([]string{"the yield strength of steel", "tensile strength for rolled steel"})
	require.NoError(t, err)

	restored, err := FromState(e.State())
	require.NoError(t, err)

	for _, q := range []string{"yield strength", "rolled steel of the mill", "xy"} {
		want, err := e.Transform(q)
		require.NoError(t, err)
		got, err := restored.Transform(q)
		require.NoError(t, err)
		assert.Equal(t, want, got, q)
	}
}

func TestFromState_Invalid(t *testing.T) {
	_, err := FromState(State{})
	assert.Error(t, err)

	_, err = FromState(State{Terms: []string{"a", "b"}, IDF: []float64{1}})
	assert.Error(t, err)

	_, err = FromState(State{Terms: []string{"a", "a"}, IDF: []float64{1, 1}})
	assert.Error(t, err)
}
