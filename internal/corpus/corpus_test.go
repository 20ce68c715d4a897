package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaindex/internal/domain"
)

func TestCorpus_AddAndLookup(t *testing.T) {
	c := New(Replace)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Add("Q1", "A1", "S1"))
	require.NoError(t, c.Add("Q2", "A2", "S2"))

	assert.Equal(t, 2, c.Size())
	assert.False(t, c.IsEmpty())

	answer, err := c.Answer("Q2")
	require.NoError(t, err)
	assert.Equal(t, "A2", answer)

	source, err := c.Source("Q1")
	require.NoError(t, err)
	assert.Equal(t, "S1", source)
}

func TestCorpus_AnswerNotFound(t *testing.T) {
	c := New(Replace)
	_, err := c.Answer("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpus_ReplaceEvictsEarlierRow(t *testing.T) {
	c := New(Replace)
	require.NoError(t, c.Add("Q1", "old", "Table a.json"))
	require.NoError(t, c.Add("Q2", "A2", "Table a.json"))
	require.NoError(t, c.Add("Q1", "new", "Infoblock b.json"))

	assert.Equal(t, []string{"Q2", "Q1"}, c.Questions())
	assert.Equal(t, domain.Record{Question: "Q1", Answer: "new", Source: "Infoblock b.json"}, c.Record(1))
}

func TestCorpus_KeepFirstIgnoresDuplicate(t *testing.T) {
	c := New(KeepFirst)
	require.NoError(t, c.Add("Q1", "first", "S1"))
	require.NoError(t, c.Add("Q1", "second", "S2"))

	assert.Equal(t, 1, c.Size())
	answer, err := c.Answer("Q1")
	require.NoError(t, err)
	assert.Equal(t, "first", answer)
}

func TestCorpus_RejectFailsOnDuplicate(t *testing.T) {
	c := New(Reject)
	require.NoError(t, c.Add("Q1", "A1", "S1"))

	err := c.Add("Q1", "A1b", "S2")
	assert.ErrorIs(t, err, domain.ErrDuplicateQuestion)
	assert.Equal(t, 1, c.Size())
}

func TestCorpus_QuestionsIsCopy(t *testing.T) {
	c := New(Replace)
	require.NoError(t, c.Add("Q1", "A1", "S1"))

	qs := c.Questions()
	qs[0] = "mutated"

	assert.Equal(t, []string{"Q1"}, c.Questions())
}

func TestFromRecords(t *testing.T) {
	records := []domain.Record{
		{Question: "Q1", Answer: "A1", Source: "S1"},
		{Question: "Q2", Answer: "A2", Source: "S2"},
	}
	c, err := FromRecords(Reject, records)
	require.NoError(t, err)
	assert.Equal(t, records, c.Records())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", Replace},
		{"replace", Replace},
		{"Keep-First", KeepFirst},
		{" reject ", Reject},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePolicy("merge")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
