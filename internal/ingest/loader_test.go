package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "Table 89-table1.json", SourceLabel("table", "/data/tables/89-table1.json"))
	assert.Equal(t, "Infoblock 89-1.json", SourceLabel("INFOBLOCK", "89-1.json"))
	assert.Equal(t, "Таблица t.json", SourceLabel("таблица", "t.json"))
}

func TestLoadFile_SkipsIncompleteRecords(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "89-table1.json", `[
		{"q": "Q1", "a": "A1"},
		{"q": "Q2"},
		{"a": "orphan"},
		{"q": "Q3", "a": 42},
		{"q": "Q4", "a": ["list"]}
	]`)

	var logs bytes.Buffer
	l := NewLoader(logging.New("debug", "text", &logs))
	records, skipped, err := l.LoadFile(p, "table")
	require.NoError(t, err)

	assert.Equal(t, []domain.Record{
		{Question: "Q1", Answer: "A1", Source: "Table 89-table1.json"},
		{Question: "Q3", Answer: "42", Source: "Table 89-table1.json"},
	}, records)
	assert.Equal(t, 3, skipped)
	assert.Contains(t, logs.String(), "skipping record")
}

func TestLoad_ContinuesAfterBadFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.json", `[{"q": "Q1", "a": "A1"}, {"q": "Q-no-answer"}]`)
	broken := writeFile(t, dir, "broken.json", `[{"q": "Q2", "a": `)
	missing := filepath.Join(dir, "missing.json")
	last := writeFile(t, dir, "last.json", `[{"q": "Q3", "a": "A3"}]`)

	var logs bytes.Buffer
	l := NewLoader(logging.New("info", "text", &logs))
	c := corpus.New(corpus.Replace)

	rep, err := l.Load([]File{
		{Path: first, Kind: "table"},
		{Path: broken, Kind: "table"},
		{Path: missing, Kind: "infoblock"},
		{Path: last, Kind: "infoblock"},
	}, c)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.FilesLoaded)
	assert.Equal(t, 2, rep.FilesFailed)
	assert.Equal(t, 2, rep.RecordsLoaded)
	assert.Equal(t, 1, rep.RecordsSkipped)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, broken, rep.Failures[0].Path)
	assert.ErrorIs(t, rep.Failures[1].Err, os.ErrNotExist)

	assert.Equal(t, []string{"Q1", "Q3"}, c.Questions())
	src, err := c.Source("Q3")
	require.NoError(t, err)
	assert.Equal(t, "Infoblock last.json", src)
	assert.Contains(t, logs.String(), "failed to load source file")
	assert.Contains(t, logs.String(), "skipping record")
}

func TestLoad_NothingIngested(t *testing.T) {
	l := NewLoader(nil)
	_, err := l.Load([]File{{Path: filepath.Join(t.TempDir(), "none.json"), Kind: "table"}}, corpus.New(corpus.Replace))
	assert.ErrorIs(t, err, domain.ErrNoSources)
}

func TestLoad_RejectPolicyAborts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"q": "Q1", "a": "A1"}]`)
	b := writeFile(t, dir, "b.json", `[{"q": "Q1", "a": "other"}]`)

	_, err := NewLoader(nil).Load([]File{{Path: a, Kind: "table"}, {Path: b, Kind: "table"}}, corpus.New(corpus.Reject))
	assert.ErrorIs(t, err, domain.ErrDuplicateQuestion)
}

func TestLoad_ReplacePolicyKeepsLatest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `[{"q": "Q1", "a": "A1"}, {"q": "Q2", "a": "A2"}]`)
	b := writeFile(t, dir, "b.json", `[{"q": "Q1", "a": "newer"}]`)
	c := corpus.New(corpus.Replace)

	_, err := NewLoader(nil).Load([]File{{Path: a, Kind: "table"}, {Path: b, Kind: "infoblock"}}, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"Q2", "Q1"}, c.Questions())
	answer, err := c.Answer("Q1")
	require.NoError(t, err)
	assert.Equal(t, "newer", answer)
}

func TestFiles_ExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "89-table1.json", `[]`)
	writeFile(t, dir, "89-table2.json", `[]`)
	missing := filepath.Join(dir, "89-1.json")

	files := Files([]Source{
		{Kind: "table", Paths: []string{filepath.Join(dir, "89-table*.json")}},
		{Kind: "infoblock", Paths: []string{missing}},
	})

	assert.Equal(t, []File{
		{Path: filepath.Join(dir, "89-table1.json"), Kind: "table"},
		{Path: filepath.Join(dir, "89-table2.json"), Kind: "table"},
		{Path: missing, Kind: "infoblock"},
	}, files)
	assert.Len(t, Paths(files), 3)
}
