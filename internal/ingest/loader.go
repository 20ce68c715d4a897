// Package ingest reads question/answer records from JSON source files.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"qaindex/internal/corpus"
	"qaindex/internal/domain"
	"qaindex/internal/logging"
)

// Source is a group of files of one kind, e.g. tables or infoblocks.
// Paths may be glob patterns.
type Source struct {
	Kind  string
	Paths []string
}

// File is a concrete source file.
type File struct {
	Path string
	Kind string
}

// FileFailure records a file that could not be ingested.
type FileFailure struct {
	Path string
	Err  error
}

// Report summarizes one ingestion pass.
type Report struct {
	FilesLoaded    int
	FilesFailed    int
	RecordsLoaded  int
	RecordsSkipped int
	Failures       []FileFailure
}

// Loader reads {"q": ..., "a": ...} objects from JSON array files.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logging.OrDiscard(logger)}
}

// Files expands every source pattern. Patterns without matches are kept
// literally so the missing file shows up as a failure.
func Files(sources []Source) []File {
	var out []File
	for _, src := range sources {
		for _, p := range src.Paths {
			matches, _ := filepath.Glob(p)
			if matches == nil {
				matches = []string{p}
			}
			for _, m := range matches {
				out = append(out, File{Path: m, Kind: src.Kind})
			}
		}
	}
	return out
}

// Paths returns the paths of files.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

// Load ingests every file into c. A file that is missing or malformed is logged
// and skipped; the remaining files are still loaded. Only a corpus error
// (duplicate under the reject policy) aborts the pass.
func (l *Loader) Load(files []File, c *corpus.Corpus) (Report, error) {
	var rep Report
	for _, f := range files {
		records, skipped, err := l.LoadFile(f.Path, f.Kind)
		if err != nil {
			l.logger.Error("failed to load source file", "path", f.Path, "error", err)
			rep.FilesFailed++
			rep.Failures = append(rep.Failures, FileFailure{Path: f.Path, Err: err})
			continue
		}
		for _, r := range records {
			if err := c.Add(r.Question, r.Answer, r.Source); err != nil {
				return rep, fmt.Errorf("ingesting %s: %w", f.Path, err)
			}
		}
		rep.FilesLoaded++
		rep.RecordsLoaded += len(records)
		rep.RecordsSkipped += skipped
		l.logger.Info("loaded source file", "path", f.Path, "records", len(records), "skipped", skipped)
	}
	l.logger.Info("ingestion finished",
		"files", rep.FilesLoaded, "failed_files", rep.FilesFailed,
		"records", rep.RecordsLoaded, "questions", c.Size())
	if c.IsEmpty() {
		return rep, domain.ErrNoSources
	}
	return rep, nil
}

// LoadFile parses one file. Objects missing a question or an answer are skipped
// and counted.
func (l *Loader) LoadFile(path, kind string) ([]domain.Record, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, 0, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	source := SourceLabel(kind, path)
	records := make([]domain.Record, 0, len(items))
	skipped := 0
	for i, item := range items {
		q, qerr := field(item, "q")
		a, aerr := field(item, "a")
		if err := errors.Join(qerr, aerr); err != nil {
			skipped++
			l.logger.Warn("skipping record", "path", path, "item", i, "reason", err)
			continue
		}
		records = append(records, domain.Record{Question: q, Answer: a, Source: source})
	}
	return records, skipped, nil
}

func field(item map[string]any, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("field %q is %T, not text", key, v)
	}
}

// SourceLabel formats provenance as "<Kind> <file name>", e.g. "Table 89-table1.json".
func SourceLabel(kind, path string) string {
	return capitalize(kind) + " " + filepath.Base(path)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
