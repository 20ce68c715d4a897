package cli

import (
	"context"
	"fmt"

	"qaindex/internal/config"
	"qaindex/internal/corpus"
	"qaindex/internal/embedding/tfidf"
	"qaindex/internal/indexstore"
	"qaindex/internal/indexstore/file"
	"qaindex/internal/indexstore/sqlite"
	"qaindex/internal/ingest"
	"qaindex/internal/service"
)

func sourceFiles(cfg *config.AppConfig) []ingest.File {
	sources := make([]ingest.Source, len(cfg.Sources))
	for i, s := range cfg.Sources {
		sources[i] = ingest.Source{Kind: s.Kind, Paths: s.Paths}
	}
	return ingest.Files(sources)
}

// openStore returns the configured index store and a function releasing it.
func openStore(cfg *config.AppConfig, files []ingest.File) (indexstore.Storage, func() error, error) {
	key := ""
	if cfg.Index.KeyBySources {
		k, err := indexstore.SourceKey(ingest.Paths(files))
		if err != nil {
			return nil, nil, err
		}
		key = k
	}
	switch cfg.Index.Backend {
	case "file", "":
		return file.NewStore(cfg.Index.Path, key), func() error { return nil }, nil
	case "sqlite":
		st, err := sqlite.NewStore(cfg.Index.Path, key)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend: %s", cfg.Index.Backend)
	}
}

// loadService builds or loads the trained index and wraps it in a QA service.
func loadService(ctx context.Context, force bool) (*service.QAServiceImpl, service.BuildResult, error) {
	cfg := appConfig
	policy, err := corpus.ParsePolicy(cfg.Corpus.Duplicates)
	if err != nil {
		return nil, service.BuildResult{}, err
	}
	stopwords, err := tfidf.Stopwords(cfg.Encoder.Stopwords)
	if err != nil {
		return nil, service.BuildResult{}, err
	}
	files := sourceFiles(cfg)
	store, closeStore, err := openStore(cfg, files)
	if err != nil {
		return nil, service.BuildResult{}, err
	}
	defer closeStore()

	builder := service.NewBuilder(
		ingest.NewLoader(logger),
		store,
		policy,
		tfidf.Config{MinTokenLength: cfg.Encoder.MinTokenLength, Stopwords: stopwords},
		logger,
	)
	res, err := builder.Build(ctx, files, force)
	if err != nil {
		return nil, res, err
	}
	svc, err := service.NewQAService(res.Index, service.NewSelector(cfg.Selector.ThresholdValue(), logger), logger)
	if err != nil {
		return nil, res, err
	}
	return svc, res, nil
}
