package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/brief"
	"github.com/csheth/paperlib/internal/config"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/llm"
)

// openStore opens the configured repository. The returned func releases it.
func openStore(opts ...library.Option) (*library.Store, func(), error) {
	path := cfg.Library.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create library dir: %w", err)
	}

	var repo library.Repository
	closeRepo := func() {}
	switch cfg.Library.Store {
	case config.StoreBolt:
		bolt, err := library.OpenBoltRepository(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", path, err)
		}
		repo = bolt
		closeRepo = func() {
			if err := bolt.Close(); err != nil {
				logger.Warn("close library", zap.Error(err))
			}
		}
	default:
		repo = library.NewFileRepository(path)
	}

	opts = append(opts, library.WithNotifier(library.NotifierFunc(logNotification)))
	store, err := library.Open(repo, opts...)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	logger.Debug("library opened",
		zap.String("path", path),
		zap.String("store", cfg.Library.Store),
		zap.Int("papers", store.Len()),
	)
	return store, closeRepo, nil
}

func logNotification(n library.Notification) {
	logger.Info("library changed",
		zap.String("kind", string(n.Kind)),
		zap.String("paper", n.PaperID),
		zap.String("status", string(n.Status)),
		zap.Bool("missing", n.Missing),
	)
}

func newArxivClient() *arxiv.Client {
	client := arxiv.NewClient(cfg.Arxiv.BaseURL, logger)
	client.UserAgent = cfg.Arxiv.UserAgent
	client.MaxRetries = cfg.Arxiv.MaxRetries
	return client
}

// newSummarizer returns nil when no backend can be built; callers report
// summaries as unavailable in that case.
func newSummarizer() *brief.Service {
	client, err := llm.New(llm.Config{
		Backend:   cfg.Summarizer.Backend,
		Endpoint:  cfg.Summarizer.Endpoint,
		Model:     cfg.Summarizer.Model,
		APIKey:    cfg.Summarizer.APIKey,
		MaxLength: cfg.Summarizer.MaxLength,
		MinLength: cfg.Summarizer.MinLength,
	})
	if err != nil {
		logger.Warn("summaries disabled", zap.Error(err))
		return nil
	}
	service := &brief.Service{
		LLM:         client,
		PDFTemplate: cfg.PDF.URLTemplate,
		MaxPages:    cfg.PDF.MaxPages,
		Builder:     brief.NewBuilder(brief.DefaultBudget),
		Logger:      logger,
	}
	cache, err := arxiv.NewCache(cfg.PDF.CacheDir, nil, logger)
	if err != nil {
		logger.Warn("full-text summaries disabled", zap.Error(err))
		return service
	}
	service.Texts = cache
	return service
}
