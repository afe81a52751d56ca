package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/config"
	"github.com/jonathan/resume-gap/internal/embedding"
	"github.com/jonathan/resume-gap/internal/logging"
	"github.com/jonathan/resume-gap/internal/metrics"
	"github.com/jonathan/resume-gap/internal/phrases"
	"github.com/jonathan/resume-gap/internal/similarity"
	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// flagBindings maps command flags onto config keys. Only flags a command
// defines are bound.
var flagBindings = map[string]string{
	"debug":                "log.debug",
	"json":                 "log.json",
	"similarity-threshold": "analysis.similarity_threshold",
	"weak-threshold":       "analysis.weak_threshold",
	"taxonomy-weight":      "analysis.taxonomy_weight",
	"max-phrases":          "analysis.max_phrases",
	"top-n":                "analysis.top_n",
	"taxonomy":             "taxonomy.path",
	"provider":             "embedding.provider",
	"cache":                "cache.backend",
}

// app holds the collaborators shared by subcommands. Embedding components
// are opened on first use so taxonomy-only commands never touch the network.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	taxonomy  *taxonomy.Taxonomy
	extractor *phrases.Extractor

	store    embedding.Store
	embedder embedding.Embedder
	engine   *similarity.Engine
	closers  []io.Closer
}

func setup(cmd *cobra.Command) (*app, error) {
	v := config.New()
	for flag, key := range flagBindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		tax, err = taxonomy.LoadFile(cfg.Taxonomy.Path)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("taxonomy loaded",
		zap.String("source", sourceName(cfg.Taxonomy.Path)),
		zap.Int("skills", tax.Len()),
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics.New(),
		taxonomy:  tax,
		extractor: phrases.NewExtractor(tax, nil, phrases.WithLogger(logger)),
	}, nil
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// openStore opens the configured cache store once.
func (a *app) openStore(ctx context.Context) (embedding.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := embedding.OpenStore(ctx, a.cfg.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	if store != nil {
		a.store = store
		a.closers = append(a.closers, store)
	}
	return store, nil
}

// provider returns the configured embedding provider without the cache.
func (a *app) provider(ctx context.Context) (embedding.Embedder, error) {
	if a.embedder != nil {
		return a.embedder, nil
	}
	emb, err := embedding.New(ctx, a.cfg.EmbeddingConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	if c, ok := emb.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.embedder = emb
	return emb, nil
}

// similarityEngine wires provider, cache and engine together.
func (a *app) similarityEngine(ctx context.Context) (*similarity.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	emb, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	cached := embedding.WithStore(emb, store,
		embedding.WithLogger(a.logger),
		embedding.WithMetrics(a.metrics),
	)
	a.engine = similarity.New(cached,
		similarity.WithLogger(a.logger),
		similarity.WithMetrics(a.metrics),
	)
	a.logger.Debug("similarity engine ready",
		zap.String("model", a.engine.Model()),
		zap.String("cache", a.cfg.Cache.Backend),
	)
	return a.engine, nil
}

func (a *app) analyzer(ctx context.Context) (*analysis.Analyzer, error) {
	engine, err := a.similarityEngine(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(a.taxonomy, a.extractor, engine,
		analysis.WithLogger(a.logger),
		analysis.WithMetrics(a.metrics),
		analysis.WithDefaults(analysis.WithOptions(a.cfg.AnalysisOptions())),
	), nil
}

// Close releases stores and clients and writes the metrics textfile when
// one is configured.
func (a *app) Close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteToTextfile(path); err != nil {
			a.logger.Warn("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
