package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/catalog"
	"github.com/sana-labs/recommender-cli/internal/classify"
	"github.com/sana-labs/recommender-cli/internal/matcher"
	"github.com/sana-labs/recommender-cli/internal/pairing"
	"github.com/sana-labs/recommender-cli/internal/recommend"
	"github.com/sana-labs/recommender-cli/internal/rules"
	"github.com/sana-labs/recommender-cli/internal/screening"
	"github.com/sana-labs/recommender-cli/internal/store"
	anthropicpkg "github.com/sana-labs/recommender-cli/pkg/anthropic"
)

// engineEnv holds the initialized sources, stages, and store needed by the
// recommend/serve commands. Callers should defer env.Close().
type engineEnv struct {
	Store      store.Store
	Catalog    catalog.Source
	Rules      rules.Source
	Screener   *screening.Screener
	Matcher    *matcher.Matcher
	Classifier *classify.Classifier
	Pairer     *pairing.Pairer
	Engine     *recommend.Engine

	closers []func()
}

// Close releases resources in reverse initialization order.
func (e *engineEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initStore opens the configured run store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "init %s store", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initCatalog connects to the product feed database.
func initCatalog(ctx context.Context) (*catalog.Postgres, error) {
	src, err := catalog.NewPostgres(ctx, catalog.Config{
		URL:      cfg.Catalog.DatabaseURL,
		Table:    cfg.Catalog.Table,
		PageSize: cfg.Catalog.PageSize,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init catalog")
	}
	return src, nil
}

// initRules builds the rule source: a YAML fixture file when configured,
// otherwise the rule table in Postgres.
func initRules(ctx context.Context) (rules.Source, func(), error) {
	if cfg.Rules.FixtureFile != "" {
		fixtures, err := rules.LoadYAML(cfg.Rules.FixtureFile)
		if err != nil {
			return nil, nil, eris.Wrap(err, "load rule fixtures")
		}
		zap.L().Info("rules loaded from fixture file",
			zap.String("file", cfg.Rules.FixtureFile),
			zap.Int("rules", len(fixtures)),
		)
		return rules.NewMemory(fixtures), func() {}, nil
	}

	src, err := rules.NewPostgres(ctx, rules.Config{
		URL:   cfg.Rules.DatabaseURL,
		Table: cfg.Rules.Table,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "init rules")
	}
	return src, src.Close, nil
}

// initEngine sets up the store, both databases, the Anthropic client, and
// wires the four pipeline stages into an Engine.
func initEngine(ctx context.Context) (*engineEnv, error) {
	env := &engineEnv{}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env.Store = st
	env.closers = append(env.closers, func() { _ = st.Close() })

	cat, err := initCatalog(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Catalog = cat
	env.closers = append(env.closers, cat.Close)

	ruleSrc, closeRules, err := initRules(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Rules = ruleSrc
	env.closers = append(env.closers, closeRules)

	aiClient := anthropicpkg.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RequestsPerSec)

	env.Screener = screening.New(aiClient, cfg.Anthropic, cfg.Screening.MinTextLen)
	env.Matcher = matcher.New(env.Catalog, cfg.Matching.SimilarityThreshold)
	env.Classifier = classify.New(env.Rules, aiClient, cfg.Anthropic)
	env.Pairer = pairing.New(env.Rules, env.Catalog)
	env.Engine = recommend.NewEngine(env.Screener, env.Matcher, env.Classifier, env.Pairer)

	return env, nil
}
