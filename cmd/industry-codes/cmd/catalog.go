package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/loader/cache"
	"github.com/crimson-sun/industry-codes/internal/loader/file"
)

// newLoader resolves the configured source, wrapped in the bbolt cache
// when a cache path is set. The returned func releases the cache.
func newLoader() (loader.Loader, func() error, error) {
	ctor, err := loader.Get(cfg.Catalog.Source)
	if err != nil {
		return nil, nil, err
	}
	l, err := ctor(loader.Config{
		Path:    cfg.Catalog.Path,
		URL:     cfg.Catalog.URL,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}

	noop := func() error { return nil }
	if cfg.Catalog.CachePath == "" || cfg.Catalog.Source == file.Source {
		return l, noop, nil
	}

	store, err := cache.Open(cfg.Catalog.CachePath)
	if err != nil {
		return nil, nil, err
	}
	key := cfg.Catalog.Source + " " + cfg.Catalog.URL
	return cache.NewLoader(store, key, l, cfg.Catalog.CacheTTL), store.Close, nil
}

// buildEngine loads and validates the catalog and builds an engine over it.
func buildEngine(ctx context.Context) (*engine.Engine, error) {
	l, release, err := newLoader()
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	records, err := loader.Records(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cat := catalog.New(records)
	slog.Debug("catalog loaded",
		"source", cfg.Catalog.Source,
		"industries", cat.Len(),
		"elapsed", time.Since(start),
	)
	return engine.New(cat, engine.WithWorkers(cfg.Engine.Workers)), nil
}
