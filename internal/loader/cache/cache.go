package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// Loader serves a cached document while it is younger than the TTL and
// refreshes from upstream otherwise. When the refresh fails and an older
// copy exists, the stale copy is served.
type Loader struct {
	store    *Store
	key      string
	upstream loader.Loader
	ttl      time.Duration
	now      func() time.Time
}

// NewLoader wraps upstream with the store. A ttl <= 0 always refreshes and
// keeps the cache only as a fallback.
func NewLoader(store *Store, key string, upstream loader.Loader, ttl time.Duration) *Loader {
	return &Loader{
		store:    store,
		key:      key,
		upstream: upstream,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load implements loader.Loader.
func (l *Loader) Load(ctx context.Context) (*model.Document, error) {
	cached, err := l.store.Get(l.key)
	if err != nil {
		slog.Warn("catalog cache unreadable", "key", l.key, "error", err)
		cached = nil
	}

	if cached != nil && l.ttl > 0 && l.now().Sub(cached.FetchedAt) < l.ttl {
		slog.Debug("catalog cache hit", "key", l.key, "fetched_at", cached.FetchedAt)
		return cached.Document, nil
	}

	doc, err := l.refresh(ctx)
	if err != nil {
		if cached != nil {
			slog.Warn("catalog refresh failed, serving stale cache",
				"key", l.key, "fetched_at", cached.FetchedAt, "error", err)
			return cached.Document, nil
		}
		return nil, err
	}

	if err := l.store.Put(l.key, doc, l.now()); err != nil {
		slog.Warn("catalog cache write failed", "key", l.key, "error", err)
	}
	return doc, nil
}

func (l *Loader) refresh(ctx context.Context) (*model.Document, error) {
	doc, err := l.upstream.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("cache: upstream returned no document")
	}
	// never cache a document that would be rejected on load
	if err := loader.Validate(doc.Industries); err != nil {
		return nil, fmt.Errorf("cache: upstream document invalid: %w", err)
	}
	return doc, nil
}
