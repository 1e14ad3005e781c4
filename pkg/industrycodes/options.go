package industrycodes

import (
	"context"
	"time"

	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/loader/cdn"
	"github.com/crimson-sun/industry-codes/internal/loader/file"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// Loader supplies the catalog for New.
type Loader interface {
	Load(ctx context.Context) ([]Industry, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]Industry, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) ([]Industry, error) {
	return f(ctx)
}

type options struct {
	industries    []Industry
	hasIndustries bool
	loader        loader.Loader
	url           string
	timeout       time.Duration
	workers       int
}

// Option configures a Matcher.
type Option func(*options)

// WithIndustries builds the Matcher from an explicit catalog instead of
// loading one. An empty slice is a valid, empty catalog. The entries are
// used as given: New does not check that Category, Subcategories and Depth
// agree with the hierarchy. NewIndustry derives them correctly.
func WithIndustries(industries []Industry) Option {
	return func(o *options) {
		o.industries = industries
		o.hasIndustries = true
	}
}

// WithLoader loads the catalog through l.
func WithLoader(l Loader) Option {
	return func(o *options) {
		o.loader = loader.Func(func(ctx context.Context) (*model.Document, error) {
			inds, err := l.Load(ctx)
			if err != nil {
				return nil, err
			}
			return model.NewDocument(industryRecords(inds), "", time.Time{}), nil
		})
	}
}

// WithCatalogFile reads the catalog from a JSON document on disk.
func WithCatalogFile(path string) Option {
	return func(o *options) {
		o.loader = file.New(path)
	}
}

// WithCatalogURL downloads the catalog document from url instead of the
// default CDN location.
func WithCatalogURL(url string) Option {
	return func(o *options) {
		o.url = url
	}
}

// WithTimeout bounds the catalog download. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithWorkers bounds batch parallelism. Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// resolveLoader picks the catalog source when no explicit industries are
// given: a configured loader, then the CDN.
func resolveLoader(o options) (loader.Loader, error) {
	if o.loader != nil {
		return o.loader, nil
	}
	l, err := cdn.New(o.url, o.timeout, nil)
	if err != nil {
		return nil, err
	}
	return l, nil
}
