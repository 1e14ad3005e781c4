// Package cdn fetches the published catalog document over HTTP.
package cdn

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/crimson-sun/industry-codes/internal/httpclient"
	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/model"
)

const (
	// Source is the registry name of this loader.
	Source = "cdn"

	// DefaultURL serves the published catalog through jsDelivr.
	DefaultURL = "https://cdn.jsdelivr.net/gh/trysignalbase/industry-codes@main/industry_codes.json"

	defaultTimeout = 10 * time.Second
)

func init() {
	loader.Register(Source, func(cfg loader.Config) (loader.Loader, error) {
		l, err := New(cfg.URL, cfg.Timeout, nil)
		if err != nil {
			return nil, err
		}
		return l, nil
	})
}

// Loader downloads a catalog document from a URL.
type Loader struct {
	rawURL string
	path   string
	client *httpclient.Client
}

// New creates a Loader for rawURL (DefaultURL when empty). A zero timeout
// uses 10s. Extra client options are appended after the timeout.
func New(rawURL string, timeout time.Duration, opts []httpclient.Option) (*Loader, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("cdn source: invalid url %q", rawURL)
	}

	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	base := u.Scheme + "://" + u.Host

	opts = append([]httpclient.Option{httpclient.WithTimeout(timeout)}, opts...)
	return &Loader{
		rawURL: rawURL,
		path:   path,
		client: httpclient.New(base, opts...),
	}, nil
}

// Load downloads and decodes the document. A document without a source_url
// is stamped with the URL it came from.
func (l *Loader) Load(ctx context.Context) (*model.Document, error) {
	var doc model.Document
	if err := l.client.GetJSON(ctx, l.path, nil, &doc); err != nil {
		return nil, fmt.Errorf("cdn source: download %s: %w", l.rawURL, err)
	}
	if doc.SourceURL == "" {
		doc.SourceURL = l.rawURL
	}
	slog.Info("catalog downloaded", "url", l.rawURL, "industries", len(doc.Industries))
	return &doc, nil
}
