// Package loader acquires the industry catalog from an external source and
// checks that it honors the record invariants before the engine sees it.
package loader

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/crimson-sun/industry-codes/internal/model"
)

// ErrDataAcquisition wraps every failure to produce a record sequence:
// network, decode, or validation. It is distinct from an empty catalog.
var ErrDataAcquisition = errors.New("data acquisition failure")

// Loader produces a catalog document.
type Loader interface {
	Load(ctx context.Context) (*model.Document, error)
}

// Func adapts a function to the Loader interface.
type Func func(ctx context.Context) (*model.Document, error)

// Load calls f.
func (f Func) Load(ctx context.Context) (*model.Document, error) {
	return f(ctx)
}

// Config holds source-specific settings.
type Config struct {
	Path    string        // file source
	URL     string        // cdn and scrape sources; empty means the source default
	Timeout time.Duration // remote sources
}

// Records loads a document from l and validates it. Any failure is wrapped
// with ErrDataAcquisition.
func Records(ctx context.Context, l Loader) ([]model.Record, error) {
	doc, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataAcquisition, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: loader returned no document", ErrDataAcquisition)
	}
	if err := Validate(doc.Industries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataAcquisition, err)
	}
	if doc.Industries == nil {
		return []model.Record{}, nil
	}
	return doc.Industries, nil
}

// Validate checks the record invariants: unique ids, non-empty labels, and
// category, subcategories and depth agreeing with the hierarchy path.
func Validate(records []model.Record) error {
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("record %d: duplicate industry_id %d", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		if strings.TrimSpace(r.Label) == "" {
			return fmt.Errorf("record %d (id %d): empty label", i, r.ID)
		}
		if r.Depth < 1 {
			return fmt.Errorf("record %d (id %d): depth %d < 1", i, r.ID, r.Depth)
		}

		parts := model.SplitHierarchy(r.Hierarchy)
		if r.Category != parts[0] {
			return fmt.Errorf("record %d (id %d): category %q does not match hierarchy %q", i, r.ID, r.Category, r.Hierarchy)
		}
		if r.Depth != len(parts) || !slices.Equal(r.Subcategories, parts[1:]) {
			return fmt.Errorf("record %d (id %d): depth/subcategories do not match hierarchy %q", i, r.ID, r.Hierarchy)
		}
	}
	return nil
}
