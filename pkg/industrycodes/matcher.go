package industrycodes

import (
	"context"
	"fmt"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/model"
)

var (
	// ErrInvalidArgument reports a negative top-N or an unknown search field.
	ErrInvalidArgument = engine.ErrInvalidArgument

	// ErrDataAcquisition reports a catalog that could not be downloaded,
	// read, parsed or validated.
	ErrDataAcquisition = loader.ErrDataAcquisition
)

// SearchField selects which industry text a query is compared with.
type SearchField string

const (
	Label     SearchField = "label"
	Hierarchy SearchField = "hierarchy"
	Both      SearchField = "both" // label + " " + hierarchy
)

// Matcher ranks catalog industries against free-text queries.
// Safe for concurrent use.
type Matcher struct {
	eng *engine.Engine
}

// New loads the catalog and prepares it for matching. Without options the
// published catalog is downloaded from the CDN.
func New(ctx context.Context, opts ...Option) (*Matcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	recs, err := catalogRecords(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("industrycodes: %w", err)
	}

	eng := engine.New(catalog.New(recs), engine.WithWorkers(o.workers))
	return &Matcher{eng: eng}, nil
}

// catalogRecords returns explicit industries as given and validates
// anything loaded.
func catalogRecords(ctx context.Context, o options) ([]model.Record, error) {
	if o.hasIndustries {
		return industryRecords(o.industries), nil
	}
	l, err := resolveLoader(o)
	if err != nil {
		return nil, err
	}
	return loader.Records(ctx, l)
}

// FindClosest returns the topN industries most similar to query, highest
// similarity first; ties keep catalog order. topN above the catalog size
// returns every industry, zero returns none.
func (m *Matcher) FindClosest(query string, topN int, field SearchField) ([]Match, error) {
	f, err := engine.ParseSearchField(string(field))
	if err != nil {
		return nil, err
	}
	ms, err := m.eng.FindClosest(query, topN, f)
	if err != nil {
		return nil, err
	}
	return matchesFromScored(ms), nil
}

// FindClosestBatch runs FindClosest for every query in parallel. Result i
// belongs to queries[i].
func (m *Matcher) FindClosestBatch(queries []string, topN int, field SearchField) ([][]Match, error) {
	f, err := engine.ParseSearchField(string(field))
	if err != nil {
		return nil, err
	}
	batch, err := m.eng.FindClosestBatch(queries, topN, f)
	if err != nil {
		return nil, err
	}
	out := make([][]Match, len(batch))
	for i, ms := range batch {
		out[i] = matchesFromScored(ms)
	}
	return out, nil
}

// FindByCategory returns the industries whose top-level category equals
// name, ignoring case, in catalog order.
func (m *Matcher) FindByCategory(name string) []Industry {
	return industriesFromRecords(m.eng.FindByCategory(name))
}

// Categories returns the distinct top-level categories, sorted.
func (m *Matcher) Categories() []string {
	return m.eng.Categories()
}

// Industries returns a copy of the catalog in load order.
func (m *Matcher) Industries() []Industry {
	return industriesFromRecords(m.eng.Catalog().Records())
}

// Len returns the number of industries in the catalog.
func (m *Matcher) Len() int {
	return m.eng.Catalog().Len()
}
