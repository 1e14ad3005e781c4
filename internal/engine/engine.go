// Package engine ranks catalog records against free-text queries by
// Levenshtein similarity.
package engine

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/engine/fold"
	"github.com/crimson-sun/industry-codes/internal/engine/scorer"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// Engine answers nearest-match and category queries over one Catalog.
// It never mutates the catalog and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	texts   [3][][]rune // per SearchField: folded searched text, catalog order
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds how many queries a batch scores in parallel.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an Engine over cat and folds every record's searched texts
// once, so queries only fold their own input.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: cat}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	labels, hierarchies := cat.Labels(), cat.Hierarchies()
	for _, f := range []SearchField{FieldLabel, FieldHierarchy, FieldBoth} {
		texts := make([][]rune, len(labels))
		for i := range labels {
			texts[i] = fold.Runes(f.text(labels[i], hierarchies[i]))
		}
		e.texts[f] = texts
	}
	return e
}

// Catalog returns the catalog the engine searches.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Workers returns the batch parallelism bound.
func (e *Engine) Workers() int {
	return e.workers
}

// FindClosest scores every record against query on the given field and
// returns the topN best, highest similarity first. Records with equal
// similarity keep their catalog order. topN larger than the catalog yields
// every record; topN of zero yields none.
func (e *Engine) FindClosest(query string, topN int, field SearchField) ([]model.ScoredMatch, error) {
	if err := validate(topN, field); err != nil {
		return nil, err
	}
	return e.rank(scorer.New(), fold.Runes(query), topN, field), nil
}

// FindByCategory returns the records in the named top-level category,
// compared case-insensitively, in catalog order.
func (e *Engine) FindByCategory(name string) []model.Record {
	return e.catalog.ByCategory(name)
}

// Categories returns the sorted distinct top-level categories.
func (e *Engine) Categories() []string {
	return e.catalog.Categories()
}

type candidate struct {
	pos        int
	distance   int
	similarity float64
}

func (e *Engine) rank(s *scorer.Scorer, query []rune, topN int, field SearchField) []model.ScoredMatch {
	texts := e.texts[field]
	if topN == 0 || len(texts) == 0 {
		return []model.ScoredMatch{}
	}

	cands := make([]candidate, len(texts))
	for i, text := range texts {
		d, sim := s.Score(query, text)
		cands[i] = candidate{pos: i, distance: d, similarity: sim}
	}

	// Stable: equal scores stay in catalog order.
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.similarity, a.similarity)
	})

	n := min(topN, len(cands))
	out := make([]model.ScoredMatch, n)
	for i, c := range cands[:n] {
		out[i] = model.ScoredMatch{
			Record:     e.catalog.Record(c.pos),
			Distance:   c.distance,
			Similarity: c.similarity,
		}
	}
	return out
}

func validate(topN int, field SearchField) error {
	if !field.Valid() {
		return fmt.Errorf("%w: unknown search field %s", ErrInvalidArgument, field)
	}
	if topN < 0 {
		return fmt.Errorf("%w: top_n must be >= 0, got %d", ErrInvalidArgument, topN)
	}
	return nil
}
