package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/industry-codes/internal/engine/fold"
	"github.com/crimson-sun/industry-codes/internal/engine/scorer"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// Query is one entry of a mixed batch. Field is parsed per query, so a bad
// field fails only its own slot.
type Query struct {
	Text  string
	TopN  int
	Field string
}

// BatchResult is the outcome of one Query. Exactly one of Matches or Err
// is meaningful.
type BatchResult struct {
	Matches []model.ScoredMatch
	Err     error
}

// FindClosestBatch runs FindClosest for every query in parallel. Result i
// belongs to queries[i] regardless of completion order. topN and field are
// shared, so they are validated once and an invalid value fails the call.
func (e *Engine) FindClosestBatch(queries []string, topN int, field SearchField) ([][]model.ScoredMatch, error) {
	if err := validate(topN, field); err != nil {
		return nil, err
	}
	results := make([][]model.ScoredMatch, len(queries))
	e.fanOut(len(queries), func(s *scorer.Scorer, i int) {
		results[i] = e.rank(s, fold.Runes(queries[i]), topN, field)
	})
	return results, nil
}

// Search runs a batch of independently parameterized queries in parallel.
// Validation errors stay in their own slot; the other queries still run.
func (e *Engine) Search(queries []Query) []BatchResult {
	results := make([]BatchResult, len(queries))
	e.fanOut(len(queries), func(s *scorer.Scorer, i int) {
		q := queries[i]
		field, err := ParseSearchField(q.Field)
		if err == nil {
			err = validate(q.TopN, field)
		}
		if err != nil {
			results[i] = BatchResult{Err: err}
			return
		}
		results[i] = BatchResult{Matches: e.rank(s, fold.Runes(q.Text), q.TopN, field)}
	})
	return results
}

// fanOut calls fn for 0..n-1 on at most e.workers goroutines. Each call
// gets its own Scorer and writes only to its own index.
func (e *Engine) fanOut(n int, fn func(s *scorer.Scorer, i int)) {
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range n {
		g.Go(func() error {
			fn(scorer.New(), i)
			return nil
		})
	}
	_ = g.Wait()
}
