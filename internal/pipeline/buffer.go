package pipeline

import (
	"context"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/engine/fold"
	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

// queryKey identifies queries that produce identical results.
type queryKey struct {
	text  string
	topN  int
	field string
}

// pending is one input line waiting for its batch.
type pending struct {
	query engine.Query
	err   error // parse error; the query is not searched
	slot  int   // index into the unique query list, -1 when err != nil
}

// queryBuffer accumulates input lines and searches each distinct query of
// a batch once. Results are written in input order.
type queryBuffer struct {
	maxSize int
	lines   []pending
	unique  []engine.Query
	index   map[queryKey]int
}

func newQueryBuffer(maxSize int) *queryBuffer {
	return &queryBuffer{
		maxSize: maxSize,
		index:   make(map[queryKey]int),
	}
}

// add appends a line. Returns true when the buffer is full and needs flushing.
func (b *queryBuffer) add(q engine.Query, parseErr error) bool {
	p := pending{query: q, err: parseErr, slot: -1}
	if parseErr == nil {
		// fold the text so "Banking" and "banking" share a search
		key := queryKey{text: fold.Lower(q.Text), topN: q.TopN, field: q.Field}
		slot, ok := b.index[key]
		if !ok {
			slot = len(b.unique)
			b.unique = append(b.unique, q)
			b.index[key] = slot
		}
		p.slot = slot
	}
	b.lines = append(b.lines, p)
	return len(b.lines) >= b.maxSize
}

func (b *queryBuffer) len() int {
	return len(b.lines)
}

// flush searches the distinct queries, writes one result per line, and
// resets the buffer. It returns how many results were written and how
// many of those carry an error.
func (b *queryBuffer) flush(ctx context.Context, s Searcher, out output.Output) (written, failed int, err error) {
	lines := b.lines
	var results []engine.BatchResult
	if len(b.unique) > 0 {
		results = s.Search(b.unique)
	}
	b.lines = nil
	b.unique = nil
	clear(b.index)

	for _, p := range lines {
		r := model.QueryResult{Query: p.query.Text, Field: p.query.Field}
		switch {
		case p.err != nil:
			r.Error = p.err.Error()
			r.Matches = []model.ScoredMatch{}
		case results[p.slot].Err != nil:
			r.Error = results[p.slot].Err.Error()
			r.Matches = []model.ScoredMatch{}
		default:
			r.Matches = results[p.slot].Matches
		}
		if r.Error != "" {
			failed++
		}
		if err := out.Write(ctx, r); err != nil {
			return written, failed, err
		}
		written++
	}
	return written, failed, nil
}
