// Package pipeline runs newline-delimited query input through the engine
// in batches and writes each result, in input order, to an output.
package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/output"
)

const (
	defaultBatchSize = 64
	maxLineSize      = 1 << 20
)

// Searcher runs a mixed batch of queries. *engine.Engine implements it.
type Searcher interface {
	Search(queries []engine.Query) []engine.BatchResult
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSize sets how many input lines are searched together. Default: 64.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithDefaults sets the top-N and search field used for plain-text lines
// and for JSON lines that omit them. Default: 1, "label".
func WithDefaults(topN int, field string) Option {
	return func(p *Pipeline) {
		p.topN = topN
		p.field = field
	}
}

// Stats summarises one Run.
type Stats struct {
	Queries int // results written
	Errors  int // results carrying an error
	Batches int
}

// Pipeline connects an input reader, a Searcher, and an output.
type Pipeline struct {
	searcher  Searcher
	out       output.Output
	batchSize int
	topN      int
	field     string
}

// New creates a Pipeline from the given components.
func New(s Searcher, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher:  s,
		out:       out,
		batchSize: defaultBatchSize,
		topN:      1,
		field:     engine.FieldLabel.String(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// lineQuery is the JSON form of an input line.
type lineQuery struct {
	Query string  `json:"query"`
	TopN  *int    `json:"top_n"`
	Field *string `json:"search_field"`
}

// Run reads r line by line. A line is either plain query text or a JSON
// object {"query", "top_n", "search_field"}. Blank lines are skipped. A
// malformed JSON line or an invalid argument yields a result with its
// error set; it does not stop the run. Cancellation is checked between
// batches.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats
	buf := newQueryBuffer(p.batchSize)

	flush := func() error {
		if buf.len() == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		n, failed, err := buf.flush(ctx, p.searcher, p.out)
		stats.Queries += n
		stats.Errors += failed
		stats.Batches++
		if err == nil {
			err = output.Flush(p.out)
		}
		if err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		q, perr := p.parseLine(line)
		if buf.add(q, perr) {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("pipeline read: %w", err)
	}
	if err := flush(); err != nil {
		return stats, err
	}

	slog.Debug("pipeline finished", "queries", stats.Queries, "errors", stats.Errors, "batches", stats.Batches)
	return stats, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.out.Close()
}

func (p *Pipeline) parseLine(line string) (engine.Query, error) {
	q := engine.Query{Text: line, TopN: p.topN, Field: p.field}
	if !strings.HasPrefix(line, "{") {
		return q, nil
	}
	var lq lineQuery
	if err := json.Unmarshal([]byte(line), &lq); err != nil {
		return q, fmt.Errorf("malformed query line: %w", err)
	}
	q.Text = lq.Query
	if lq.TopN != nil {
		q.TopN = *lq.TopN
	}
	if lq.Field != nil {
		q.Field = *lq.Field
	}
	return q, nil
}
