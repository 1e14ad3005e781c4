// Package webhook delivers query results to an HTTP endpoint in batches.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/industry-codes/internal/httpclient"
	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
	defaultTimeout       = 10 * time.Second
)

// Batch is the JSON body of one POST.
type Batch struct {
	SentAt  time.Time       `json:"sent_at"`
	Count   int             `json:"count"`
	Results []output.Result `json:"results"`
}

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets extra HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) {
		for k, v := range h {
			o.clientOpts = append(o.clientOpts, httpclient.WithHeader(k, v))
		}
	}
}

// WithBatchSize sets how many results are posted together. Default: 50.
func WithBatchSize(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFlushInterval sets how often a partial batch is posted. Default: 5s.
func WithFlushInterval(d time.Duration) Option {
	return func(o *Output) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTimeout bounds each POST attempt. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.clientOpts = append(o.clientOpts, httpclient.WithTimeout(d)) }
}

// WithBackoff sets the base retry delay for 5xx and 429 responses.
func WithBackoff(d time.Duration) Option {
	return func(o *Output) { o.clientOpts = append(o.clientOpts, httpclient.WithBackoff(d)) }
}

// WithVerbosity sets the match projection used in posted batches. Default: Standard.
func WithVerbosity(v output.Verbosity) Option {
	return func(o *Output) { o.verbosity = v }
}

// WithOnError sets the callback for failed interval flushes.
// Default: logs a warning.
func WithOnError(f func(error)) Option {
	return func(o *Output) { o.errFunc = f }
}

// Output posts results as Batch documents. A batch goes out when it is
// full, when the flush interval ticks with results pending, or on Close.
// Posting is serialized, so batches arrive in write order.
type Output struct {
	url        string
	client     *httpclient.Client
	clientOpts []httpclient.Option
	batchSize  int
	interval   time.Duration
	verbosity  output.Verbosity
	errFunc    func(error)
	now        func() time.Time

	mu      sync.Mutex
	pending []output.Result

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a webhook output posting to url and starts its flush ticker.
func New(url string, opts ...Option) *Output {
	o := &Output{
		url:        url,
		clientOpts: []httpclient.Option{httpclient.WithTimeout(defaultTimeout)},
		batchSize:  defaultBatchSize,
		interval:   defaultFlushInterval,
		verbosity:  output.Standard,
		errFunc:    func(err error) { slog.Warn("webhook flush failed", "error", err) },
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.client = httpclient.New("", o.clientOpts...)
	go o.tick()
	return o
}

// Write queues the result and posts the batch once it is full.
func (o *Output) Write(ctx context.Context, result model.QueryResult) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending = append(o.pending, output.FormatResult(result, o.verbosity))
	if len(o.pending) < o.batchSize {
		return nil
	}
	return o.sendLocked(ctx)
}

// Close stops the ticker and posts whatever is still pending.
func (o *Output) Close() error {
	var err error
	o.closeOnce.Do(func() {
		close(o.stop)
		<-o.done

		o.mu.Lock()
		defer o.mu.Unlock()
		err = o.sendLocked(context.Background())
	})
	return err
}

func (o *Output) tick() {
	defer close(o.done)
	t := time.NewTicker(o.interval)
	defer t.Stop()

	for {
		select {
		case <-o.stop:
			return
		case <-t.C:
			o.mu.Lock()
			err := o.sendLocked(context.Background())
			o.mu.Unlock()
			if err != nil {
				o.errFunc(err)
			}
		}
	}
}

// sendLocked posts the pending results. The batch is dropped from the
// queue even if the post fails. Caller holds o.mu.
func (o *Output) sendLocked(ctx context.Context) error {
	if len(o.pending) == 0 {
		return nil
	}
	b := Batch{SentAt: o.now().UTC(), Count: len(o.pending), Results: o.pending}
	o.pending = nil

	if err := o.client.PostJSON(ctx, o.url, b); err != nil {
		return fmt.Errorf("webhook: %d results: %w", b.Count, err)
	}
	return nil
}
