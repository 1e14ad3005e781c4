// Package async puts a buffered queue in front of a slow output.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("async output closed")

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the queue capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) {
		if n > 0 {
			a.bufSize = n
		}
	}
}

// WithOnError sets the callback for failed inner writes.
// Default: logs a warning.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write discard the result instead of waiting when
// the queue is full.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithDrainTimeout bounds how long Close waits for queued results.
// Default: 5s.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Stats counts what happened to results passed to Write.
type Stats struct {
	Delivered int64
	Failed    int64
	Dropped   int64
}

// Async queues results and writes them to the inner output from a single
// goroutine, so the inner output sees them in Write order.
type Async struct {
	inner        output.Output
	errFunc      func(error)
	bufSize      int
	dropOnFull   bool
	drainTimeout time.Duration

	mu     sync.RWMutex // guards queue sends against close
	closed bool
	queue  chan model.QueryResult
	done   chan struct{}

	// cancel aborts the in-flight inner write once the drain timeout
	// passes; drain then counts what is left as dropped.
	ctx    context.Context
	cancel context.CancelFunc

	delivered, failed, dropped atomic.Int64
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write failed", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.queue = make(chan model.QueryResult, a.bufSize)
	a.done = make(chan struct{})
	a.ctx, a.cancel = context.WithCancel(context.Background())
	go a.drain()
	return a
}

// Write queues result. When the queue is full it waits for room or for ctx,
// unless WithDropOnFull is set.
func (a *Async) Write(ctx context.Context, result model.QueryResult) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	if a.dropOnFull {
		select {
		case a.queue <- result:
		default:
			a.dropped.Add(1)
			slog.Debug("async output queue full, dropping result", "query", result.Query)
		}
		return nil
	}
	select {
	case a.queue <- result:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current counters.
func (a *Async) Stats() Stats {
	return Stats{
		Delivered: a.delivered.Load(),
		Failed:    a.failed.Load(),
		Dropped:   a.dropped.Load(),
	}
}

// Close stops intake and waits up to the drain timeout for the queue to
// empty. Results still queued after that are counted as dropped. The inner
// output is closed only once the drain goroutine has stopped writing to it.
// Later calls return nil.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.drainTimeout):
		slog.Warn("async output drain timed out", "pending", len(a.queue))
		a.cancel()
		<-a.done
	}
	a.cancel()

	if s := a.Stats(); s.Failed > 0 || s.Dropped > 0 {
		slog.Warn("async output lost results", "delivered", s.Delivered, "failed", s.Failed, "dropped", s.Dropped)
	}
	return a.inner.Close()
}

func (a *Async) drain() {
	defer close(a.done)
	for result := range a.queue {
		if a.ctx.Err() != nil {
			a.dropped.Add(1)
			continue
		}
		if err := a.inner.Write(a.ctx, result); err != nil {
			if a.ctx.Err() != nil {
				a.dropped.Add(1)
				continue
			}
			a.failed.Add(1)
			a.errFunc(err)
			continue
		}
		a.delivered.Add(1)
	}
}
