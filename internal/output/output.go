// Package output delivers query results to their destinations and
// projects matches to the configured verbosity.
package output

import (
	"context"

	"github.com/crimson-sun/industry-codes/internal/model"
)

// Output is a query result destination. Write may be called concurrently.
type Output interface {
	Write(ctx context.Context, result model.QueryResult) error
	Close() error
}

// Flusher is implemented by outputs that buffer writes. Batch runners call
// Flush after each batch so finished results reach the destination.
type Flusher interface {
	Flush() error
}

// Flush flushes o if it buffers, and is a no-op otherwise.
func Flush(o Output) error {
	if f, ok := o.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
