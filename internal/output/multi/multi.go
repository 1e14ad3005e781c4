// Package multi fans query results out to several outputs.
package multi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

// Multi writes every result to all of its outputs concurrently and waits
// for them before returning, so each output still sees results in order.
// A failing output does not stop delivery to the others.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs. Nil outputs are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len returns the number of wrapped outputs.
func (m *Multi) Len() int {
	return len(m.outputs)
}

// Write delivers result to every output and joins their errors, each
// tagged with the output's position.
func (m *Multi) Write(ctx context.Context, result model.QueryResult) error {
	if len(m.outputs) == 1 {
		return tag(0, m.outputs[0].Write(ctx, result))
	}

	errs := make([]error, len(m.outputs))
	var wg sync.WaitGroup
	for i, o := range m.outputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = tag(i, o.Write(ctx, result))
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Flush flushes every output that buffers and joins their errors.
func (m *Multi) Flush() error {
	errs := make([]error, len(m.outputs))
	for i, o := range m.outputs {
		errs[i] = tag(i, output.Flush(o))
	}
	return errors.Join(errs...)
}

// Close closes every output in order and joins their errors.
func (m *Multi) Close() error {
	errs := make([]error, len(m.outputs))
	for i, o := range m.outputs {
		errs[i] = tag(i, o.Close())
	}
	return errors.Join(errs...)
}

func tag(i int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("output %d: %w", i, err)
}
