// Package file appends query results to an NDJSON file with optional
// size-based rotation.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

const (
	defaultBufSize    = 64 * 1024
	defaultMaxBackups = 9
)

// ErrLocked is returned by New when another writer holds the file.
var ErrLocked = errors.New("output file is locked by another writer")

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize rotates the file before a write would push it past bytes.
// Zero, the default, never rotates.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithMaxBackups sets how many rotated files are kept as path.1 (newest)
// through path.n. Default: 9.
func WithMaxBackups(n int) Option {
	return func(o *Output) { o.maxBackups = max(n, 1) }
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output is an NDJSON sink. One Output owns its path for its lifetime
// through a "<path>.lock" file lock, so two batch runs cannot interleave
// lines in the same file.
type Output struct {
	path       string
	verbosity  output.Verbosity
	maxSize    int64
	maxBackups int
	bufSize    int
	lock       *flock.Flock

	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	size int64 // bytes in the live file, buffered included
}

// New opens path for appending and takes its lock.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:       path,
		verbosity:  verbosity,
		maxBackups: defaultMaxBackups,
		bufSize:    defaultBufSize,
		lock:       flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(o)
	}

	locked, err := o.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("file output: lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("file output: %s: %w", path, ErrLocked)
	}
	if err := o.open(); err != nil {
		o.lock.Unlock()
		return nil, err
	}
	return o, nil
}

// Write appends the result as one JSON line.
func (o *Output) Write(_ context.Context, result model.QueryResult) error {
	line, err := json.Marshal(output.FormatResult(result, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: encode %q: %w", result.Query, err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.needsRotation(len(line)) {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}
	n, err := o.w.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Flush pushes buffered lines to the file.
func (o *Output) Flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("file output: flush: %w", err)
	}
	return nil
}

// Close flushes, closes the file and releases the lock.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	err := o.w.Flush()
	if cerr := o.f.Close(); err == nil {
		err = cerr
	}
	if uerr := o.lock.Unlock(); err == nil {
		err = uerr
	}
	if err != nil {
		return fmt.Errorf("file output: close: %w", err)
	}
	return nil
}

// needsRotation reports whether writing n more bytes would exceed maxSize.
// A file is never rotated while empty, so an oversized line still lands.
func (o *Output) needsRotation(n int) bool {
	return o.maxSize > 0 && o.size > 0 && o.size+int64(n) > o.maxSize
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f, o.w, o.size = f, bufio.NewWriterSize(f, o.bufSize), info.Size()
	return nil
}

// rotate shifts path.i to path.i+1, oldest first, moves the live file to
// path.1 and reopens path. The backup past maxBackups is removed.
func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	if err := os.Remove(o.backup(o.maxBackups)); err != nil && !os.IsNotExist(err) {
		return err
	}
	for i := o.maxBackups - 1; i >= 1; i-- {
		if err := os.Rename(o.backup(i), o.backup(i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	if err := os.Rename(o.path, o.backup(1)); err != nil {
		return err
	}
	return o.open()
}

func (o *Output) backup(i int) string {
	return fmt.Sprintf("%s.%d", o.path, i)
}
