package multi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
)

// recordingOutput records writes; err, when set, is returned by Write and Close.
type recordingOutput struct {
	mu      sync.Mutex
	queries []string
	closed  bool
	err     error
}

func (r *recordingOutput) Write(_ context.Context, res model.QueryResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, res.Query)
	return r.err
}

func (r *recordingOutput) Close() error {
	r.closed = true
	return r.err
}

func result(q string) model.QueryResult {
	return model.QueryResult{Query: q, Field: "label", Matches: []model.ScoredMatch{}}
}

func TestWriteReachesEveryOutputInOrder(t *testing.T) {
	a, b, c := &recordingOutput{}, &recordingOutput{}, &recordingOutput{}
	m := New(a, b, c)

	want := []string{"bank", "insurance", "software", "retail"}
	for _, q := range want {
		if err := m.Write(context.Background(), result(q)); err != nil {
			t.Fatalf("Write(%q): %v", q, err)
		}
	}
	for i, o := range []*recordingOutput{a, b, c} {
		if strings.Join(o.queries, ",") != strings.Join(want, ",") {
			t.Errorf("output %d got %v, want %v", i, o.queries, want)
		}
	}
}

func TestFailingOutputIsTagged(t *testing.T) {
	diskFull := errors.New("disk full")
	failing, ok := &recordingOutput{err: diskFull}, &recordingOutput{}
	m := New(ok, failing)

	err := m.Write(context.Background(), result("bank"))
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
	if !strings.Contains(err.Error(), "output 1:") {
		t.Errorf("expected error tagged with position 1, got %q", err)
	}
	if len(ok.queries) != 1 {
		t.Fatal("healthy output should still receive the result")
	}
}

func TestCloseClosesAllAndJoinsErrors(t *testing.T) {
	e1, e2 := errors.New("first"), errors.New("second")
	a, b, c := &recordingOutput{err: e1}, &recordingOutput{}, &recordingOutput{err: e2}

	err := New(a, b, c).Close()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
	if !a.closed || !b.closed || !c.closed {
		t.Fatal("expected every output closed")
	}
}

func TestNilOutputsSkipped(t *testing.T) {
	a := &recordingOutput{}
	m := New(nil, a, nil)
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if err := m.Write(context.Background(), result("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestEmptyMulti(t *testing.T) {
	var o output.Output = New()
	if err := o.Write(context.Background(), result("x")); err != nil {
		t.Fatalf("empty Multi should accept writes, got %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("empty Multi Close: %v", err)
	}
}

type flushingOutput struct {
	recordingOutput
	flushed int
}

func (f *flushingOutput) Flush() error {
	f.flushed++
	return nil
}

func TestFlushReachesBufferingOutputs(t *testing.T) {
	buffered, plain := &flushingOutput{}, &recordingOutput{}
	if err := New(buffered, plain).Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if buffered.flushed != 1 {
		t.Fatalf("expected buffered output flushed once, got %d", buffered.flushed)
	}
}
