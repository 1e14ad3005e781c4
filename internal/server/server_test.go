package server

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/redcon"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/engine/testdata"
	"github.com/crimson-sun/industry-codes/internal/model"
)

// fakeConn records what a handler writes. Methods not overridden panic via
// the nil embedded interface, which flags unexpected calls.
type fakeConn struct {
	redcon.Conn
	replies []any
	errs    []string
	closed  bool
}

func (c *fakeConn) WriteString(s string)  { c.replies = append(c.replies, s) }
func (c *fakeConn) WriteBulk(b []byte)    { c.replies = append(c.replies, string(b)) }
func (c *fakeConn) WriteAny(v any)        { c.replies = append(c.replies, v) }
func (c *fakeConn) WriteError(msg string) { c.errs = append(c.errs, msg) }
func (c *fakeConn) RemoteAddr() string    { return "127.0.0.1:50000" }
func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestServer() *Server {
	return New(engine.New(catalog.New(testdata.Records())), ":0")
}

func run(s *Server, args ...string) *fakeConn {
	cmd := redcon.Command{Args: make([][]byte, len(args))}
	for i, a := range args {
		cmd.Args[i] = []byte(a)
	}
	c := &fakeConn{}
	s.handle(c, cmd)
	return c
}

func decodeMatches(t *testing.T, v any) []model.ScoredMatch {
	t.Helper()
	raw, ok := v.([]string)
	require.True(t, ok, "expected []string reply, got %T", v)
	out := make([]model.ScoredMatch, len(raw))
	for i, s := range raw {
		require.NoError(t, json.Unmarshal([]byte(s), &out[i]))
	}
	return out
}

func TestPing(t *testing.T) {
	s := newTestServer()
	assert.Equal(t, []any{"PONG"}, run(s, "PING").replies)
	assert.Equal(t, []any{"hello"}, run(s, "ping", "hello").replies)
}

func TestQuit(t *testing.T) {
	c := run(newTestServer(), "QUIT")
	assert.True(t, c.closed)
	assert.Equal(t, []any{"OK"}, c.replies)
}

func TestUnsupportedCommand(t *testing.T) {
	c := run(newTestServer(), "SET", "k", "v")
	require.Len(t, c.errs, 1)
	assert.Equal(t, "ERR unsupported command 'set'", c.errs[0])
}

func TestEmptyCommand(t *testing.T) {
	c := &fakeConn{}
	newTestServer().handle(c, redcon.Command{})
	assert.Equal(t, []string{"ERR empty command"}, c.errs)
}

func TestFindDefaults(t *testing.T) {
	c := run(newTestServer(), "FIND", "restaurants")
	require.Empty(t, c.errs)
	require.Len(t, c.replies, 1)

	ms := decodeMatches(t, c.replies[0])
	require.Len(t, ms, 1)
	assert.Equal(t, 32, ms[0].ID)
	assert.Equal(t, 0, ms[0].Distance)
	assert.InDelta(t, 1.0, ms[0].Similarity, 1e-12)
}

func TestFindOptions(t *testing.T) {
	c := run(newTestServer(), "find", "financial services", "top", "3", "FIELD", "hierarchy")
	require.Empty(t, c.errs)

	ms := decodeMatches(t, c.replies[0])
	require.Len(t, ms, 3)
	for i := 1; i < len(ms); i++ {
		assert.GreaterOrEqual(t, ms[i-1].Similarity, ms[i].Similarity)
	}
	assert.Equal(t, "Financial Services", ms[0].Category)
}

func TestFindErrors(t *testing.T) {
	s := newTestServer()
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no query", []string{"FIND"}, "ERR wrong number of arguments for 'find' command"},
		{"dangling option", []string{"FIND", "bank", "TOP"}, "ERR wrong number of arguments for 'find' command"},
		{"bad top", []string{"FIND", "bank", "TOP", "many"}, `ERR value is not an integer: "many"`},
		{"negative top", []string{"FIND", "bank", "TOP", "-1"}, "ERR invalid argument"},
		{"bad field", []string{"FIND", "bank", "FIELD", "name"}, "ERR invalid argument"},
		{"bad option", []string{"FIND", "bank", "LIMIT", "2"}, "ERR syntax error near 'limit'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := run(s, tt.args...)
			require.Len(t, c.errs, 1)
			assert.Contains(t, c.errs[0], tt.want)
			assert.Empty(t, c.replies)
		})
	}
}

func TestMFind(t *testing.T) {
	c := run(newTestServer(), "MFIND", "label", "2", "banking", "insurance", "accounting")
	require.Empty(t, c.errs)

	reply, ok := c.replies[0].([]any)
	require.True(t, ok)
	require.Len(t, reply, 3)
	for i, want := range []string{"Banking", "Insurance", "Accounting"} {
		ms := decodeMatches(t, reply[i])
		require.Len(t, ms, 2)
		assert.Equal(t, want, ms[0].Label)
	}
}

func TestMFindSlotErrors(t *testing.T) {
	c := run(newTestServer(), "MFIND", "name", "1", "banking", "insurance")
	require.Empty(t, c.errs, "argument errors are reported per slot")

	reply := c.replies[0].([]any)
	require.Len(t, reply, 2)
	for _, slot := range reply {
		err, ok := slot.(error)
		require.True(t, ok, "expected error slot, got %T", slot)
		assert.ErrorIs(t, err, engine.ErrInvalidArgument)
	}
}

func TestMFindArgErrors(t *testing.T) {
	s := newTestServer()
	c := run(s, "MFIND", "label", "1")
	assert.Equal(t, []string{"ERR wrong number of arguments for 'mfind' command"}, c.errs)

	c = run(s, "MFIND", "label", "x", "bank")
	require.Len(t, c.errs, 1)
	assert.Contains(t, c.errs[0], "not an integer")
}

func TestCategories(t *testing.T) {
	s := newTestServer()
	c := run(s, "CATEGORIES")
	require.Empty(t, c.errs)
	assert.Equal(t, s.eng.Categories(), c.replies[0])

	c = run(s, "CATEGORIES", "extra")
	assert.Len(t, c.errs, 1)
}

func TestCategory(t *testing.T) {
	c := run(newTestServer(), "CATEGORY", "financial services")
	require.Empty(t, c.errs)

	raw := c.replies[0].([]string)
	require.NotEmpty(t, raw)
	for _, s := range raw {
		var r model.Record
		require.NoError(t, json.Unmarshal([]byte(s), &r))
		assert.Equal(t, "Financial Services", r.Category)
	}

	c = run(newTestServer(), "CATEGORY", "Nonexistent")
	assert.Equal(t, []string{}, c.replies[0])
}

func TestCount(t *testing.T) {
	c := run(newTestServer(), "COUNT")
	require.Empty(t, c.errs)
	assert.Equal(t, redcon.SimpleInt(len(testdata.Records())), c.replies[0])
}

func TestErrorReply(t *testing.T) {
	assert.Equal(t, "ERR boom", errorReply(errors.New("boom")))
	assert.Equal(t, "ERR already", errorReply(errors.New("ERR already")))
}
