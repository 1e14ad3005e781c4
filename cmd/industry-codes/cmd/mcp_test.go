package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/engine/testdata"
	"github.com/crimson-sun/industry-codes/internal/model"
)

func fixtureEngine() *engine.Engine {
	return engine.New(catalog.New(testdata.Records()), engine.WithWorkers(2))
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return res, text.Text
}

func TestMCPFind(t *testing.T) {
	h := makeFindHandler(fixtureEngine(), 1)

	res, text := callTool(t, h, map[string]any{"query": "restaurant", "top_n": 3.0})
	require.False(t, res.IsError, text)

	var matches []model.ScoredMatch
	require.NoError(t, json.Unmarshal([]byte(text), &matches))
	require.Len(t, matches, 3)
	assert.Equal(t, 32, matches[0].ID)
	assert.Equal(t, 1, matches[0].Distance)
}

func TestMCPFind_DefaultTop(t *testing.T) {
	h := makeFindHandler(fixtureEngine(), 1)

	_, text := callTool(t, h, map[string]any{"query": "retail"})
	var matches []model.ScoredMatch
	require.NoError(t, json.Unmarshal([]byte(text), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, 27, matches[0].ID)
}

func TestMCPFind_Errors(t *testing.T) {
	h := makeFindHandler(fixtureEngine(), 1)

	res, text := callTool(t, h, map[string]any{"query": "retail", "search_field": "name"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "unknown search field")

	res, _ = callTool(t, h, map[string]any{"query": "retail", "top_n": -1.0})
	assert.True(t, res.IsError)
}

func TestMCPFind_EmptyQuery(t *testing.T) {
	eng := fixtureEngine()
	h := makeFindHandler(eng, 1)

	want, err := eng.FindClosest("", 2, engine.FieldLabel)
	require.NoError(t, err)
	require.Len(t, want, 2)

	for _, args := range []map[string]any{
		{"query": "", "top_n": 2.0},
		{"top_n": 2.0},
	} {
		res, text := callTool(t, h, args)
		require.False(t, res.IsError, text)

		var matches []model.ScoredMatch
		require.NoError(t, json.Unmarshal([]byte(text), &matches))
		require.Len(t, matches, 2)
		assert.Equal(t, want[0].ID, matches[0].ID)
		assert.Equal(t, want[1].ID, matches[1].ID)
		assert.Equal(t, len([]rune(matches[0].Label)), matches[0].Distance)
	}
}

func TestMCPFind_ZeroTop(t *testing.T) {
	h := makeFindHandler(fixtureEngine(), 1)

	res, text := callTool(t, h, map[string]any{"query": "retail", "top_n": 0.0})
	assert.False(t, res.IsError)
	assert.Contains(t, text, "No industries found")
}

func TestMCPCategories(t *testing.T) {
	h := makeCategoriesHandler(fixtureEngine())

	res, text := callTool(t, h, nil)
	assert.False(t, res.IsError)
	assert.Contains(t, text, "## Industry categories (10)")
	assert.Contains(t, text, "- Accommodation Services\n")
}

func TestMCPByCategory(t *testing.T) {
	h := makeByCategoryHandler(fixtureEngine())

	res, text := callTool(t, h, map[string]any{"category": "EDUCATION"})
	require.False(t, res.IsError, text)

	var records []model.Record
	require.NoError(t, json.Unmarshal([]byte(text), &records))
	require.Len(t, records, 2)
	assert.Equal(t, 68, records[0].ID)
	assert.Equal(t, 1999, records[1].ID)

	res, _ = callTool(t, h, map[string]any{"category": "Mining"})
	assert.True(t, res.IsError)

	res, _ = callTool(t, h, map[string]any{})
	assert.True(t, res.IsError)
}

func TestMCPServerRegistersTools(t *testing.T) {
	s := newMCPServer(fixtureEngine())
	require.NotNil(t, s)
}
