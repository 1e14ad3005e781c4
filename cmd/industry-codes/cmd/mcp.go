package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/config"
	"github.com/crimson-sun/industry-codes/internal/engine"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing industry lookup tools over stdio",
	Args:  cobra.NoArgs,
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	return mcpserver.ServeStdio(newMCPServer(eng))
}

func newMCPServer(eng *engine.Engine) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("industry-codes", config.Version, mcpserver.WithToolCapabilities(false))
	s.AddTool(findClosestTool(), makeFindHandler(eng, cfg.Engine.TopN))
	s.AddTool(listCategoriesTool(), makeCategoriesHandler(eng))
	s.AddTool(byCategoryTool(), makeByCategoryHandler(eng))
	return s
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func findClosestTool() mcp.Tool {
	return mcp.NewTool("find_closest_industry",
		mcp.WithDescription("Find the LinkedIn industries whose label or hierarchy is closest to the query by Levenshtein similarity. Returns industry ids, labels, hierarchies and scores."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text industry description, e.g. 'software dev'"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of matches to return (default 1)"),
		),
		mcp.WithString("search_field",
			mcp.Description("Record text to compare against (default label)"),
			mcp.Enum("label", "hierarchy", "both"),
		),
	)
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_industry_categories",
		mcp.WithDescription("List the distinct top-level industry categories, sorted."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func byCategoryTool() mcp.Tool {
	return mcp.NewTool("find_industries_by_category",
		mcp.WithDescription("List every industry under a top-level category. The name is matched case-insensitively."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Top-level category, as returned by list_industry_categories"),
		),
	)
}

// --- Handler factories ---

func makeFindHandler(eng *engine.Engine, defaultTop int) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		topN := req.GetInt("top_n", defaultTop)
		field, err := engine.ParseSearchField(req.GetString("search_field", engine.FieldLabel.String()))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		matches, err := eng.FindClosest(query, topN, field)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No industries found for query: %q", query)), nil
		}
		return jsonResult(matches)
	}
}

func makeCategoriesHandler(eng *engine.Engine) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cats := eng.Categories()
		var sb strings.Builder
		fmt.Fprintf(&sb, "## Industry categories (%d)\n\n", len(cats))
		for _, c := range cats {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeByCategoryHandler(eng *engine.Engine) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("category", "")
		if strings.TrimSpace(name) == "" {
			return mcp.NewToolResultError("category is required"), nil
		}
		records := eng.FindByCategory(name)
		if len(records) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf("category %q not found; call list_industry_categories to see available names", name)), nil
		}
		return jsonResult(records)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
