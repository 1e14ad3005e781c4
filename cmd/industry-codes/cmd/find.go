package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/engine"
	"github.com/crimson-sun/industry-codes/internal/model"
	"github.com/crimson-sun/industry-codes/internal/output"
	"github.com/crimson-sun/industry-codes/internal/output/stdout"
)

var (
	findTop       int
	findField     string
	findPretty    bool
	findVerbosity string
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find the closest industries for a query",
	Long:  "Scores every catalog record against the query and prints the best matches as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().IntVar(&findTop, "top", 0, "number of matches (default from config)")
	findCmd.Flags().StringVar(&findField, "field", "", "label, hierarchy or both (default from config)")
	findCmd.Flags().BoolVar(&findPretty, "pretty", false, "indent JSON output")
	findCmd.Flags().StringVar(&findVerbosity, "verbosity", "", "minimal, standard or full (default from config)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	topN := cfg.Engine.TopN
	if cmd.Flags().Changed("top") {
		topN = findTop
	}
	fieldName := cfg.Engine.Field
	if findField != "" {
		fieldName = findField
	}
	field, err := engine.ParseSearchField(fieldName)
	if err != nil {
		return err
	}
	verbosity, err := resolveVerbosity(findVerbosity)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	matches, err := eng.FindClosest(args[0], topN, field)
	if err != nil {
		return err
	}

	out := stdout.NewWriter(cmd.OutOrStdout(), verbosity, findPretty || cfg.Output.Pretty)
	defer out.Close()
	return out.Write(cmd.Context(), model.QueryResult{
		Query:   args[0],
		Field:   field.String(),
		Matches: matches,
	})
}

// resolveVerbosity parses a flag value, falling back to the config.
func resolveVerbosity(flag string) (output.Verbosity, error) {
	if flag == "" {
		flag = cfg.Output.Verbosity
	}
	return output.ParseVerbosity(flag)
}
