package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct top-level industry categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var categoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "List the industries in a top-level category",
	Long:  "Prints every record in the category as one JSON object per line. The name is matched case-insensitively.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategory,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(categoryCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, c := range eng.Categories() {
		fmt.Fprintln(w, c)
	}
	return nil
}

func runCategory(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	records := eng.FindByCategory(args[0])
	if len(records) == 0 {
		return fmt.Errorf("no industries in category %q", args[0])
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
