package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/engine/catalog"
	"github.com/crimson-sun/industry-codes/internal/loader"
	"github.com/crimson-sun/industry-codes/internal/loader/file"
	"github.com/crimson-sun/industry-codes/internal/model"
)

const statsCategories = 10

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the catalog and save it as JSON",
	Long:  "Loads the catalog from the configured source, prints per-category counts, and writes the document to --out.",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOut, "out", "industry_codes.json", "destination path")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	l, release, err := newLoader()
	if err != nil {
		return err
	}
	defer release()

	doc, err := l.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w: %w", loader.ErrDataAcquisition, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: source returned no document", loader.ErrDataAcquisition)
	}
	if err := loader.Validate(doc.Industries); err != nil {
		return fmt.Errorf("%w: %w", loader.ErrDataAcquisition, err)
	}

	updated := doc.LastUpdated
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	doc = model.NewDocument(doc.Industries, doc.SourceURL, updated)

	printStats(cmd, catalog.New(doc.Industries))

	if err := file.Save(fetchOut, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d industries to %s\n", doc.TotalIndustries, fetchOut)
	return nil
}

func printStats(cmd *cobra.Command, cat *catalog.Catalog) {
	w := cmd.OutOrStdout()
	cats := cat.Categories()
	fmt.Fprintf(w, "Industries: %d\n", cat.Len())
	fmt.Fprintf(w, "Categories: %d\n", len(cats))
	for _, c := range cats[:min(statsCategories, len(cats))] {
		fmt.Fprintf(w, "  %s: %d\n", c, len(cat.ByCategory(c)))
	}
	if len(cats) > statsCategories {
		fmt.Fprintf(w, "  ... and %d more\n", len(cats)-statsCategories)
	}
}
