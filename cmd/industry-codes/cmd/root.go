package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/config"
	"github.com/crimson-sun/industry-codes/internal/logging"

	// Register catalog sources.
	_ "github.com/crimson-sun/industry-codes/internal/loader/cdn"
	_ "github.com/crimson-sun/industry-codes/internal/loader/file"
	_ "github.com/crimson-sun/industry-codes/internal/loader/scrape"
)

var (
	flagConfig   string
	flagSource   string
	flagCatalog  string
	flagURL      string
	flagCache    string
	flagLogLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:          "industry-codes",
	Short:        "Match free text to LinkedIn industry codes",
	Long:         "Find the closest industries in the LinkedIn industry codes v2 catalog by Levenshtein similarity.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context so servers and batch runs shut down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "catalog source: cdn, scrape or file")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog JSON path (file source)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "catalog URL (cdn and scrape sources)")
	rootCmd.PersistentFlags().StringVar(&flagCache, "cache", "", "bbolt cache path; empty disables caching")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")
}

// setup loads the config, lets flags override it, and initializes logging.
func setup() error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagSource != "" {
		c.Catalog.Source = flagSource
	}
	if flagCatalog != "" {
		c.Catalog.Path = flagCatalog
		if flagSource == "" {
			c.Catalog.Source = "file"
		}
	}
	if flagURL != "" {
		c.Catalog.URL = flagURL
	}
	if flagCache != "" {
		c.Catalog.CachePath = flagCache
	}
	if flagLogLevel != "" {
		c.Log.Level = flagLogLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.Init(c.Log.JSON, logging.ParseLevel(c.Log.Level))
	cfg = c
	return nil
}
