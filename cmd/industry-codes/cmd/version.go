package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// No config or logging needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "industry-codes %s\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
