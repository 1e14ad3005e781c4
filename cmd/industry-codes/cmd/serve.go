package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/industry-codes/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve catalog queries over the Redis protocol",
	Long:  "Starts a RESP server. Any Redis client can send FIND, MFIND, CATEGORIES, CATEGORY and COUNT.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	eng, err := buildEngine(cmd.Context())
	if err != nil {
		return err
	}
	return server.New(eng, addr).ListenAndServe(cmd.Context())
}
