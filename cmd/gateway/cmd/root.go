// Package cmd provides CLI commands for ferma-gateway.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ferma-gateway",
	Short: "Ferma-compatible gateway in front of the eKomKassa cloud cash-register API",
	Long: `ferma-gateway accepts Ferma-shaped fiscalization requests and relays
them to the eKomKassa (Atol v5) cloud API, translating requests, responses
and enum vocabularies in both directions.

It supports:
- Ferma authentication, receipt registration and status polling endpoints
- Automatic one-shot token refresh with stored credentials
- A full request/response audit trail in SQLite
- An admin panel API for browsing and replaying logged calls

Example:
  ferma-gateway serve
  ferma-gateway stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env plus environment)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}
