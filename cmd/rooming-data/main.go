package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "rooming-data",
	Short: "Rooming list dashboard",
	Long: `rooming-data serves the rooming list dashboard and its JSON API.

With no subcommand it runs the HTTP server. The query, statuses and export
commands evaluate the same search and status filters from the terminal,
and browse opens an interactive session.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (json, console)")

	rootCmd.AddCommand(serveCmd, queryCmd, statusesCmd, exportCmd, browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
