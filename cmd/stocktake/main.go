package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/stocktake/pkg/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "stocktake",
	Short: "Stocktake e2e tooling",
	Long: `Stocktake e2e tooling.

Runs a local stub of the Stocktake API and creates fixture data through
the API from a shell.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevelFlag != "" {
			logging.SetupWithLevel(logging.ParseLevel(logLevelFlag))
			return
		}
		logging.Setup()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stocktake %s\n", rootCmd.Version)
	},
}

var (
	envFileFlag  string
	logLevelFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Optional .env file; environment variables win")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (default from LOG_LEVEL)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
