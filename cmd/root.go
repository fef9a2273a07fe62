package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"rental-listings-importer/config"
	"rental-listings-importer/utils"
)

// NewRootCommand builds the CLI. Subcommands write results to stdout and
// logs to stderr.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "rental-listings-importer",
		Short: "Validate rental listing CSV files and upsert them into a store.",
		Long: `Validate rental listing CSV files and upsert them into a store.

Rows are checked against the listing schema; valid rows are written in
chunks, invalid rows are reported by row number and column. The store
backend and tuning knobs come from environment variables (or a .env file).
`,
		SilenceUsage: true,
	}

	rc.AddCommand(newImportCommand(stdin, stdout, stderr))
	rc.AddCommand(newServeCommand(stdin, stdout, stderr))
	rc.AddCommand(newStatsCommand(stdin, stdout, stderr))

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// Execute runs the root command against the process's standard streams.
func Execute() int {
	if err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) *utils.Logger {
	return utils.NewLogger(utils.LoggerConfig{Level: cfg.LogLevel, Encoding: cfg.LogFormat})
}
