package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rental-listings-importer/config"
	"rental-listings-importer/models"
	"rental-listings-importer/services"
	"rental-listings-importer/storage"
)

var errRejected = errors.New("no valid rows to process")

type importOptions struct {
	ErrorsOut string
	ChunkSize int
}

func newImportCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &importOptions{}
	ccmd := &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Import a rental listing CSV file",
		Long: `
Reads a rental listing CSV file ("-" for stdin), upserts the valid rows and
prints the result as JSON. Exits non-zero when the file is malformed, when
the store fails, or when no row is valid.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			if opts.ChunkSize > 0 {
				cfg.ChunkSize = opts.ChunkSize
			}
			return runImport(c.Context(), cfg, args[0], opts, stdin, stdout, stderr)
		},
	}

	flags := ccmd.Flags()
	flags.StringVar(&opts.ErrorsOut, "errors-out", "", "write row/column errors to this CSV file")
	flags.IntVar(&opts.ChunkSize, "chunk-size", 0, "override CHUNK_SIZE for this run")
	return ccmd
}

func runImport(ctx context.Context, cfg *config.Config, path string, opts *importOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := newLogger(cfg)
	defer logger.Sync()

	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := services.NewImporter(store, services.ImporterOptions{
		ChunkSize: cfg.ChunkSize,
		Retry:     retryConfig(cfg),
		Logger:    logger,
	})

	result, err := importer.Import(ctx, data)
	if err != nil {
		return err
	}

	if opts.ErrorsOut != "" && len(result.Errors) > 0 {
		if err := writeErrorReport(opts.ErrorsOut, result.Errors); err != nil {
			return err
		}
		logger.Info("[import] Wrote %d errors to %s", len(result.Errors), opts.ErrorsOut)
	}

	fmt.Fprintf(stderr, "run %s: %s, %d rows upserted in %d chunks of up to %d\n",
		result.RunID, result.Outcome, result.ProcessedCount, result.Chunks, cfg.ChunkSize)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if result.Outcome == models.OutcomeRejected {
		return errRejected
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeErrorReport(path string, errs []models.RowError) error {
	report, err := storage.NewCSVErrorReport(path)
	if err != nil {
		return err
	}
	if err := report.WriteErrors(errs); err != nil {
		report.Close()
		return err
	}
	return report.Close()
}
