package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"rental-listings-importer/config"
	"rental-listings-importer/services"
)

func newStatsCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print insights over the stored listings",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg)
			defer logger.Sync()

			store, err := openStore(c.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			listings, err := store.FetchAll(c.Context())
			if err != nil {
				return err
			}

			svc := services.NewInsightService(logger)
			svc.Print(stdout, svc.Generate(listings))
			return nil
		},
	}
}
