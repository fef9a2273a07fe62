package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rental-listings-importer/api"
	"rental-listings-importer/config"
	"rental-listings-importer/events"
	"rental-listings-importer/observability"
	"rental-listings-importer/services"
	"rental-listings-importer/utils"
)

func newServeCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API and Prometheus metrics",
		Long: `
Starts the HTTP upload endpoint (POST /api/web/v1/rental_listings) on
HTTP_PORT and /metrics on METRICS_PORT. Completed imports are published to
NATS when NATS_URL is set.
`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, config.Load())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	defer logger.Sync()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics := observability.NewMetrics()
	opts := services.ImporterOptions{
		ChunkSize: cfg.ChunkSize,
		Retry:     retryConfig(cfg),
		Metrics:   metrics,
		Logger:    logger,
	}

	if cfg.NATSURL != "" {
		publisher, err := events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		opts.Notifier = publisher
	}

	importer := services.NewImporter(store, opts)
	gate := utils.NewGate(cfg.MaxConcurrentImports)
	handler := api.NewListingImportHandler(importer, gate, cfg.MaxUploadBytes, logger)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("[http] Listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("[http] Shutting down")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		logger.Info("[metrics] Listening on :%s/metrics", cfg.MetricsPort)
		return metrics.Serve(gctx, cfg.MetricsPort)
	})

	return g.Wait()
}
