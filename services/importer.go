package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rental-listings-importer/config"
	"rental-listings-importer/events"
	"rental-listings-importer/ingest"
	"rental-listings-importer/models"
	"rental-listings-importer/observability"
	"rental-listings-importer/storage"
	"rental-listings-importer/utils"
)

// ImportNotifier is told about every completed run.
type ImportNotifier interface {
	PublishImportCompleted(ctx context.Context, s events.ImportSummary) error
}

// ImporterOptions configures an Importer. Zero values fall back to defaults.
type ImporterOptions struct {
	ChunkSize int
	Retry     *utils.RetryConfig
	Metrics   *observability.Metrics
	Notifier  ImportNotifier
	Logger    *utils.Logger
}

// Importer runs the read → map → validate → upsert pipeline over one file.
// An Importer holds no per-run state and may be shared between goroutines.
type Importer struct {
	store     storage.ListingUpserter
	mapper    *ingest.Mapper
	validator *ingest.Validator
	chunkSize int
	retry     *utils.RetryConfig
	metrics   *observability.Metrics
	notifier  ImportNotifier
	logger    *utils.Logger
}

func NewImporter(store storage.ListingUpserter, opts ImporterOptions) *Importer {
	if opts.ChunkSize < 1 {
		opts.ChunkSize = config.DefaultChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &Importer{
		store:     store,
		mapper:    ingest.NewMapper(),
		validator: ingest.NewValidator(),
		chunkSize: opts.ChunkSize,
		retry:     opts.Retry,
		metrics:   opts.Metrics,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}
}

// Import processes data and reports the outcome. It returns a
// *models.MalformedInputError when data is not a well-formed table, in which
// case nothing was written, and a *models.StoreFailureError when a chunk could
// not be upserted, in which case earlier chunks stay committed.
func (imp *Importer) Import(ctx context.Context, data []byte) (*models.ImportResult, error) {
	runID := uuid.NewString()
	log := imp.logger.With("run_id", runID)
	start := time.Now()

	table, err := ingest.ReadTable(data)
	if err != nil {
		imp.metrics.ObserveRun("malformed")
		log.Error("[import] Rejected malformed input: %v", err)
		return nil, err
	}
	log.Info("[import] Read %d data rows (%d bytes)", table.Len(), len(data))

	if missing := imp.mapper.MissingColumns(table); len(missing) > 0 && table.Len() > 0 {
		log.Warn("[import] Header has no column for %v, affected rows will fail validation", missing)
	}

	agg := ingest.NewErrorAggregator()
	retry := imp.retry
	if retry != nil && retry.Logger == nil {
		r := *retry
		r.Logger = log
		retry = &r
	}
	coord := NewBatchCoordinator(imp.store, imp.chunkSize, retry, imp.metrics, log)

	total, valid, coerced := 0, 0, 0
	for row := range table.Rows() {
		total++

		c := imp.mapper.Map(row)
		if len(c.Coerced) > 0 {
			coerced++
		}

		if violations := imp.validator.Validate(c, row.Number); len(violations) > 0 {
			for _, v := range violations {
				if agg.Add(v) {
					imp.metrics.ObserveViolation(string(v.Column))
				}
			}
			continue
		}

		valid++
		if err := coord.Add(ctx, c.Record); err != nil {
			return nil, imp.storeFailed(log, err)
		}
	}
	if err := coord.Flush(ctx); err != nil {
		return nil, imp.storeFailed(log, err)
	}

	imp.metrics.ObserveRows(valid, total-valid)

	result := BuildResult(total, valid, agg.Errors(), agg.RowsWithErrors())
	result.RunID = runID
	result.Chunks = coord.Chunks()
	imp.metrics.ObserveRun(string(result.Outcome))

	if coerced > 0 {
		log.Debug("[import] %d rows had numeric values reduced to their leading digits", coerced)
	}
	log.Info("[import] Finished %s: %d rows, %d processed, %d errors on %d rows, %d chunks in %v",
		result.Outcome, result.TotalRows, result.ProcessedCount, result.ErrorCount,
		result.RowsWithErrors, result.Chunks, time.Since(start).Round(time.Millisecond))

	imp.notify(ctx, log, result)
	return result, nil
}

func (imp *Importer) storeFailed(log *utils.Logger, err error) error {
	imp.metrics.ObserveRun("store_failure")

	var sf *models.StoreFailureError
	if errors.As(err, &sf) {
		log.Error("[import] Aborted on chunk %d, %d rows remain committed: %v", sf.Chunk, sf.Persisted, sf.Err)
	}
	return err
}

func (imp *Importer) notify(ctx context.Context, log *utils.Logger, r *models.ImportResult) {
	if imp.notifier == nil {
		return
	}

	summary := events.ImportSummary{
		RunID:          r.RunID,
		Outcome:        string(r.Outcome),
		TotalRows:      r.TotalRows,
		ProcessedCount: r.ProcessedCount,
		ErrorCount:     r.ErrorCount,
		CompletedAt:    time.Now().UTC(),
	}
	if err := imp.notifier.PublishImportCompleted(ctx, summary); err != nil {
		log.Warn("[import] Could not publish completion event: %v", err)
	}
}
