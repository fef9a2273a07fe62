package services

import (
	"context"
	"fmt"
	"time"

	"rental-listings-importer/models"
	"rental-listings-importer/observability"
	"rental-listings-importer/storage"
	"rental-listings-importer/utils"
)

// BatchCoordinator buffers valid listings and upserts them in fixed-size
// chunks. Chunks commit independently: a failed chunk leaves earlier ones in
// the store.
type BatchCoordinator struct {
	store     storage.ListingUpserter
	chunkSize int
	retry     *utils.RetryConfig
	metrics   *observability.Metrics
	logger    *utils.Logger
	now       func() time.Time

	buffer    []models.ListingRecord
	persisted int
	chunks    int
}

// NewBatchCoordinator creates a coordinator flushing every chunkSize records.
func NewBatchCoordinator(store storage.ListingUpserter, chunkSize int, retry *utils.RetryConfig, metrics *observability.Metrics, logger *utils.Logger) *BatchCoordinator {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &BatchCoordinator{
		store:     store,
		chunkSize: chunkSize,
		retry:     retry,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		buffer:    make([]models.ListingRecord, 0, chunkSize),
	}
}

// Add stamps l with the processing time and buffers it, flushing when the
// buffer reaches the chunk size.
func (c *BatchCoordinator) Add(ctx context.Context, l models.ListingRecord) error {
	at := c.now()
	l.CreatedAt = at
	l.UpdatedAt = at

	c.buffer = append(c.buffer, l)
	if len(c.buffer) >= c.chunkSize {
		return c.Flush(ctx)
	}
	return nil
}

// Flush upserts whatever is buffered. An empty buffer is a no-op.
func (c *BatchCoordinator) Flush(ctx context.Context) error {
	if len(c.buffer) == 0 {
		return nil
	}

	chunk := c.chunks + 1
	size := len(c.buffer)
	start := time.Now()

	err := c.retry.Do(ctx, fmt.Sprintf("upsert chunk %d", chunk), func(ctx context.Context) error {
		return c.store.Upsert(ctx, c.buffer)
	})
	if err != nil {
		c.logger.Error("[coordinator] Chunk %d (%d rows) failed: %v", chunk, size, err)
		return &models.StoreFailureError{Chunk: chunk, Size: size, Persisted: c.persisted, Err: err}
	}

	elapsed := time.Since(start)
	c.metrics.ObserveFlush(elapsed)
	c.persisted += size
	c.chunks = chunk
	c.buffer = c.buffer[:0]

	c.logger.Info("[coordinator] Chunk %d flushed: %d rows in %v (%d total)", chunk, size, elapsed.Round(time.Millisecond), c.persisted)
	return nil
}

// Persisted is the number of rows committed so far.
func (c *BatchCoordinator) Persisted() int {
	return c.persisted
}

// Chunks is the number of chunks committed so far.
func (c *BatchCoordinator) Chunks() int {
	return c.chunks
}

// Pending is the number of buffered rows not yet flushed.
func (c *BatchCoordinator) Pending() int {
	return len(c.buffer)
}
