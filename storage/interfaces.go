package storage

import (
	"context"

	"rental-listings-importer/models"
)

// ListingUpserter inserts missing listings and overwrites existing ones by ID.
// created_at of an existing listing is never changed.
type ListingUpserter interface {
	Upsert(ctx context.Context, listings []models.ListingRecord) error
}

// ListingReader reads back stored listings.
type ListingReader interface {
	FetchAll(ctx context.Context) ([]*models.ListingRecord, error)
	Count(ctx context.Context) (int, error)
}

// ListingStore is the interface any storage backend must satisfy.
type ListingStore interface {
	ListingUpserter
	ListingReader
	Close() error
}

// ErrorReportWriter is the interface for persisting row/column validation errors.
type ErrorReportWriter interface {
	WriteErrors(errs []models.RowError) error
	Close() error
}

// collapseByID keeps the last occurrence of every ID, at the position of its
// first occurrence. A single upsert statement may not touch a key twice.
func collapseByID(listings []models.ListingRecord) []models.ListingRecord {
	pos := make(map[int64]int, len(listings))
	out := make([]models.ListingRecord, 0, len(listings))
	for _, l := range listings {
		if i, ok := pos[l.ID]; ok {
			out[i] = l
			continue
		}
		pos[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}
