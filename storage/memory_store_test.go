package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-listings-importer/models"
)

func listing(id int64, name string, at time.Time) models.ListingRecord {
	return models.ListingRecord{
		ID: id, Name: name, Rent: 100000, FloorArea: 30,
		BuildingType: models.BuildingCondominium, CreatedAt: at, UpdatedAt: at,
	}
}

func TestMemoryStoreUpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first := time.Date(2025, 5, 5, 8, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	require.NoError(t, s.Upsert(ctx, []models.ListingRecord{listing(1, "A", first)}))
	require.NoError(t, s.Upsert(ctx, []models.ListingRecord{listing(1, "A2", later)}))

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, s.Upserts())
}

func TestMemoryStoreFetchAllSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	require.NoError(t, s.Upsert(ctx, []models.ListingRecord{listing(3, "C", now), listing(1, "A", now), listing(2, "B", now)}))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, l := range all {
		assert.Equal(t, int64(i+1), l.ID)
	}
}

func TestMemoryStoreRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	assert.Error(t, s.Upsert(ctx, []models.ListingRecord{listing(1, "A", time.Now())}))
	assert.Equal(t, 0, s.Upserts())
}

func TestCollapseByIDKeepsLastAtFirstPosition(t *testing.T) {
	now := time.Now()
	in := []models.ListingRecord{listing(1, "first", now), listing(2, "B", now), listing(1, "last", now)}

	out := collapseByID(in)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, "last", out[0].Name)
	assert.Equal(t, int64(2), out[1].ID)
}
