package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rental-listings-importer/models"
)

func TestBuildResultOutcomes(t *testing.T) {
	errs := []models.RowError{{Row: 3, Column: "name"}, {Row: 3, Column: "rent"}}

	tests := []struct {
		name      string
		total     int
		processed int
		errs      []models.RowError
		rows      int
		outcome   models.Outcome
		message   string
	}{
		{"all valid", 2, 2, nil, 0, models.OutcomeSuccess, MessageProcessed},
		{"empty file", 0, 0, nil, 0, models.OutcomeSuccess, MessageProcessed},
		{"mixed", 2, 1, errs, 1, models.OutcomePartial, MessageProcessed},
		{"all invalid", 1, 0, errs, 1, models.OutcomeRejected, MessageNoValidRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildResult(tt.total, tt.processed, tt.errs, tt.rows)
			assert.Equal(t, tt.outcome, r.Outcome)
			assert.Equal(t, tt.message, r.Message)
			assert.Equal(t, tt.total, r.TotalRows)
			assert.Equal(t, tt.processed, r.ProcessedCount)
			assert.Equal(t, len(tt.errs), r.ErrorCount)
		})
	}
}

func TestBuildResultOmitsEmptyErrors(t *testing.T) {
	r := BuildResult(1, 1, []models.RowError{}, 0)
	assert.Nil(t, r.Errors)
}
