package services

import "rental-listings-importer/models"

const (
	MessageProcessed   = "Processing completed"
	MessageNoValidRows = "No valid rows to process"
)

// BuildResult derives the outcome and payload of a finished run.
// processed is the number of rows that passed validation.
func BuildResult(totalRows, processed int, errs []models.RowError, rowsWithErrors int) *models.ImportResult {
	r := &models.ImportResult{
		TotalRows:      totalRows,
		ProcessedCount: processed,
		ErrorCount:     len(errs),
		RowsWithErrors: rowsWithErrors,
	}
	if len(errs) > 0 {
		r.Errors = errs
	}

	switch {
	case len(errs) == 0:
		r.Outcome = models.OutcomeSuccess
		r.Message = MessageProcessed
	case processed == 0:
		r.Outcome = models.OutcomeRejected
		r.Message = MessageNoValidRows
	default:
		r.Outcome = models.OutcomePartial
		r.Message = MessageProcessed
	}
	return r
}
