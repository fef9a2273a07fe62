package models

// RowError identifies one failing field on one data row. Row 1 is the header.
type RowError struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
}

// Outcome summarises a whole import run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeRejected Outcome = "rejected"
)

// ImportResult is what an import run reports back to its caller.
type ImportResult struct {
	Message        string     `json:"message"`
	TotalRows      int        `json:"total_rows"`
	ProcessedCount int        `json:"processed_count"`
	ErrorCount     int        `json:"error_count"`
	Errors         []RowError `json:"errors,omitempty"`

	RunID          string  `json:"-"`
	Outcome        Outcome `json:"-"`
	RowsWithErrors int     `json:"-"`
	Chunks         int     `json:"-"`
}
