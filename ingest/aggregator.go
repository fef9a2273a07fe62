package ingest

import (
	"sort"

	"rental-listings-importer/models"
)

// ErrorAggregator collects violations keyed by (row, column). A key is
// recorded once no matter how many rules failed for it.
type ErrorAggregator struct {
	seen  map[models.RowError]struct{}
	order []models.RowError
	rows  map[int]struct{}
}

func NewErrorAggregator() *ErrorAggregator {
	return &ErrorAggregator{
		seen: make(map[models.RowError]struct{}),
		rows: make(map[int]struct{}),
	}
}

// Add records v and reports whether its (row, column) key was new.
func (a *ErrorAggregator) Add(v Violation) bool {
	key := models.RowError{Row: v.Row, Column: string(v.Column)}
	if _, dup := a.seen[key]; dup {
		return false
	}
	a.seen[key] = struct{}{}
	a.rows[v.Row] = struct{}{}
	a.order = append(a.order, key)
	return true
}

// AddAll records every violation in vs.
func (a *ErrorAggregator) AddAll(vs []Violation) {
	for _, v := range vs {
		a.Add(v)
	}
}

// Count is the number of distinct (row, column) keys.
func (a *ErrorAggregator) Count() int {
	return len(a.order)
}

// RowsWithErrors is the number of distinct rows with at least one key.
func (a *ErrorAggregator) RowsWithErrors() int {
	return len(a.rows)
}

// Errors returns the keys ordered by row, then by the order the fields were
// first reported within that row.
func (a *ErrorAggregator) Errors() []models.RowError {
	out := make([]models.RowError, len(a.order))
	copy(out, a.order)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}
