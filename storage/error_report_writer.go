package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"rental-listings-importer/models"
)

// CSVErrorReport writes row/column validation errors as CSV.
// It is safe for concurrent use.
type CSVErrorReport struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVErrorReport creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVErrorReport(path string) (*CSVErrorReport, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	r, err := newCSVErrorReport(f, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func newCSVErrorReport(w io.Writer, c io.Closer) (*CSVErrorReport, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row", "column"}); err != nil {
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	cw.Flush()
	return &CSVErrorReport{closer: c, writer: cw}, cw.Error()
}

// WriteErrors appends errs to the report in the given order.
func (c *CSVErrorReport) WriteErrors(errs []models.RowError) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range errs {
		if err := c.writer.Write([]string{strconv.Itoa(e.Row), e.Column}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVErrorReport) Close() error {
	c.writer.Flush()
	if c.closer == nil {
		return c.writer.Error()
	}
	return c.closer.Close()
}
