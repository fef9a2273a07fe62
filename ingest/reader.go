package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"rental-listings-importer/models"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Table is a fully parsed delimited file: one header line followed by data
// records of the same width.
type Table struct {
	header  []string
	index   map[string]int
	records [][]string
}

// Row is one data record. Number is 1-based with the header as row 1, so the
// first data record is row 2.
type Row struct {
	Number int
	table  *Table
	values []string
}

// ReadTable parses the whole input before returning, so a structural error
// anywhere in the file is reported before any row is handed out.
func ReadTable(data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, &models.MalformedInputError{Err: errors.New("input is not valid UTF-8")}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 0

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, malformed(err)
	}

	t := &Table{
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		t.header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &models.MalformedInputError{Line: pe.Line, Err: pe.Err}
	}
	return &models.MalformedInputError{Err: fmt.Errorf("read csv: %w", err)}
}

// Header returns the trimmed column names in file order.
func (t *Table) Header() []string {
	return t.header
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// HasColumn reports whether name appears in the header.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Rows yields data rows in file order.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i, rec := range t.records {
			if !yield(Row{Number: i + 2, table: t, values: rec}) {
				return
			}
		}
	}
}

// Get returns the raw value of column name. The bool is false when the
// header has no such column.
func (r Row) Get(name string) (string, bool) {
	i, ok := r.table.index[name]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}
