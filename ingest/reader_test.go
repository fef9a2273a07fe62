package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-listings-importer/models"
)

func collectRows(t *Table) []Row {
	var rows []Row
	for r := range t.Rows() {
		rows = append(rows, r)
	}
	return rows
}

func TestReadTableNumbersRowsFromTwo(t *testing.T) {
	data := "id,name\n1,A\n2,B\n3,C\n"

	tbl, err := ReadTable([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, tbl.Header())
	assert.Equal(t, 3, tbl.Len())

	rows := collectRows(tbl)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i+2, r.Number)
	}

	v, ok := rows[1].Get("name")
	assert.True(t, ok)
	assert.Equal(t, "B", v)

	_, ok = rows[1].Get("rent")
	assert.False(t, ok)
}

func TestReadTableSkipsBlankLinesWithoutNumberingThem(t *testing.T) {
	tbl, err := ReadTable([]byte("h1,h2\n1,A\n\n,\n"))
	require.NoError(t, err)

	rows := collectRows(tbl)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, 3, rows[1].Number)

	for _, col := range []string{"h1", "h2"} {
		v, ok := rows[1].Get(col)
		assert.True(t, ok)
		assert.Empty(t, v)
	}
}

func TestReadTableStripsBOMAndTrimsHeader(t *testing.T) {
	data := "\xef\xbb\xbfユニークID , 物件名\n1,シーサイドアパート\n"

	tbl, err := ReadTable([]byte(data))
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("ユニークID"))
	assert.True(t, tbl.HasColumn("物件名"))
}

func TestReadTableEmptyInput(t *testing.T) {
	tbl, err := ReadTable(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, collectRows(tbl))
}

func TestReadTableHeaderOnly(t *testing.T) {
	tbl, err := ReadTable([]byte("id,name\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestReadTableMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unbalanced quote", "id,name\n1,\"Seaside\n2,B\n"},
		{"bare quote in field", "id,name\n1,Sea\"side\n"},
		{"too many fields", "id,name\n1,A,extra\n"},
		{"too few fields", "id,name\n1\n"},
		{"invalid utf-8", "id,name\n1,\xff\xfe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadTable([]byte(tt.data))
			assert.Nil(t, tbl)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMalformedInput), "got %v", err)

			var mie *models.MalformedInputError
			assert.True(t, errors.As(err, &mie))
		})
	}
}

func TestReadTableMalformedLateInFileReportsLine(t *testing.T) {
	data := "id,name\n1,A\n2,B\n3,\"C\n"

	_, err := ReadTable([]byte(data))
	var mie *models.MalformedInputError
	require.True(t, errors.As(err, &mie))
	assert.Greater(t, mie.Line, 1)
}

func TestRowsStopsWhenYieldReturnsFalse(t *testing.T) {
	tbl, err := ReadTable([]byte("id\n1\n2\n3\n"))
	require.NoError(t, err)

	seen := 0
	for range tbl.Rows() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
