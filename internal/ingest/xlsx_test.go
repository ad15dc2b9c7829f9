package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tscheck/internal/errors"
)

// buildWorkbook writes rows into the named sheet of a fresh workbook and
// returns the serialized bytes.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestLoadXLSX(t *testing.T) {
	buf := buildWorkbook(t, "prices", [][]interface{}{
		{"Date", "Close", "Volume"},
		{"2024-01-01", "100.5", "1000"},
		{"2024-01-02", "101.0", "1100"},
	})

	table, err := LoadXLSX(buf, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Close", "Volume"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-01", table.Rows[0].Date)
	assert.Equal(t, "100.5", table.Rows[0].Values["Close"])
}

func TestLoadXLSX_SkipsLeadingBlankRows(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", [][]interface{}{
		{},
		{"Date", "Close"},
		{"2024-01-01", "100"},
	})

	table, err := LoadXLSX(buf, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Close"}, table.Columns)
	require.Len(t, table.Rows, 1)
}

func TestLoadXLSX_EmptyWorkbook(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", nil)

	_, err := LoadXLSX(buf, testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsEmptyInputError(err))
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSX(strings.NewReader("plain text, not a zip"), testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestLoadReader_DispatchesXLSX(t *testing.T) {
	buf := buildWorkbook(t, "Sheet1", [][]interface{}{
		{"Date", "Close"},
		{"2024-01-01", "100"},
	})

	table, err := LoadReader(buf, "Prices.XLSX", testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Close"}, table.Columns)
}
