package ingest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCSV(t *testing.T) {
	input := "Date,Close,Volume\n2024-01-01,100.5,1000\n2024-01-02,101.0,1100\n"

	table, err := LoadCSV(strings.NewReader(input), testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Close", "Volume"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-01", table.Rows[0].Date)
	assert.Equal(t, "100.5", table.Rows[0].Values["Close"])
	assert.Equal(t, "1100", table.Rows[1].Values["Volume"])
}

func TestLoadCSV_StripsBOM(t *testing.T) {
	input := "\uFEFF" + "Date,Close\n2024-01-01,100\n"

	table, err := LoadCSV(strings.NewReader(input), testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Close"}, table.Columns)
	assert.Equal(t, "2024-01-01", table.Rows[0].Date)
}

func TestLoadCSV_DateColumnDetection(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantDate string
		wantCols []string
	}{
		{
			name:     "exact date header wins over position",
			header:   "Close,Date",
			wantDate: "b",
			wantCols: []string{"Close"},
		},
		{
			name:     "timestamp header matches",
			header:   "Timestamp,Close",
			wantDate: "a",
			wantCols: []string{"Close"},
		},
		{
			name:     "period header matches",
			header:   "Reporting Period,Close",
			wantDate: "a",
			wantCols: []string{"Close"},
		},
		{
			name:     "no match falls back to first column",
			header:   "When,Close",
			wantDate: "a",
			wantCols: []string{"Close"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.header + "\na,b\n"
			table, err := LoadCSV(strings.NewReader(input), testLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, table.Rows[0].Date)
			assert.Equal(t, tt.wantCols, table.Columns)
		})
	}
}

func TestLoadCSV_RaggedAndEmptyRows(t *testing.T) {
	input := "Date,Close,Volume\n2024-01-01,100\n,,\n2024-01-02,101,1100\n"

	table, err := LoadCSV(strings.NewReader(input), testLogger())
	require.NoError(t, err)

	require.Len(t, table.Rows, 2, "blank row must be dropped")
	assert.Equal(t, "", table.Rows[0].Values["Volume"], "missing trailing cell reads as empty")
	assert.Equal(t, "1100", table.Rows[1].Values["Volume"])
}

func TestLoadCSV_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty stream", input: ""},
		{name: "only blank rows", input: "\n , \n"},
		{name: "header without data", input: "Date,Close\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input), testLogger())
			require.Error(t, err)
			assert.True(t, errors.IsEmptyInputError(err))
		})
	}
}

func TestLoadCSV_Malformed(t *testing.T) {
	input := "Date,Close\n2024-01-01,\"unterminated\n"

	_, err := LoadCSV(strings.NewReader(input), testLogger())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestLoadCSV_UnnamedColumn(t *testing.T) {
	input := "Date,,Close\n2024-01-01,5,100\n"

	table, err := LoadCSV(strings.NewReader(input), testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"column_2", "Close"}, table.Columns)
	assert.Equal(t, "5", table.Rows[0].Values["column_2"])
}

func TestLoadReader_UnsupportedExtension(t *testing.T) {
	_, err := LoadReader(strings.NewReader("data"), "input.txt", testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
