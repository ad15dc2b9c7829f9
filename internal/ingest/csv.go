package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tscheck/internal/errors"
	"tscheck/internal/series"
)

// utf8BOM is the byte-order mark some spreadsheet exports prepend to CSV
// files. It must be stripped before header matching.
const utf8BOM = "\uFEFF"

// LoadCSV reads a CSV stream into a raw table. The first non-empty row is the
// header; the date column is located by name (any header containing "date",
// "time" or "period", case-insensitive) and falls back to the first column.
// Ragged rows are tolerated: missing trailing cells become empty strings.
func LoadCSV(r io.Reader, logger *slog.Logger) (*series.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParseError("malformed csv", 0, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}

	return tableFromRows(records, logger)
}

// tableFromRows converts raw string rows (CSV records or spreadsheet cells)
// into a series.Table. Shared by the CSV and XLSX loaders.
func tableFromRows(rows [][]string, logger *slog.Logger) (*series.Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.NewEmptyInputError("input contains no rows")
	}

	header := make([]string, len(rows[headerIdx]))
	for i, cell := range rows[headerIdx] {
		header[i] = strings.TrimSpace(cell)
	}

	dateIdx := findDateColumn(header)
	logger.Debug("detected table layout",
		slog.Int("header_row", headerIdx),
		slog.String("date_column", header[dateIdx]),
		slog.Int("columns", len(header)))

	var columns []string
	for i, name := range header {
		if i == dateIdx {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		columns = append(columns, name)
	}

	table := &series.Table{Columns: columns}
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		r := series.Row{Values: make(map[string]string, len(columns))}
		if dateIdx < len(row) {
			r.Date = strings.TrimSpace(row[dateIdx])
		}
		col := 0
		for i := range header {
			if i == dateIdx {
				continue
			}
			if i < len(row) {
				r.Values[columns[col]] = strings.TrimSpace(row[i])
			} else {
				r.Values[columns[col]] = ""
			}
			col++
		}
		table.Rows = append(table.Rows, r)
	}

	if len(table.Rows) == 0 {
		return nil, errors.NewEmptyInputError("input contains a header but no data rows")
	}
	return table, nil
}

// findDateColumn picks the date column by header name, preferring an exact
// "date" match, then any header mentioning date/time/period, then the first
// column.
func findDateColumn(header []string) int {
	for i, name := range header {
		if strings.EqualFold(name, "date") {
			return i
		}
	}
	for i, name := range header {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "date") ||
			strings.Contains(lower, "time") ||
			strings.Contains(lower, "period") {
			return i
		}
	}
	return 0
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
