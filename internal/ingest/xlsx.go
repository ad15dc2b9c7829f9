package ingest

import (
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"tscheck/internal/errors"
	"tscheck/internal/series"
)

// LoadXLSX reads an XLSX stream into a raw table. The first sheet containing
// at least two non-empty rows (header plus data) is used; cell values are the
// formatted strings excelize reports, so dates keep whatever display format
// the workbook applied.
func LoadXLSX(r io.Reader, logger *slog.Logger) (*series.Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParseError("unreadable xlsx workbook", 0, err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		sheetRows, rowsErr := f.GetRows(name)
		if rowsErr != nil {
			continue
		}
		if countNonEmpty(sheetRows) >= 2 {
			rows = sheetRows
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return nil, errors.NewEmptyInputError("workbook contains no sheet with data")
	}

	logger.Debug("reading xlsx sheet",
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)))

	return tableFromRows(rows, logger)
}

func countNonEmpty(rows [][]string) int {
	n := 0
	for _, row := range rows {
		if !rowEmpty(row) {
			n++
		}
	}
	return n
}
