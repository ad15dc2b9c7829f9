package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"tscheck/internal/quality"
	"tscheck/internal/series"
)

// utf8BOM helps Excel recognize UTF-8 CSV output.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV rendering.
type CSVOptions struct {
	// BOMPrefix prepends a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// WriteFindingsCSV renders the report's findings as a CSV table.
func WriteFindingsCSV(w io.Writer, report *quality.Report, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "kind", "column", "magnitude", "detail"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, f := range report.Findings {
		record := []string{
			f.Date.Format(dateLayout),
			string(f.Kind),
			f.Column,
			formatFloat(f.Magnitude),
			f.Detail,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write finding: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSeriesCSV renders the normalized series, one row per observation with
// the date first and the numeric columns in series order. Null values render
// as empty cells.
func WriteSeriesCSV(w io.Writer, s *series.Series, opts CSVOptions) error {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	header := append([]string{"date"}, s.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for _, obs := range s.Observations {
		record[0] = obs.Date.Format(dateLayout)
		for i, column := range s.Columns {
			record[i+1] = ""
			if v, ok := obs.Value(column); ok {
				record[i+1] = formatFloat(v)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write observation: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename builds a header-safe download filename for an exported report.
func Filename(id string, format Format) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return fmt.Sprintf("analysis_%s.%s", safe, format.Extension())
}
