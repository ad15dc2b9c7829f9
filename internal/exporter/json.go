package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"tscheck/internal/quality"
)

// WriteJSON renders the full report as indented JSON. Nullable statistics are
// pointer fields inside the report, so the encoding never sees a NaN.
func WriteJSON(w io.Writer, report *quality.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Write renders the report in the requested format. The CSV format renders
// the findings table. The series-csv format needs the series itself and is
// handled by callers before dispatching here.
func Write(w io.Writer, format Format, report *quality.Report) error {
	switch format {
	case FormatCSV:
		return WriteFindingsCSV(w, report, CSVOptions{})
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatText:
		return WriteText(w, report)
	case FormatSeriesCSV:
		return fmt.Errorf("series-csv export requires the normalized series")
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
