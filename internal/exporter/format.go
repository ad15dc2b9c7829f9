package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format selects the report rendering.
type Format string

const (
	FormatText      Format = "text"
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
	FormatSeriesCSV Format = "series-csv"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSeriesCSV:
		return FormatSeriesCSV, nil
	default:
		return "", fmt.Errorf("unknown export format %q: expected text, csv, json or series-csv", s)
	}
}

// ContentType returns the MIME type for HTTP downloads of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV, FormatSeriesCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV, FormatSeriesCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// formatFloat renders a value in its shortest exact decimal form. NaN
// renders as an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders a nullable value, empty when nil.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
