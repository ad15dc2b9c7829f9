package series

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"tscheck/internal/errors"
)

// dateFormats are the layouts the normalizer accepts, tried in order.
var dateFormats = []string{
	"2006-01-02",          // ISO format
	"01/02/2006",          // US format
	"02/01/2006",          // European format
	"2006/01/02",          // Alternative ISO
	"2006-01-02 15:04:05", // With time
	"2006-01-02T15:04:05Z07:00",
	"01-02-2006", // US with dashes
	"02-01-2006", // European with dashes
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate attempts to parse a date string in the supported layouts.
func ParseDate(dateStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(dateStr)
	for _, format := range dateFormats {
		if date, err := time.Parse(format, trimmed); err == nil {
			return date, nil
		}
	}
	return time.Time{}, errors.NewAppError(errors.ErrTypeParse, "unable to parse date: "+dateStr, nil)
}

// Normalize parses and validates a raw table into a Series.
//
// Every date must parse; the first unparsable date aborts normalization with
// a parse error identifying the offending row. Rows are stable-sorted
// ascending by timestamp so rows sharing a timestamp keep their input order.
// Numeric coercion is lenient: a non-numeric value in a recognized numeric
// column becomes NaN and is logged as a side note, never a finding. A column
// is recognized as numeric when at least one of its values coerces.
//
// Returns an empty-input error when the table has no rows or no column
// yields a single numeric value.
func Normalize(table *Table, logger *slog.Logger) (*Series, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if table == nil || len(table.Rows) == 0 {
		return nil, errors.NewEmptyInputError("input contains no rows")
	}

	type parsedRow struct {
		date  time.Time
		index int // original row index, for deterministic ordering and error reporting
	}

	parsed := make([]parsedRow, len(table.Rows))
	for i, row := range table.Rows {
		date, err := ParseDate(row.Date)
		if err != nil {
			return nil, errors.NewParseError("unparsable date "+strconv.Quote(row.Date), i, err)
		}
		parsed[i] = parsedRow{date: date, index: i}
	}

	// Stable sort keeps the relative input order of equal timestamps, which
	// is what lets the duplicate detector report them deterministically.
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].date.Before(parsed[j].date)
	})

	// Recognize numeric columns: any column with at least one coercible value.
	numeric := recognizeNumericColumns(table)
	if len(numeric) == 0 {
		return nil, errors.NewEmptyInputError("input contains no numeric columns")
	}

	observations := make([]Observation, len(parsed))
	coercionFailures := 0
	for i, pr := range parsed {
		raw := table.Rows[pr.index]
		values := make(map[string]float64, len(numeric))
		for _, col := range numeric {
			v, ok, failed := coerceNumeric(raw.Values[col])
			if failed {
				coercionFailures++
				logger.Warn("non-numeric value in numeric column, treated as null",
					slog.String("column", col),
					slog.Int("row", pr.index),
					slog.String("value", raw.Values[col]))
			}
			if ok {
				values[col] = v
			} else {
				values[col] = math.NaN()
			}
		}
		observations[i] = Observation{Date: pr.date, Values: values}
	}

	if coercionFailures > 0 {
		logger.Warn("normalization coerced non-numeric values to null",
			slog.Int("count", coercionFailures))
	}

	return &Series{Observations: observations, Columns: numeric}, nil
}

// recognizeNumericColumns returns, in input column order, every column with
// at least one coercible value.
func recognizeNumericColumns(table *Table) []string {
	var numeric []string
	for _, col := range table.Columns {
		for _, row := range table.Rows {
			if _, ok, _ := coerceNumeric(row.Values[col]); ok {
				numeric = append(numeric, col)
				break
			}
		}
	}
	return numeric
}

// coerceNumeric parses a raw cell into a float. The second result reports a
// usable number; the third reports a coercion failure (non-empty input that
// did not parse), which callers log but do not treat as a finding.
func coerceNumeric(raw string) (value float64, ok bool, failed bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return math.NaN(), false, false
	}
	// Financial exports frequently carry thousands separators.
	cleaned := strings.ReplaceAll(trimmed, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) {
		return math.NaN(), false, true
	}
	return v, true, false
}
