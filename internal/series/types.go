package series

import (
	"math"
	"time"
)

// Row is a single raw input row: a date cell plus the remaining cells keyed
// by column name. Values are raw strings exactly as the ingestion layer read
// them; coercion happens in the normalizer.
type Row struct {
	Date   string            `json:"date"`
	Values map[string]string `json:"values"`
}

// Table is the raw tabular structure handed to the normalizer by the
// ingestion layer. Columns preserves the input column order so recognized
// numeric columns come out in a deterministic order.
type Table struct {
	Rows    []Row    `json:"rows"`
	Columns []string `json:"columns"`
}

// Observation is a single date-indexed measurement across all recognized
// numeric columns. A missing or uncoercible value is stored as NaN.
// Observations are immutable once constructed.
type Observation struct {
	Date   time.Time          `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Value returns the observation's value for the named column and whether it
// is present (non-NaN).
func (o Observation) Value(column string) (float64, bool) {
	v, ok := o.Values[column]
	if !ok || math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

// Series is a normalized, timestamp-ordered sequence of observations.
// Duplicated timestamps are retained (the duplicate detector flags them),
// and the sequence is strictly non-decreasing by date.
type Series struct {
	Observations []Observation `json:"observations"`
	Columns      []string      `json:"columns"`
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Observations)
}

// Dates returns the observation timestamps in order, duplicates included.
func (s *Series) Dates() []time.Time {
	dates := make([]time.Time, len(s.Observations))
	for i, obs := range s.Observations {
		dates[i] = obs.Date
	}
	return dates
}

// DistinctDates returns the ordered timestamps with duplicates collapsed.
func (s *Series) DistinctDates() []time.Time {
	var distinct []time.Time
	for _, obs := range s.Observations {
		if len(distinct) == 0 || !obs.Date.Equal(distinct[len(distinct)-1]) {
			distinct = append(distinct, obs.Date)
		}
	}
	return distinct
}

// Column returns the full value sequence for the named column, aligned 1:1
// with Dates(). Missing values are NaN.
func (s *Series) Column(name string) []float64 {
	values := make([]float64, len(s.Observations))
	for i, obs := range s.Observations {
		if v, ok := obs.Values[name]; ok {
			values[i] = v
		} else {
			values[i] = math.NaN()
		}
	}
	return values
}

// HasColumn reports whether name is a recognized numeric column.
func (s *Series) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Start returns the earliest timestamp in the series.
func (s *Series) Start() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[0].Date
}

// End returns the latest timestamp in the series.
func (s *Series) End() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[len(s.Observations)-1].Date
}
