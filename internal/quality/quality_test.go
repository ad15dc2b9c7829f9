package quality

import (
	"math"
	"sort"
	"time"

	"tscheck/internal/series"
)

// mustDate parses an ISO date for test fixtures.
func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// testSeries builds a normalized series from ISO dates and aligned column
// values. Use math.NaN() for nulls.
func testSeries(dates []string, columns map[string][]float64) *series.Series {
	obs := make([]series.Observation, len(dates))
	var names []string
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, d := range dates {
		values := make(map[string]float64, len(columns))
		for name, col := range columns {
			if i < len(col) {
				values[name] = col[i]
			} else {
				values[name] = math.NaN()
			}
		}
		obs[i] = series.Observation{Date: mustDate(d), Values: values}
	}
	return &series.Series{Observations: obs, Columns: names}
}
