package quality

import (
	"fmt"
	"sort"
	"time"

	"tscheck/internal/series"
)

// DetectDuplicates finds timestamps that occur more than once in the series.
// Each duplicated timestamp yields exactly one finding (not one per row),
// with the occurrence count as magnitude. Output is sorted by timestamp.
func DetectDuplicates(s *series.Series) []Finding {
	counts := make(map[time.Time]int)
	for _, obs := range s.Observations {
		counts[obs.Date]++
	}

	var findings []Finding
	for date, count := range counts {
		if count > 1 {
			findings = append(findings, Finding{
				Kind:      KindDuplicateDate,
				Date:      date,
				Magnitude: float64(count),
				Detail:    fmt.Sprintf("timestamp occurs %d times", count),
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		return findings[i].Date.Before(findings[j].Date)
	})
	return findings
}
