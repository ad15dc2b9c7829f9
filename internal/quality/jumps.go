package quality

import (
	"fmt"
	"math"

	"tscheck/internal/series"
)

// DetectJumps flags abnormal period-over-period percentage changes in the
// named column.
//
// Comparison is against the nearest prior non-null value, so nulls and date
// gaps are skipped rather than breaking the chain. A zero previous value
// makes the percentage change undefined; that pair is skipped silently.
// Changes strictly greater than the threshold in absolute value are flagged;
// a change exactly equal to the threshold is not.
func DetectJumps(s *series.Series, column string, threshold float64) []Finding {
	values := s.Column(column)

	var findings []Finding
	prev := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !math.IsNaN(prev) && prev != 0 {
			pct := (v - prev) / prev
			if math.Abs(pct) > threshold {
				findings = append(findings, Finding{
					Kind:      KindPriceJump,
					Column:    column,
					Date:      s.Observations[i].Date,
					Magnitude: pct,
					Detail: fmt.Sprintf("change of %.2f%% from %g to %g exceeds %.2f%%",
						pct*100, prev, v, threshold*100),
				})
			}
		}
		prev = v
	}
	return findings
}
