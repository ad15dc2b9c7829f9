package quality

import (
	"fmt"
	"time"

	"tscheck/internal/config"
	"tscheck/internal/series"
)

// DetectGaps finds expected timestamps absent from the series.
//
// The expected step is the configured frequency; with frequency auto it is
// inferred as the statistical mode of the deltas between consecutive
// distinct timestamps. Inference deliberately refuses to guess: when the
// series has fewer than two distinct timestamps, or no delta recurs, gap
// detection is skipped and zero findings are returned.
func DetectGaps(s *series.Series, frequency string) []Finding {
	distinct := s.DistinctDates()
	if len(distinct) < 2 {
		return nil
	}

	var next func(time.Time) time.Time
	switch frequency {
	case config.FrequencyCalendarDay:
		next = nextCalendarDay
	case config.FrequencyBusinessDay:
		next = nextBusinessDay
	default:
		step, ok := inferStep(distinct)
		if !ok {
			return nil
		}
		if step == 24*time.Hour {
			next = nextCalendarDay
		} else {
			next = func(t time.Time) time.Time { return t.Add(step) }
		}
	}

	present := make(map[time.Time]bool, len(distinct))
	for _, d := range distinct {
		present[d] = true
	}

	var findings []Finding
	last := distinct[len(distinct)-1]
	for expected := next(distinct[0]); expected.Before(last); expected = next(expected) {
		if !present[expected] {
			findings = append(findings, Finding{
				Kind:   KindMissingDate,
				Date:   expected,
				Detail: fmt.Sprintf("expected observation at %s is missing", expected.Format("2006-01-02")),
			})
		}
	}
	return findings
}

// inferStep returns the dominant delta between consecutive distinct
// timestamps. The mode must recur (count >= 2) to count as dominant; ties
// break toward the smaller delta, the denser calendar being the safer guess.
func inferStep(distinct []time.Time) (time.Duration, bool) {
	if len(distinct) < 2 {
		return 0, false
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(distinct); i++ {
		counts[distinct[i].Sub(distinct[i-1])]++
	}

	var mode time.Duration
	best := 0
	for delta, count := range counts {
		if count > best || (count == best && delta < mode) {
			mode = delta
			best = count
		}
	}

	if best < 2 {
		return 0, false
	}
	return mode, true
}

func nextCalendarDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// nextBusinessDay advances to the next Monday-Friday date. No holiday
// calendar is applied.
func nextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
