package quality

import (
	"math"

	"tscheck/internal/series"
)

// trendTolerance is the relative band within which first and last moving
// averages are considered flat.
const trendTolerance = 0.01

// Trend computes the simple moving-average trend summary for the named
// column. The direction compares the last valid MA point against the first
// with a 1% relative tolerance; with fewer than two valid MA points the
// direction is unknown.
func Trend(s *series.Series, column string, window int) ColumnTrend {
	values := s.Column(column)
	ma := MovingAverage(values, window)

	trend := ColumnTrend{
		Window:        window,
		MovingAverage: make([]*float64, len(ma)),
		Direction:     TrendUnknown,
	}

	var first, last *float64
	validCount := 0
	for i, v := range ma {
		trend.MovingAverage[i] = optionalFloat(v)
		if !math.IsNaN(v) {
			validCount++
			if first == nil {
				first = trend.MovingAverage[i]
			}
			last = trend.MovingAverage[i]
		}
	}

	trend.FirstMA = first
	trend.LastMA = last
	if validCount < 2 {
		return trend
	}

	diff := *last - *first
	scale := math.Abs(*first)
	if scale == 0 {
		scale = 1
	}
	switch {
	case diff > trendTolerance*scale:
		trend.Direction = TrendRising
	case diff < -trendTolerance*scale:
		trend.Direction = TrendFalling
	default:
		trend.Direction = TrendFlat
	}
	return trend
}
