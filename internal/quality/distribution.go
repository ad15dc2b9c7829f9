package quality

import (
	"tscheck/internal/series"
)

// Distribution summarizes the value distribution of the named column over
// its non-null values. An all-null column yields a zero-count summary.
func Distribution(s *series.Series, column string) ColumnDistribution {
	values := s.Column(column)
	sample := nonNull(values)

	dist := ColumnDistribution{
		Count:     len(sample),
		NullCount: len(values) - len(sample),
	}
	if len(sample) == 0 {
		return dist
	}

	dist.Mean = Mean(sample)
	dist.Median = Median(sample)
	dist.Min = sample[0]
	dist.Max = sample[0]
	for _, v := range sample {
		if v < dist.Min {
			dist.Min = v
		}
		if v > dist.Max {
			dist.Max = v
		}
	}

	if len(sample) >= 2 {
		dist.StdDev = SampleStdDev(sample)
	}
	dist.Skewness = optionalFloat(Skewness(sample))
	dist.Kurtosis = optionalFloat(Kurtosis(sample))
	return dist
}

// Consistency computes the informational sanity counts for the named column:
// zeroes, negatives, nulls and the null ratio, plus whether all non-null
// values are equal (n >= 2).
func Consistency(s *series.Series, column string) ColumnConsistency {
	values := s.Column(column)
	sample := nonNull(values)

	cons := ColumnConsistency{
		NullCount: len(values) - len(sample),
	}
	if len(values) > 0 {
		cons.NullRatio = float64(cons.NullCount) / float64(len(values))
	}

	constant := len(sample) >= 2
	for i, v := range sample {
		if v == 0 {
			cons.ZeroCount++
		}
		if v < 0 {
			cons.NegativeCount++
		}
		if i > 0 && v != sample[0] {
			constant = false
		}
	}
	cons.Constant = constant
	return cons
}
