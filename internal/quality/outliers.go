package quality

import (
	"fmt"
	"math"

	"tscheck/internal/errors"
	"tscheck/internal/series"
)

// MinOutlierSampleSize is the smallest non-null sample for which quartile
// estimates are meaningful.
const MinOutlierSampleSize = 4

// DetectOutliers flags values of the named column lying strictly outside the
// IQR fence [Q1 - k*IQR, Q3 + k*IQR], with k the configured multiplier.
//
// Magnitude is the signed distance from the nearer bound: negative below the
// lower fence, positive above the upper. A constant column has IQR zero, so
// only values different from the constant are flagged.
//
// Returns an insufficient-data error when the column has fewer than
// MinOutlierSampleSize non-null values; callers skip the column and note it
// in the report rather than failing the run.
func DetectOutliers(s *series.Series, column string, multiplier float64) ([]Finding, error) {
	values := s.Column(column)
	sample := nonNull(values)
	if len(sample) < MinOutlierSampleSize {
		return nil, errors.NewInsufficientDataError(column, len(sample), MinOutlierSampleSize)
	}

	q1 := Quantile(sample, 0.25)
	q3 := Quantile(sample, 0.75)
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	var findings []Finding
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		var magnitude float64
		switch {
		case v < lower:
			magnitude = v - lower
		case v > upper:
			magnitude = v - upper
		default:
			continue
		}
		findings = append(findings, Finding{
			Kind:      KindOutlier,
			Column:    column,
			Date:      s.Observations[i].Date,
			Magnitude: magnitude,
			Detail: fmt.Sprintf("value %g outside [%g, %g] (Q1=%g, Q3=%g, k=%g)",
				v, lower, upper, q1, q3, multiplier),
		})
	}
	return findings, nil
}
