// Package quality implements the data-quality detection engine for a single
// financial time series.
//
// The engine is a set of pure, stateless routines over a normalized
// series.Series: duplicate-date detection, gap detection against an inferred
// or configured frequency, IQR outlier detection, and period-over-period
// jump detection, plus the supplementary distribution, consistency and trend
// summaries. Analyze runs them all and merges their findings into a single
// immutable Report.
//
// Detectors share no mutable state; per-column passes run concurrently and
// each allocates its own finding slice, so Analyze is safe to invoke
// concurrently for different series.
package quality
