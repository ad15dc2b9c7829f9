// Package series defines the normalized time-series model consumed by the
// quality-detection engine and the normalizer that produces it from raw
// tabular input.
//
// A Series is immutable once built: observations are sorted ascending by
// timestamp (stable, so rows sharing a timestamp keep their original input
// order), every recognized numeric column aligns 1:1 with the timestamps,
// and missing values are represented as NaN so they can be excluded from
// statistics without disturbing alignment.
package series
