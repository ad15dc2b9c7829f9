// Package ingest loads raw tabular time-series data from CSV and XLSX files
// into the series.Table structure the normalizer consumes.
//
// Loaders are deliberately permissive: they identify the date column from the
// header, preserve every other column as raw strings, and leave all type
// coercion and validation to the normalizer. Structural problems (no header,
// no date column, unreadable file) are reported as typed errors.
package ingest
