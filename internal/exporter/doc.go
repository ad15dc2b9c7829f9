// Package exporter renders analysis reports for download and batch output.
//
// Three formats are supported:
//
// Text: a human-readable quality report with the series summary, per-kind
// finding counts, the finding list and the per-column statistics.
//
// CSV: the findings table, plus a separate writer for the normalized series
// itself. Both support a UTF-8 BOM prefix for Excel compatibility.
//
// JSON: the full report structure, indented.
//
// All writers target io.Writer so the CLI and the HTTP download endpoint
// share them.
package exporter
