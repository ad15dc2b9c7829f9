// Package services contains the application service layer.
//
// AnalysisService orchestrates the full analysis flow (ingest, normalize,
// detect, aggregate), owns the in-memory report store keyed by analysis ID,
// broadcasts lifecycle events to WebSocket clients and records run metrics.
// Reports live for the lifetime of the process; there is no persistence.
package services
