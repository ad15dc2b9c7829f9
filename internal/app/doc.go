// Package app wires the analysis server together: configuration, logging,
// OpenTelemetry, the WebSocket hub, the analysis service, and the chi
// router, plus graceful startup and shutdown.
package app
