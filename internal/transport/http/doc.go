// Package http contains the HTTP handlers for the analysis API.
//
// Handlers follow chi's Routes() convention: each handler exposes a
// chi.Router that the application mounts under its API prefix. Errors
// are rendered as RFC 7807 problem documents through the shared
// ErrorHandler.
package http
