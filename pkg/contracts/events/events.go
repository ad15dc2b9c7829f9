// Package events contains the event contract definitions for WebSocket
// communication between the analysis server and dashboard clients.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	// Analysis lifecycle messages - the primary event types.
	MessageTypeAnalysisStarted   MessageType = "analysis:started"
	MessageTypeAnalysisCompleted MessageType = "analysis:completed"
	MessageTypeAnalysisFailed    MessageType = "analysis:failed"

	// Connection messages.
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage is the common envelope for all WebSocket messages.
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage is a complete WebSocket message with its payload.
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// AnalysisEvent is the payload for all analysis lifecycle messages. These are
// notifications only; report data is fetched over HTTP.
type AnalysisEvent struct {
	AnalysisID string    `json:"analysis_id"`
	Filename   string    `json:"filename,omitempty"`
	Status     string    `json:"status"` // running|completed|failed
	RowCount   int       `json:"row_count,omitempty"`
	Findings   int       `json:"findings,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ErrorMessage reports a protocol-level error to a client.
type ErrorMessage struct {
	BaseMessage
	Data struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fatal   bool   `json:"fatal"`
	} `json:"data"`
}
