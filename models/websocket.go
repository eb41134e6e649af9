package models

import "time"

// WSMessage is the envelope pushed to presentation clients over the hub.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Event types emitted by the core.
const (
	WSTypeStateChange     = "state_change"
	WSTypeLogEntry        = "log_entry"
	WSTypeDispatchAttempt = "dispatch_attempt"
	WSTypeLiveLocation    = "live_location"
	WSTypeFeedback        = "feedback"
)
