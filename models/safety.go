package models

import (
	"time"
)

// SafetyState is the current monitoring state. Exactly one state is current
// at any time; it is mutated only by the guardian service.
type SafetyState string

const (
	StateSafe      SafetyState = "SAFE"
	StateWarning   SafetyState = "WARNING"
	StateEmergency SafetyState = "EMERGENCY"
)

// Deadlines holds the active check-in deadline and, while in WARNING, the
// emergency escalation deadline. The emergency deadline is frozen once armed.
type Deadlines struct {
	NextCheckIn time.Time  `json:"nextCheckInDeadline" bson:"nextCheckInDeadline"`
	Emergency   *time.Time `json:"emergencyDeadline,omitempty" bson:"emergencyDeadline,omitempty"`
}

// LocationSample is the last known device position. A nil sample means GPS
// has not been acquired yet, which is a valid state.
type LocationSample struct {
	Latitude  float64   `json:"latitude" bson:"latitude"`
	Longitude float64   `json:"longitude" bson:"longitude"`
	Accuracy  float64   `json:"accuracy" bson:"accuracy"`
	SampledAt time.Time `json:"sampledAt" bson:"sampledAt"`
}

// LogEntry is one record in the append-only activity log.
type LogEntry struct {
	ID        string      `json:"id" bson:"_id"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
	State     SafetyState `json:"state" bson:"state"`
	Message   string      `json:"message" bson:"message"`
}

// Channel identifies a dispatch transport.
type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
	ChannelCall  Channel = "CALL"
)

// DispatchOutcome is the lifecycle of a single dispatch attempt. Attempts are
// immutable once they reach a terminal outcome.
type DispatchOutcome string

const (
	OutcomePending DispatchOutcome = "pending"
	OutcomeSent    DispatchOutcome = "sent"
	OutcomeFailed  DispatchOutcome = "failed"
)

// DispatchAttempt records one channel send to one recipient.
type DispatchAttempt struct {
	ID            string          `json:"id" bson:"_id"`
	Channel       Channel         `json:"channel" bson:"channel"`
	Recipient     string          `json:"recipient" bson:"recipient"`
	HasAttachment bool            `json:"hasAttachment" bson:"hasAttachment"`
	Outcome       DispatchOutcome `json:"outcome" bson:"outcome"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	CompletedAt   time.Time       `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// MonitorState is the persisted snapshot of the state machine, written on
// every transition so deadlines survive a process suspend or restart.
type MonitorState struct {
	State               SafetyState `json:"state" bson:"state"`
	LastCheckIn         time.Time   `json:"lastCheckIn" bson:"lastCheckIn"`
	NextCheckInDeadline time.Time   `json:"nextCheckInDeadline" bson:"nextCheckInDeadline"`
	EmergencyDeadline   *time.Time  `json:"emergencyDeadline,omitempty" bson:"emergencyDeadline,omitempty"`
	UpdatedAt           time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// StatusSnapshot is the read-only view handed to the presentation layer.
type StatusSnapshot struct {
	State        SafetyState     `json:"state"`
	Deadlines    Deadlines       `json:"deadlines"`
	LastCheckIn  time.Time       `json:"lastCheckIn"`
	Location     *LocationSample `json:"location,omitempty"`
	BatteryLevel float64         `json:"batteryLevel"`
	HasRecording bool            `json:"hasRecording"`
	LiveTracking bool            `json:"liveTracking"`
}
