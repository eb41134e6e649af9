package models

import "time"

// APIResponse is the uniform HTTP response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimit    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Sensor ingestion payloads (push-only collaborators).

type LocationSampleRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  float64 `json:"accuracy" validate:"min=0"`
}

type BatteryLevelRequest struct {
	Level float64 `json:"level" validate:"min=0,max=1"`
}

type RecordingRequest struct {
	Present bool `json:"present"`
}

// Auth payloads.

type VerifyPINRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=12"`
}

type ResetRequest struct {
	ResetToken string `json:"resetToken" validate:"required"`
}
