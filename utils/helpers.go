package utils

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a fresh unique id for contacts, log entries and
// dispatch attempts.
func GenerateUUID() string {
	return uuid.New().String()
}
