package utils

import (
	"time"

	"lifeline/models"
)

// IntervalDuration converts a check-in interval to a duration. Months and
// years are fixed 30 and 365 day approximations, no calendar arithmetic.
func IntervalDuration(value int, unit models.TimeUnit) time.Duration {
	v := time.Duration(value)
	switch unit {
	case models.UnitMinutes:
		return v * time.Minute
	case models.UnitHours:
		return v * time.Hour
	case models.UnitDays:
		return v * 24 * time.Hour
	case models.UnitMonths:
		return v * 30 * 24 * time.Hour
	case models.UnitYears:
		return v * 365 * 24 * time.Hour
	default:
		return v * time.Minute
	}
}

// GraceDuration converts the warning grace period to a duration.
func GraceDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
