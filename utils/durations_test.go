package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lifeline/models"
)

func TestIntervalDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		unit     models.TimeUnit
		expected time.Duration
	}{
		{"minutes", 30, models.UnitMinutes, 30 * time.Minute},
		{"hours", 2, models.UnitHours, 2 * time.Hour},
		{"days", 3, models.UnitDays, 72 * time.Hour},
		{"months approximate as 30 days", 1, models.UnitMonths, 720 * time.Hour},
		{"years approximate as 365 days", 1, models.UnitYears, 8760 * time.Hour},
		{"unknown unit defaults to minutes", 5, models.TimeUnit("fortnights"), 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntervalDuration(tt.value, tt.unit))
		})
	}
}

func TestGraceDuration(t *testing.T) {
	assert.Equal(t, 60*time.Minute, GraceDuration(60))
	assert.Equal(t, time.Duration(0), GraceDuration(0))
}
