package services

import "time"

// Clock abstracts wall-clock time so tests can drive the escalation logic
// deterministically instead of waiting on real timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the real-time clock used in production.
func SystemClock() Clock {
	return systemClock{}
}
