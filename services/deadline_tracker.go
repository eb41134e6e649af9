package services

import (
	"time"

	"lifeline/models"
	"lifeline/utils"
)

// DeadlineTracker holds the current check-in deadline and, while in WARNING,
// the emergency escalation deadline. It is owned by the guardian service and
// mutated only under its lock.
type DeadlineTracker struct {
	nextCheckIn time.Time
	emergency   *time.Time
}

// Arm sets the check-in deadline to now plus the configured interval. Called
// on every check-in or reset and when the interval changes while SAFE.
func (dt *DeadlineTracker) Arm(now time.Time, settings models.EmergencySettings) time.Time {
	dt.nextCheckIn = now.Add(utils.IntervalDuration(settings.CheckInIntervalValue, settings.CheckInIntervalUnit))
	return dt.nextCheckIn
}

// EnterWarning freezes the check-in deadline and arms the emergency deadline
// at now plus the grace period. The emergency deadline is never recomputed
// once set.
func (dt *DeadlineTracker) EnterWarning(now time.Time, settings models.EmergencySettings) time.Time {
	deadline := now.Add(utils.GraceDuration(settings.WarningGracePeriodMinutes))
	dt.emergency = &deadline
	return deadline
}

// Clear drops the emergency deadline and re-arms the check-in deadline.
func (dt *DeadlineTracker) Clear(now time.Time, settings models.EmergencySettings) {
	dt.emergency = nil
	dt.Arm(now, settings)
}

// Restore adopts persisted deadlines after a process restart.
func (dt *DeadlineTracker) Restore(nextCheckIn time.Time, emergency *time.Time) {
	dt.nextCheckIn = nextCheckIn
	if emergency != nil {
		d := *emergency
		dt.emergency = &d
	} else {
		dt.emergency = nil
	}
}

func (dt *DeadlineTracker) NextCheckIn() time.Time {
	return dt.nextCheckIn
}

func (dt *DeadlineTracker) Emergency() *time.Time {
	return dt.emergency
}

// Deadlines returns a copy for snapshots.
func (dt *DeadlineTracker) Deadlines() models.Deadlines {
	d := models.Deadlines{NextCheckIn: dt.nextCheckIn}
	if dt.emergency != nil {
		e := *dt.emergency
		d.Emergency = &e
	}
	return d
}
