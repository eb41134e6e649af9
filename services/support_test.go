package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"lifeline/models"
)

// fakeClock is a manually advanced clock for deterministic deadline tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (fc *fakeClock) Now() time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.now
}

func (fc *fakeClock) Advance(d time.Duration) time.Time {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.now = fc.now.Add(d)
	return fc.now
}

// recordingBroadcaster captures every broadcast message in order.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []models.WSMessage
}

func (rb *recordingBroadcaster) Broadcast(message models.WSMessage) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.messages = append(rb.messages, message)
}

func (rb *recordingBroadcaster) Messages() []models.WSMessage {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return append([]models.WSMessage(nil), rb.messages...)
}

func (rb *recordingBroadcaster) CountType(messageType string) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	count := 0
	for _, message := range rb.messages {
		if message.Type == messageType {
			count++
		}
	}
	return count
}

// captureSender records every job it is asked to send and can be made to
// fail every send.
type captureSender struct {
	mu   sync.Mutex
	jobs []DispatchJob
	fail bool
}

func (cs *captureSender) Send(_ context.Context, job DispatchJob) error {
	cs.mu.Lock()
	cs.jobs = append(cs.jobs, job)
	cs.mu.Unlock()

	if cs.fail {
		return errors.New("transport unavailable")
	}
	return nil
}

func (cs *captureSender) Jobs() []DispatchJob {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]DispatchJob(nil), cs.jobs...)
}

func zeroLatency() time.Duration { return 0 }

// testGuardian bundles a fully wired guardian with its collaborators.
type testGuardian struct {
	guardian *GuardianService
	clock    *fakeClock
	log      *ActivityLog
	dispatch *DispatchService
	tracking *TrackingService
	auth     *AuthService
	hub      *recordingBroadcaster
}

func newTestGuardian(settings models.EmergencySettings, contacts []models.Contact) *testGuardian {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	hub := &recordingBroadcaster{}

	feedback := NewFeedbackService()
	log := NewActivityLog(clock)

	dispatch := NewDispatchService(clock, log, feedback)
	dispatch.SetLatency(zeroLatency)

	tracking := NewTrackingService(time.Hour, log)
	compose := NewComposeService("")
	push := NewPushService(context.Background(), "", "")
	auth := NewAuthService("1234", "test-secret", feedback)

	guardian := NewGuardianService(clock, settings, contacts, log, dispatch, tracking, compose, push, feedback, auth)
	guardian.SetBroadcaster(hub)

	return &testGuardian{
		guardian: guardian,
		clock:    clock,
		log:      log,
		dispatch: dispatch,
		tracking: tracking,
		auth:     auth,
		hub:      hub,
	}
}

func testContact() models.Contact {
	return models.Contact{
		ID:                "contact-1",
		Name:              "Jamie",
		Phone:             "+15551234567",
		Email:             "jamie@example.com",
		NotifyOnEmergency: true,
		EnableSMS:         true,
		EnableEmail:       true,
	}
}

func hasLogMessage(log *ActivityLog, message string) bool {
	for _, entry := range log.Entries() {
		if entry.Message == message {
			return true
		}
	}
	return false
}
