package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/models"
)

func newTestDispatch() (*DispatchService, *ActivityLog, *fakeClock) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := NewActivityLog(clock)
	dispatch := NewDispatchService(clock, log, NewFeedbackService())
	dispatch.SetLatency(zeroLatency)
	return dispatch, log, clock
}

func TestDispatchFanOutPerContact(t *testing.T) {
	dispatch, _, _ := newTestDispatch()

	count := dispatch.Dispatch(DispatchInput{
		AlertText: "help",
		Contacts:  []models.Contact{testContact()},
	})
	dispatch.Wait()

	// SMS + email + always-on voice call.
	assert.Equal(t, 3, count)

	attempts := dispatch.Attempts()
	require.Len(t, attempts, 3)

	channels := make(map[models.Channel]int)
	for _, attempt := range attempts {
		channels[attempt.Channel]++
		assert.Equal(t, models.OutcomeSent, attempt.Outcome)
		assert.False(t, attempt.CompletedAt.IsZero())
	}
	assert.Equal(t, 1, channels[models.ChannelSMS])
	assert.Equal(t, 1, channels[models.ChannelEmail])
	assert.Equal(t, 1, channels[models.ChannelCall])
}

func TestDispatchSkipsOptedOutContacts(t *testing.T) {
	dispatch, _, _ := newTestDispatch()

	optedOut := testContact()
	optedOut.NotifyOnEmergency = false

	count := dispatch.Dispatch(DispatchInput{
		AlertText: "help",
		Contacts:  []models.Contact{optedOut},
	})
	dispatch.Wait()

	assert.Zero(t, count)
	assert.Empty(t, dispatch.Attempts())
}

func TestDispatchChannelFlags(t *testing.T) {
	dispatch, _, _ := newTestDispatch()

	smsOnly := testContact()
	smsOnly.EnableEmail = false

	count := dispatch.Dispatch(DispatchInput{
		AlertText: "help",
		Contacts:  []models.Contact{smsOnly},
	})
	dispatch.Wait()

	// SMS + voice call, no email.
	assert.Equal(t, 2, count)
	for _, attempt := range dispatch.Attempts() {
		assert.NotEqual(t, models.ChannelEmail, attempt.Channel)
	}
}

func TestDispatchPoliceCallAndSMS(t *testing.T) {
	dispatch, _, _ := newTestDispatch()
	sender := &captureSender{}
	dispatch.RegisterSender(models.ChannelCall, sender)
	dispatch.RegisterSender(models.ChannelSMS, sender)

	count := dispatch.Dispatch(DispatchInput{
		AlertText:      "help me",
		AutoCallPolice: true,
	})
	dispatch.Wait()

	assert.Equal(t, 2, count)

	jobs := sender.Jobs()
	require.Len(t, jobs, 2)

	bodies := make(map[models.Channel]string)
	for _, job := range jobs {
		assert.Equal(t, EmergencyNumber, job.Recipient)
		bodies[job.Channel] = job.Body
	}
	assert.Equal(t, "Automated Safety Alert", bodies[models.ChannelCall])
	assert.Equal(t, "help me", bodies[models.ChannelSMS])
}

func TestDispatchNothingConfigured(t *testing.T) {
	dispatch, log, _ := newTestDispatch()

	count := dispatch.Dispatch(DispatchInput{AlertText: "help"})

	assert.Zero(t, count)
	assert.True(t, hasLogMessage(log, "⚠️ No active contacts or channels configured for dispatch."))
	assert.Equal(t, 1, dispatch.Invocations())
}

func TestDispatchSenderFailureIsIsolated(t *testing.T) {
	dispatch, log, _ := newTestDispatch()
	dispatch.RegisterSender(models.ChannelSMS, &captureSender{fail: true})

	contact := testContact()
	contact.EnableEmail = false

	dispatch.Dispatch(DispatchInput{
		AlertText: "help",
		Contacts:  []models.Contact{contact},
	})
	dispatch.Wait()

	outcomes := make(map[models.Channel]models.DispatchOutcome)
	for _, attempt := range dispatch.Attempts() {
		outcomes[attempt.Channel] = attempt.Outcome
	}

	// The SMS failure never affects the voice call.
	assert.Equal(t, models.OutcomeFailed, outcomes[models.ChannelSMS])
	assert.Equal(t, models.OutcomeSent, outcomes[models.ChannelCall])
	assert.True(t, hasLogMessage(log, "❌ [SMS] Failed to reach +15551234567"))
}

func TestDispatchLogMessages(t *testing.T) {
	dispatch, log, _ := newTestDispatch()

	contact := testContact()
	contact.Email = ""

	dispatch.Dispatch(DispatchInput{
		AlertText:     "help",
		Contacts:      []models.Contact{contact},
		HasAttachment: true,
	})
	dispatch.Wait()

	assert.True(t, hasLogMessage(log, "📤 [SMS] Sent to +15551234567 📎(Voice Attached)"))
	assert.True(t, hasLogMessage(log, "📞 [CALL] Dialing +15551234567... Playing automated msg + recording. 📎(Voice Attached)"))
}

func TestDispatchAttemptsNewestFirst(t *testing.T) {
	dispatch, _, clock := newTestDispatch()

	first := testContact()
	first.Email = ""
	first.EnableSMS = true

	dispatch.Dispatch(DispatchInput{AlertText: "one", Contacts: []models.Contact{first}})
	dispatch.Wait()

	clock.Advance(time.Minute)

	second := testContact()
	second.Phone = "+15559999999"
	second.Email = ""

	dispatch.Dispatch(DispatchInput{AlertText: "two", Contacts: []models.Contact{second}})
	dispatch.Wait()

	attempts := dispatch.Attempts()
	require.Len(t, attempts, 4)
	assert.Equal(t, "+15559999999", attempts[0].Recipient)
	assert.Equal(t, 2, dispatch.Invocations())
}

func TestDispatchConcurrentFanOut(t *testing.T) {
	dispatch, _, _ := newTestDispatch()

	contacts := make([]models.Contact, 20)
	for i := range contacts {
		contact := testContact()
		contact.ID = string(rune('a' + i))
		contacts[i] = contact
	}

	count := dispatch.Dispatch(DispatchInput{
		AlertText: "help",
		Contacts:  contacts,
	})
	dispatch.Wait()

	assert.Equal(t, 60, count)

	attempts := dispatch.Attempts()
	require.Len(t, attempts, 60)
	for _, attempt := range attempts {
		assert.Equal(t, models.OutcomeSent, attempt.Outcome)
	}
}
