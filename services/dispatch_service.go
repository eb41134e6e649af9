package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"lifeline/models"
	"lifeline/utils"

	"github.com/sirupsen/logrus"
)

// EmergencyNumber is the fixed emergency-services address used when
// auto-call-police is enabled.
const EmergencyNumber = "911"

// DispatchJob is the unit of work handed to a channel sender.
type DispatchJob struct {
	Channel       models.Channel
	Recipient     string
	Body          string
	HasAttachment bool
}

// ChannelSender sends one job over one transport. Implementations report
// delivery problems through the returned error; they must never panic into
// the engine.
type ChannelSender interface {
	Send(ctx context.Context, job DispatchJob) error
}

// DispatchInput is everything the engine needs for one emergency fan-out.
type DispatchInput struct {
	AlertText      string
	Contacts       []models.Contact
	AutoCallPolice bool
	HasAttachment  bool
}

// DispatchService fans out concurrent per-channel send attempts when an
// emergency is entered. Attempts run independently: one attempt's latency or
// failure never blocks or affects another, and nothing cancels an attempt
// once it has started.
type DispatchService struct {
	mu          sync.Mutex
	attempts    []models.DispatchAttempt
	invocations int

	senders     map[models.Channel]ChannelSender
	latency     func() time.Duration
	clock       Clock
	log         *ActivityLog
	feedback    *FeedbackService
	broadcaster Broadcaster

	wg sync.WaitGroup
}

func NewDispatchService(clock Clock, log *ActivityLog, feedback *FeedbackService) *DispatchService {
	return &DispatchService{
		senders: map[models.Channel]ChannelSender{
			models.ChannelSMS:   NewSimulatedSender(models.ChannelSMS),
			models.ChannelEmail: NewSimulatedSender(models.ChannelEmail),
			models.ChannelCall:  NewSimulatedSender(models.ChannelCall),
		},
		latency:  defaultLatency,
		clock:    clock,
		log:      log,
		feedback: feedback,
	}
}

// RegisterSender swaps the transport for one channel, e.g. the Twilio SMS
// sender when credentials are configured.
func (ds *DispatchService) RegisterSender(channel models.Channel, sender ChannelSender) {
	ds.senders[channel] = sender
}

// SetLatency overrides the simulated carrier delay; tests inject zero.
func (ds *DispatchService) SetLatency(latency func() time.Duration) {
	ds.latency = latency
}

func (ds *DispatchService) SetBroadcaster(b Broadcaster) {
	ds.broadcaster = b
}

// Dispatch performs one emergency fan-out and returns the number of attempts
// launched. Zero attempts is a configuration state, not an error; it is
// reported with a single informational log entry.
func (ds *DispatchService) Dispatch(input DispatchInput) int {
	ds.mu.Lock()
	ds.invocations++
	ds.mu.Unlock()

	count := 0
	for _, contact := range input.Contacts {
		if !contact.NotifyOnEmergency {
			continue
		}

		if contact.EnableSMS && contact.Phone != "" {
			ds.launch(DispatchJob{
				Channel:       models.ChannelSMS,
				Recipient:     contact.Phone,
				Body:          input.AlertText,
				HasAttachment: input.HasAttachment,
			})
			count++
		}
		if contact.EnableEmail && contact.Email != "" {
			ds.launch(DispatchJob{
				Channel:       models.ChannelEmail,
				Recipient:     contact.Email,
				Body:          input.AlertText,
				HasAttachment: input.HasAttachment,
			})
			count++
		}
		// A voice call is always attempted when a phone number exists,
		// independent of the SMS/email flags. It carries a short automated
		// marker rather than the full alert text.
		if contact.Phone != "" {
			ds.launch(DispatchJob{
				Channel:       models.ChannelCall,
				Recipient:     contact.Phone,
				Body:          "Automated Alert",
				HasAttachment: input.HasAttachment,
			})
			count++
		}
	}

	if input.AutoCallPolice {
		ds.launch(DispatchJob{
			Channel:       models.ChannelCall,
			Recipient:     EmergencyNumber,
			Body:          "Automated Safety Alert",
			HasAttachment: input.HasAttachment,
		})
		ds.launch(DispatchJob{
			Channel:   models.ChannelSMS,
			Recipient: EmergencyNumber,
			Body:      input.AlertText,
		})
		count += 2
	}

	if count == 0 {
		ds.log.Append(models.StateEmergency, "⚠️ No active contacts or channels configured for dispatch.")
	}

	logrus.Infof("Emergency dispatch fan-out launched %d attempts", count)
	return count
}

func (ds *DispatchService) launch(job DispatchJob) {
	attempt := models.DispatchAttempt{
		ID:            utils.GenerateUUID(),
		Channel:       job.Channel,
		Recipient:     job.Recipient,
		HasAttachment: job.HasAttachment,
		Outcome:       models.OutcomePending,
		CreatedAt:     ds.clock.Now(),
	}

	ds.mu.Lock()
	ds.attempts = append(ds.attempts, attempt)
	sender := ds.senders[job.Channel]
	latency := ds.latency
	ds.mu.Unlock()

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()

		// Simulated carrier delay. In-flight attempts always run to a
		// terminal outcome, so the context is detached from the trigger.
		if delay := latency(); delay > 0 {
			time.Sleep(delay)
		}

		outcome := models.OutcomeSent
		if err := sender.Send(context.Background(), job); err != nil {
			logrus.Errorf("Dispatch %s to %s failed: %v", job.Channel, job.Recipient, err)
			outcome = models.OutcomeFailed
		}

		ds.complete(attempt.ID, job, outcome)
	}()
}

// complete marks the attempt terminal, appends exactly one log entry and
// fires the haptic feedback signal.
func (ds *DispatchService) complete(attemptID string, job DispatchJob, outcome models.DispatchOutcome) {
	var completed models.DispatchAttempt

	ds.mu.Lock()
	for i := range ds.attempts {
		if ds.attempts[i].ID == attemptID {
			ds.attempts[i].Outcome = outcome
			ds.attempts[i].CompletedAt = ds.clock.Now()
			completed = ds.attempts[i]
			break
		}
	}
	ds.mu.Unlock()

	ds.log.Append(models.StateEmergency, dispatchLogMessage(job, outcome))
	ds.feedback.Signal(FeedbackTap)

	if ds.broadcaster != nil {
		ds.broadcaster.Broadcast(models.WSMessage{
			Type:      models.WSTypeDispatchAttempt,
			Data:      completed,
			Timestamp: completed.CompletedAt,
		})
	}
}

func dispatchLogMessage(job DispatchJob, outcome models.DispatchOutcome) string {
	if outcome == models.OutcomeFailed {
		return fmt.Sprintf("❌ [%s] Failed to reach %s", job.Channel, job.Recipient)
	}

	msg := fmt.Sprintf("📤 [%s] Sent to %s", job.Channel, job.Recipient)
	if job.Channel == models.ChannelCall {
		msg = fmt.Sprintf("📞 [CALL] Dialing %s... Playing automated msg + recording.", job.Recipient)
	}
	if job.HasAttachment {
		msg += " 📎(Voice Attached)"
	}
	return msg
}

// Attempts returns a newest-first copy of all attempts.
func (ds *DispatchService) Attempts() []models.DispatchAttempt {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := make([]models.DispatchAttempt, len(ds.attempts))
	for i, attempt := range ds.attempts {
		out[len(ds.attempts)-1-i] = attempt
	}
	return out
}

// Invocations reports how many times the fan-out has been triggered.
func (ds *DispatchService) Invocations() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.invocations
}

// Wait blocks until every launched attempt has reached a terminal outcome.
// Used on shutdown and by tests.
func (ds *DispatchService) Wait() {
	ds.wg.Wait()
}

func defaultLatency() time.Duration {
	return time.Duration(500+rand.Intn(2000)) * time.Millisecond
}
