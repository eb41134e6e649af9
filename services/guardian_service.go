package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"lifeline/models"
	"lifeline/utils"

	"github.com/sirupsen/logrus"
)

var (
	// ErrAuthenticationRequired is returned when a check-in or reset is
	// attempted in EMERGENCY without a verified authentication.
	ErrAuthenticationRequired = errors.New("authentication required")

	ErrContactNotFound = errors.New("contact not found")
)

// GuardianService owns the escalation state machine: the authoritative
// safety state, the deadlines, the contact list and the protocol settings.
// All mutation goes through its intent methods under a single writer lock;
// callers only ever see read-only snapshots.
type GuardianService struct {
	// mu guards the state machine: state, tracker, settings, contacts,
	// lastCheckIn. It is never held while waiting on another component's
	// long-running work.
	mu          sync.Mutex
	state       models.SafetyState
	tracker     DeadlineTracker
	lastCheckIn time.Time
	settings    models.EmergencySettings
	contacts    []models.Contact

	// locMu guards the sensor values. It is a leaf lock: the tracking
	// ticker reads the last location through it while holding its own
	// lock, so sensor values must never share mu.
	locMu        sync.Mutex
	location     *models.LocationSample
	batteryLevel float64
	hasRecording bool

	clock    Clock
	log      *ActivityLog
	dispatch *DispatchService
	tracking *TrackingService
	compose  *ComposeService
	push     *PushService
	feedback *FeedbackService
	auth     *AuthService

	validator   *utils.ValidationService
	broadcaster Broadcaster

	monitorStore  MonitorStore
	contactStore  ContactStore
	settingsStore SettingsStore
}

func NewGuardianService(
	clock Clock,
	settings models.EmergencySettings,
	contacts []models.Contact,
	log *ActivityLog,
	dispatch *DispatchService,
	tracking *TrackingService,
	compose *ComposeService,
	push *PushService,
	feedback *FeedbackService,
	auth *AuthService,
) *GuardianService {
	gs := &GuardianService{
		state:        models.StateSafe,
		settings:     settings,
		contacts:     append([]models.Contact(nil), contacts...),
		batteryLevel: 1.0,
		clock:        clock,
		log:          log,
		dispatch:     dispatch,
		tracking:     tracking,
		compose:      compose,
		push:         push,
		feedback:     feedback,
		auth:         auth,
		validator:    utils.NewValidationService(),
	}

	now := clock.Now()
	gs.lastCheckIn = now
	gs.tracker.Arm(now, gs.settings)

	tracking.SetLocationSource(gs.LastLocation)

	return gs
}

func (gs *GuardianService) SetBroadcaster(b Broadcaster) {
	gs.broadcaster = b
}

func (gs *GuardianService) SetMonitorStore(store MonitorStore) {
	gs.monitorStore = store
}

func (gs *GuardianService) SetContactStore(store ContactStore) {
	gs.contactStore = store
}

func (gs *GuardianService) SetSettingsStore(store SettingsStore) {
	gs.settingsStore = store
}

// Restore adopts a persisted snapshot at boot. If the process slept past a
// deadline, the next Evaluate tick escalates immediately.
func (gs *GuardianService) Restore(state *models.MonitorState) {
	if state == nil {
		return
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.state = state.State
	gs.lastCheckIn = state.LastCheckIn
	gs.tracker.Restore(state.NextCheckInDeadline, state.EmergencyDeadline)

	if gs.state == models.StateEmergency && gs.settings.LiveTrackingEnabled {
		gs.tracking.Start()
	}

	logrus.Infof("Restored monitor state: %s (next check-in %s)", gs.state, state.NextCheckInDeadline.Format(time.RFC3339))
}

// Evaluate is the body of the periodic tick. Comparisons are strict: a tick
// landing exactly on a deadline does not escalate yet. In EMERGENCY the tick
// is a no-op so dispatch can never re-trigger.
func (gs *GuardianService) Evaluate(now time.Time) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	switch gs.state {
	case models.StateSafe:
		if now.After(gs.tracker.NextCheckIn()) {
			gs.enterWarningLocked(now)
		}
	case models.StateWarning:
		if d := gs.tracker.Emergency(); d != nil && now.After(*d) {
			gs.enterEmergencyLocked(now, "Check-in grace period expired. Emergency protocols initiated.")
		}
	case models.StateEmergency:
		// Sink state for the tick.
	}
}

// CheckIn confirms safety. In SAFE or WARNING it re-arms the deadline; in
// EMERGENCY it is rejected, the reset path requires authentication.
func (gs *GuardianService) CheckIn() error {
	gs.feedback.Signal(FeedbackButton)

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state == models.StateEmergency {
		return ErrAuthenticationRequired
	}

	gs.resetLocked(gs.clock.Now())
	return nil
}

// TriggerSOS enters EMERGENCY from any state, bypassing WARNING.
func (gs *GuardianService) TriggerSOS() {
	gs.feedback.Signal(FeedbackButton)

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.enterEmergencyLocked(gs.clock.Now(), "SOS Triggered. Emergency protocols initiated.")
}

// Reset leaves EMERGENCY. It only executes after the auth collaborator has
// verified the user; the reset token is the proof.
func (gs *GuardianService) Reset(resetToken string) error {
	if err := gs.auth.VerifyResetToken(resetToken); err != nil {
		logrus.Warnf("Reset rejected, invalid token: %v", err)
		return ErrAuthenticationRequired
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.resetLocked(gs.clock.Now())
	return nil
}

// enterWarningLocked freezes the check-in deadline, arms the emergency
// deadline and notifies the user locally. Caller holds mu.
func (gs *GuardianService) enterWarningLocked(now time.Time) {
	gs.state = models.StateWarning
	gs.tracker.EnterWarning(now, gs.settings)

	gs.log.Append(models.StateWarning, "Check-in deadline missed. Warning Phase started.")
	gs.feedback.Signal(FeedbackWarning)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		gs.push.SendWarning(ctx, "LifeLine Alert", "Please check in! Emergency contacts will be notified soon.")
	}()

	gs.persistLocked()
	gs.broadcastStateLocked()
}

// enterEmergencyLocked runs the full emergency entry: log, compose, dispatch
// exactly once per entry, start live tracking. Caller holds mu.
func (gs *GuardianService) enterEmergencyLocked(now time.Time, message string) {
	gs.state = models.StateEmergency
	gs.log.Append(models.StateEmergency, message)
	gs.feedback.Signal(FeedbackSOS)

	location, battery, hasRecording := gs.sensorSnapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	alertText := gs.compose.ComposeAlert(ctx, gs.settings.CustomSafetyMessage, location, battery)
	cancel()

	gs.dispatch.Dispatch(DispatchInput{
		AlertText:      alertText,
		Contacts:       append([]models.Contact(nil), gs.contacts...),
		AutoCallPolice: gs.settings.AutoCallPolice,
		HasAttachment:  hasRecording,
	})

	if gs.settings.LiveTrackingEnabled {
		// Start is a no-op when already broadcasting, so re-entering
		// EMERGENCY never creates a duplicate schedule.
		gs.tracking.Start()
	}

	gs.persistLocked()
	gs.broadcastStateLocked()
}

// resetLocked returns to SAFE: re-arm from now, clear the emergency
// deadline, stop the broadcaster. Caller holds mu.
func (gs *GuardianService) resetLocked(now time.Time) {
	wasEmergency := gs.state == models.StateEmergency

	gs.lastCheckIn = now
	gs.tracker.Clear(now, gs.settings)
	gs.state = models.StateSafe

	if wasEmergency {
		gs.log.Append(models.StateSafe, "Emergency Reset: User marked Safe")
	} else {
		gs.log.Append(models.StateSafe, "Routine Check-in Confirmed")
	}
	gs.feedback.Signal(FeedbackSuccess)

	gs.tracking.Stop()

	gs.persistLocked()
	gs.broadcastStateLocked()
}

// =================== SETTINGS ===================

// UpdateSettings applies a partial settings update. Changing the interval
// while SAFE re-arms the check-in deadline from now; a frozen emergency
// deadline is never recomputed mid-warning.
func (gs *GuardianService) UpdateSettings(req models.UpdateSettingsRequest) (models.EmergencySettings, []utils.ValidationError) {
	if validationErrors := gs.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return models.EmergencySettings{}, validationErrors
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	intervalChanged := false
	if req.CheckInIntervalValue != nil && *req.CheckInIntervalValue != gs.settings.CheckInIntervalValue {
		gs.settings.CheckInIntervalValue = *req.CheckInIntervalValue
		intervalChanged = true
	}
	if req.CheckInIntervalUnit != nil && *req.CheckInIntervalUnit != gs.settings.CheckInIntervalUnit {
		gs.settings.CheckInIntervalUnit = *req.CheckInIntervalUnit
		intervalChanged = true
	}
	if req.WarningGracePeriodMinutes != nil {
		gs.settings.WarningGracePeriodMinutes = *req.WarningGracePeriodMinutes
	}
	if req.CustomSafetyMessage != nil {
		gs.settings.CustomSafetyMessage = *req.CustomSafetyMessage
	}
	if req.AutoCallPolice != nil {
		gs.settings.AutoCallPolice = *req.AutoCallPolice
	}
	if req.LiveTrackingEnabled != nil {
		gs.settings.LiveTrackingEnabled = *req.LiveTrackingEnabled

		if gs.state == models.StateEmergency {
			if gs.settings.LiveTrackingEnabled {
				gs.tracking.Start()
			} else {
				gs.tracking.Stop()
			}
		}
	}

	if intervalChanged && gs.state == models.StateSafe {
		gs.tracker.Arm(gs.clock.Now(), gs.settings)
	}

	settings := gs.settings
	if gs.settingsStore != nil {
		go gs.persistSettings(settings)
	}

	gs.persistLocked()
	gs.broadcastStateLocked()
	return settings, nil
}

// Settings returns a copy of the current protocol settings.
func (gs *GuardianService) Settings() models.EmergencySettings {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.settings
}

// =================== CONTACTS ===================

// AddContact creates a contact with a fresh unique id.
func (gs *GuardianService) AddContact(req models.ContactRequest) (models.Contact, []utils.ValidationError, error) {
	if validationErrors := gs.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return models.Contact{}, validationErrors, nil
	}

	contact := models.Contact{
		ID:                utils.GenerateUUID(),
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		NotifyOnWarning:   req.NotifyOnWarning,
		NotifyOnEmergency: req.NotifyOnEmergency,
		EnableSMS:         req.EnableSMS,
		EnableEmail:       req.EnableEmail,
	}

	gs.mu.Lock()
	gs.contacts = append(gs.contacts, contact)
	gs.mu.Unlock()

	gs.persistContact(contact)
	return contact, nil, nil
}

// UpdateContact replaces the contact with the given id.
func (gs *GuardianService) UpdateContact(contactID string, req models.ContactRequest) (models.Contact, []utils.ValidationError, error) {
	if validationErrors := gs.validator.ValidateStruct(req); len(validationErrors) > 0 {
		return models.Contact{}, validationErrors, nil
	}

	contact := models.Contact{
		ID:                contactID,
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		NotifyOnWarning:   req.NotifyOnWarning,
		NotifyOnEmergency: req.NotifyOnEmergency,
		EnableSMS:         req.EnableSMS,
		EnableEmail:       req.EnableEmail,
	}

	gs.mu.Lock()
	found := false
	for i := range gs.contacts {
		if gs.contacts[i].ID == contactID {
			gs.contacts[i] = contact
			found = true
			break
		}
	}
	gs.mu.Unlock()

	if !found {
		return models.Contact{}, nil, ErrContactNotFound
	}

	gs.persistContact(contact)
	return contact, nil, nil
}

// DeleteContact removes the contact with the given id.
func (gs *GuardianService) DeleteContact(contactID string) error {
	gs.mu.Lock()
	found := false
	for i := range gs.contacts {
		if gs.contacts[i].ID == contactID {
			gs.contacts = append(gs.contacts[:i], gs.contacts[i+1:]...)
			found = true
			break
		}
	}
	gs.mu.Unlock()

	if !found {
		return ErrContactNotFound
	}

	if gs.contactStore != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := gs.contactStore.Delete(ctx, contactID); err != nil {
				logrus.Warnf("Failed to delete contact %s: %v", contactID, err)
			}
		}()
	}
	return nil
}

// Contacts returns a copy of the contact list.
func (gs *GuardianService) Contacts() []models.Contact {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return append([]models.Contact(nil), gs.contacts...)
}

// =================== SENSORS ===================

// OnLocationSample stores the latest GPS fix, last value wins.
func (gs *GuardianService) OnLocationSample(sample models.LocationSample) {
	gs.locMu.Lock()
	gs.location = &sample
	gs.locMu.Unlock()
}

// OnBatteryLevel stores the latest battery fraction, clamped to [0, 1].
func (gs *GuardianService) OnBatteryLevel(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	gs.locMu.Lock()
	gs.batteryLevel = level
	gs.locMu.Unlock()
}

// SetVoiceRecording flags whether a voice attachment accompanies dispatches.
func (gs *GuardianService) SetVoiceRecording(present bool) {
	gs.locMu.Lock()
	gs.hasRecording = present
	gs.locMu.Unlock()
}

// LastLocation returns the most recent sample, or nil before first GPS fix.
func (gs *GuardianService) LastLocation() *models.LocationSample {
	gs.locMu.Lock()
	defer gs.locMu.Unlock()

	if gs.location == nil {
		return nil
	}
	sample := *gs.location
	return &sample
}

func (gs *GuardianService) sensorSnapshot() (*models.LocationSample, float64, bool) {
	gs.locMu.Lock()
	defer gs.locMu.Unlock()

	var location *models.LocationSample
	if gs.location != nil {
		sample := *gs.location
		location = &sample
	}
	return location, gs.batteryLevel, gs.hasRecording
}

// =================== SNAPSHOT & PERSISTENCE ===================

// Snapshot returns the read-only aggregate view for presentation.
func (gs *GuardianService) Snapshot() models.StatusSnapshot {
	gs.mu.Lock()
	snapshot := models.StatusSnapshot{
		State:        gs.state,
		Deadlines:    gs.tracker.Deadlines(),
		LastCheckIn:  gs.lastCheckIn,
		LiveTracking: gs.settings.LiveTrackingEnabled,
	}
	gs.mu.Unlock()

	location, battery, hasRecording := gs.sensorSnapshot()
	snapshot.Location = location
	snapshot.BatteryLevel = battery
	snapshot.HasRecording = hasRecording
	return snapshot
}

// State returns the current safety state.
func (gs *GuardianService) State() models.SafetyState {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.state
}

// Deadlines returns a copy of the current deadlines.
func (gs *GuardianService) Deadlines() models.Deadlines {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.tracker.Deadlines()
}

func (gs *GuardianService) persistLocked() {
	if gs.monitorStore == nil {
		return
	}

	state := models.MonitorState{
		State:               gs.state,
		LastCheckIn:         gs.lastCheckIn,
		NextCheckInDeadline: gs.tracker.NextCheckIn(),
		EmergencyDeadline:   gs.tracker.Deadlines().Emergency,
		UpdatedAt:           gs.clock.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gs.monitorStore.Save(ctx, state); err != nil {
			logrus.Warnf("Failed to persist monitor state: %v", err)
		}
	}()
}

func (gs *GuardianService) persistContact(contact models.Contact) {
	if gs.contactStore == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gs.contactStore.Upsert(ctx, contact); err != nil {
			logrus.Warnf("Failed to persist contact %s: %v", contact.ID, err)
		}
	}()
}

func (gs *GuardianService) persistSettings(settings models.EmergencySettings) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gs.settingsStore.Save(ctx, settings); err != nil {
		logrus.Warnf("Failed to persist settings: %v", err)
	}
}

func (gs *GuardianService) broadcastStateLocked() {
	if gs.broadcaster == nil {
		return
	}

	snapshot := models.StatusSnapshot{
		State:        gs.state,
		Deadlines:    gs.tracker.Deadlines(),
		LastCheckIn:  gs.lastCheckIn,
		LiveTracking: gs.settings.LiveTrackingEnabled,
	}
	gs.broadcaster.Broadcast(models.WSMessage{
		Type:      models.WSTypeStateChange,
		Data:      snapshot,
		Timestamp: gs.clock.Now(),
	})
}
