package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lifeline/models"

	"github.com/sirupsen/logrus"
)

// DefaultBroadcastPeriod is the reference live-tracking cadence.
const DefaultBroadcastPeriod = 30 * time.Second

// TrackingService broadcasts the last known location while the emergency
// state persists. At most one schedule is ever active; starting an active
// broadcaster is a no-op, and Stop cancels synchronously so no broadcast can
// be observed after the stopping transition completes.
type TrackingService struct {
	mu     sync.Mutex
	active bool
	cancel context.CancelFunc

	period      time.Duration
	log         *ActivityLog
	broadcaster Broadcaster
	location    func() *models.LocationSample
}

func NewTrackingService(period time.Duration, log *ActivityLog) *TrackingService {
	if period <= 0 {
		period = DefaultBroadcastPeriod
	}
	return &TrackingService{
		period: period,
		log:    log,
	}
}

func (ts *TrackingService) SetBroadcaster(b Broadcaster) {
	ts.broadcaster = b
}

// SetLocationSource wires the last-known-location reader; each tick uses
// whatever sample is most recently known.
func (ts *TrackingService) SetLocationSource(source func() *models.LocationSample) {
	ts.location = source
}

// Start emits one broadcast immediately, then one per period. If no location
// is known yet, the tick emits nothing but the schedule stays armed.
func (ts *TrackingService) Start() {
	ts.mu.Lock()
	if ts.active {
		ts.mu.Unlock()
		return
	}
	ts.active = true
	ctx, cancel := context.WithCancel(context.Background())
	ts.cancel = cancel
	ts.emitLocked()
	ts.mu.Unlock()

	logrus.Info("Live tracking broadcast started")
	go ts.run(ctx)
}

// Stop cancels the schedule. Any in-flight emit finishes before Stop
// returns, and no emit starts afterwards.
func (ts *TrackingService) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.active {
		return
	}
	ts.active = false
	ts.cancel()
	ts.cancel = nil

	logrus.Info("Live tracking broadcast stopped")
}

// Active reports whether a schedule is currently armed.
func (ts *TrackingService) Active() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.active
}

func (ts *TrackingService) run(ctx context.Context) {
	ticker := time.NewTicker(ts.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ts.mu.Lock()
			if ts.active {
				ts.emitLocked()
			}
			ts.mu.Unlock()
		}
	}
}

func (ts *TrackingService) emitLocked() {
	if ts.location == nil {
		return
	}
	sample := ts.location()
	if sample == nil {
		return
	}

	ts.log.Append(models.StateEmergency,
		fmt.Sprintf("📍 Live Location Sent: %.5f, %.5f", sample.Latitude, sample.Longitude))

	if ts.broadcaster != nil {
		ts.broadcaster.Broadcast(models.WSMessage{
			Type:      models.WSTypeLiveLocation,
			Data:      sample,
			Timestamp: time.Now(),
		})
	}
}
