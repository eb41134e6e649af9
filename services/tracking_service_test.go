package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/models"
)

func newTestTracking(period time.Duration) (*TrackingService, *recordingBroadcaster, *ActivityLog) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := NewActivityLog(clock)
	hub := &recordingBroadcaster{}

	tracking := NewTrackingService(period, log)
	tracking.SetBroadcaster(hub)
	return tracking, hub, log
}

func fixedLocation() *models.LocationSample {
	return &models.LocationSample{Latitude: 37.77490, Longitude: -122.41940}
}

func TestTrackingBroadcastsImmediatelyAndPeriodically(t *testing.T) {
	tracking, hub, log := newTestTracking(20 * time.Millisecond)
	tracking.SetLocationSource(fixedLocation)

	tracking.Start()
	defer tracking.Stop()

	// One emit happens synchronously inside Start.
	assert.Equal(t, 1, hub.CountType(models.WSTypeLiveLocation))

	time.Sleep(70 * time.Millisecond)
	assert.GreaterOrEqual(t, hub.CountType(models.WSTypeLiveLocation), 3)
	assert.True(t, hasLogMessage(log, "📍 Live Location Sent: 37.77490, -122.41940"))
}

func TestTrackingStopIsSynchronous(t *testing.T) {
	tracking, hub, _ := newTestTracking(10 * time.Millisecond)
	tracking.SetLocationSource(fixedLocation)

	tracking.Start()
	time.Sleep(35 * time.Millisecond)
	tracking.Stop()
	require.False(t, tracking.Active())

	// No broadcast is observable after Stop returns.
	count := hub.CountType(models.WSTypeLiveLocation)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, count, hub.CountType(models.WSTypeLiveLocation))
}

func TestTrackingStartIsIdempotent(t *testing.T) {
	tracking, hub, _ := newTestTracking(time.Hour)
	tracking.SetLocationSource(fixedLocation)

	tracking.Start()
	tracking.Start()
	defer tracking.Stop()

	// The second Start is a no-op: one schedule, one immediate emit.
	assert.Equal(t, 1, hub.CountType(models.WSTypeLiveLocation))
	assert.True(t, tracking.Active())
}

func TestTrackingWithoutLocationStaysArmed(t *testing.T) {
	tracking, hub, _ := newTestTracking(15 * time.Millisecond)

	var mu sync.Mutex
	var sample *models.LocationSample
	tracking.SetLocationSource(func() *models.LocationSample {
		mu.Lock()
		defer mu.Unlock()
		return sample
	})

	tracking.Start()
	defer tracking.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.True(t, tracking.Active())
	assert.Zero(t, hub.CountType(models.WSTypeLiveLocation))

	// Once a fix arrives the armed schedule starts emitting.
	mu.Lock()
	sample = fixedLocation()
	mu.Unlock()
	assert.Eventually(t, func() bool {
		return hub.CountType(models.WSTypeLiveLocation) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestTrackingStopWhenInactiveIsNoOp(t *testing.T) {
	tracking, _, _ := newTestTracking(time.Hour)
	tracking.Stop()
	assert.False(t, tracking.Active())
}
