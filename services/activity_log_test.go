package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/models"
)

type captureSink struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

func (cs *captureSink) Create(_ context.Context, entry models.LogEntry) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.entries = append(cs.entries, entry)
	return nil
}

func (cs *captureSink) Count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.entries)
}

func TestActivityLogAppendOrder(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := NewActivityLog(clock)

	log.Append(models.StateSafe, "first")
	clock.Advance(time.Second)
	log.Append(models.StateWarning, "second")
	clock.Advance(time.Second)
	log.Append(models.StateEmergency, "third")

	entries := log.Entries()
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "first", entries[2].Message)
	assert.Equal(t, 3, log.Len())

	seen := make(map[string]bool)
	for _, entry := range entries {
		assert.NotEmpty(t, entry.ID)
		assert.False(t, seen[entry.ID])
		seen[entry.ID] = true
	}
}

func TestActivityLogEntriesReturnsCopy(t *testing.T) {
	clock := newFakeClock(time.Now())
	log := NewActivityLog(clock)
	log.Append(models.StateSafe, "original")

	entries := log.Entries()
	entries[0].Message = "mutated"

	assert.Equal(t, "original", log.Entries()[0].Message)
}

func TestActivityLogWritesBehindToSink(t *testing.T) {
	clock := newFakeClock(time.Now())
	log := NewActivityLog(clock)
	sink := &captureSink{}
	log.SetSink(sink)

	log.Append(models.StateSafe, "persist me")

	assert.Eventually(t, func() bool {
		return sink.Count() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestActivityLogBroadcastsEntries(t *testing.T) {
	clock := newFakeClock(time.Now())
	log := NewActivityLog(clock)
	hub := &recordingBroadcaster{}
	log.SetBroadcaster(hub)

	entry := log.Append(models.StateWarning, "broadcast me")

	messages := hub.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, models.WSTypeLogEntry, messages[0].Type)
	assert.Equal(t, entry, messages[0].Data)
}

func TestActivityLogConcurrentAppends(t *testing.T) {
	clock := newFakeClock(time.Now())
	log := NewActivityLog(clock)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(models.StateEmergency, "concurrent")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, log.Len())
}
