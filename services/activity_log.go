package services

import (
	"context"
	"sync"
	"time"

	"lifeline/models"
	"lifeline/utils"

	"github.com/sirupsen/logrus"
)

// ActivityLog is the append-only record of every state transition and
// dispatch outcome. Append is the only mutator and is serialized so
// concurrent dispatch completions cannot interleave the sequence.
type ActivityLog struct {
	mu      sync.Mutex
	entries []models.LogEntry

	clock       Clock
	sink        LogSink
	broadcaster Broadcaster
}

func NewActivityLog(clock Clock) *ActivityLog {
	return &ActivityLog{
		clock: clock,
	}
}

// SetSink attaches a write-behind persistence sink.
func (al *ActivityLog) SetSink(sink LogSink) {
	al.sink = sink
}

// SetBroadcaster streams appended entries to presentation clients.
func (al *ActivityLog) SetBroadcaster(b Broadcaster) {
	al.broadcaster = b
}

// Append records one entry with a fresh unique id. Entries are never edited
// after append.
func (al *ActivityLog) Append(state models.SafetyState, message string) models.LogEntry {
	entry := models.LogEntry{
		ID:        utils.GenerateUUID(),
		Timestamp: al.clock.Now(),
		State:     state,
		Message:   message,
	}

	al.mu.Lock()
	al.entries = append(al.entries, entry)
	al.mu.Unlock()

	if al.sink != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := al.sink.Create(ctx, entry); err != nil {
				logrus.Warnf("Failed to persist log entry %s: %v", entry.ID, err)
			}
		}()
	}

	if al.broadcaster != nil {
		al.broadcaster.Broadcast(models.WSMessage{
			Type:      models.WSTypeLogEntry,
			Data:      entry,
			Timestamp: entry.Timestamp,
		})
	}

	return entry
}

// Entries returns a newest-first copy for presentation.
func (al *ActivityLog) Entries() []models.LogEntry {
	al.mu.Lock()
	defer al.mu.Unlock()

	out := make([]models.LogEntry, len(al.entries))
	for i, entry := range al.entries {
		out[len(al.entries)-1-i] = entry
	}
	return out
}

// Len reports the number of appended entries.
func (al *ActivityLog) Len() int {
	al.mu.Lock()
	defer al.mu.Unlock()
	return len(al.entries)
}
