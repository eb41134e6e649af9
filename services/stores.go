package services

import (
	"context"

	"lifeline/models"
)

// Persistence sinks implemented by the mongo repositories. They are optional:
// every write is fail-soft and never feeds back into escalation.

type LogSink interface {
	Create(ctx context.Context, entry models.LogEntry) error
}

type MonitorStore interface {
	Save(ctx context.Context, state models.MonitorState) error
	Load(ctx context.Context) (*models.MonitorState, error)
}

type ContactStore interface {
	Upsert(ctx context.Context, contact models.Contact) error
	Delete(ctx context.Context, contactID string) error
}

type SettingsStore interface {
	Save(ctx context.Context, settings models.EmergencySettings) error
	Load(ctx context.Context) (*models.EmergencySettings, error)
}

// Broadcaster pushes core events to connected presentation clients. The
// websocket hub implements it; a nil broadcaster is always tolerated.
type Broadcaster interface {
	Broadcast(message models.WSMessage)
}
