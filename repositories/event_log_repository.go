package repositories

import (
	"context"

	"lifeline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventLogRepository persists activity log entries. The in-memory log stays
// authoritative; this is a durable write-behind copy.
type EventLogRepository struct {
	collection *mongo.Collection
}

func NewEventLogRepository(db *mongo.Database) *EventLogRepository {
	return &EventLogRepository{
		collection: db.Collection("activity_log"),
	}
}

func (elr *EventLogRepository) Create(ctx context.Context, entry models.LogEntry) error {
	_, err := elr.collection.InsertOne(ctx, entry)
	return err
}

// GetRecent returns up to limit entries, newest first.
func (elr *EventLogRepository) GetRecent(ctx context.Context, limit int) ([]models.LogEntry, error) {
	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(int64(limit))

	cursor, err := elr.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.LogEntry
	err = cursor.All(ctx, &entries)
	return entries, err
}
