package repositories

import (
	"context"
	"errors"

	"lifeline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const monitorStateID = "monitor"

// MonitorStateRepository stores the single persisted state-machine snapshot
// so deadlines survive process suspend and restart.
type MonitorStateRepository struct {
	collection *mongo.Collection
}

func NewMonitorStateRepository(db *mongo.Database) *MonitorStateRepository {
	return &MonitorStateRepository{
		collection: db.Collection("monitor_state"),
	}
}

func (msr *MonitorStateRepository) Save(ctx context.Context, state models.MonitorState) error {
	filter := bson.M{"_id": monitorStateID}
	update := bson.M{"$set": bson.M{
		"state":               state.State,
		"lastCheckIn":         state.LastCheckIn,
		"nextCheckInDeadline": state.NextCheckInDeadline,
		"emergencyDeadline":   state.EmergencyDeadline,
		"updatedAt":           state.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	_, err := msr.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Load returns the persisted snapshot, or nil when none exists yet.
func (msr *MonitorStateRepository) Load(ctx context.Context) (*models.MonitorState, error) {
	var state models.MonitorState
	err := msr.collection.FindOne(ctx, bson.M{"_id": monitorStateID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}
