package repositories

import (
	"context"
	"errors"

	"lifeline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsID = "settings"

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("settings"),
	}
}

func (sr *SettingsRepository) Save(ctx context.Context, settings models.EmergencySettings) error {
	filter := bson.M{"_id": settingsID}
	update := bson.M{"$set": settings}
	opts := options.Update().SetUpsert(true)

	_, err := sr.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Load returns the persisted settings, or nil when none exist yet.
func (sr *SettingsRepository) Load(ctx context.Context) (*models.EmergencySettings, error) {
	var settings models.EmergencySettings
	err := sr.collection.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}
