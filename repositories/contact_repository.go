package repositories

import (
	"context"

	"lifeline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{
		collection: db.Collection("contacts"),
	}
}

func (cr *ContactRepository) Upsert(ctx context.Context, contact models.Contact) error {
	filter := bson.M{"_id": contact.ID}
	opts := options.Replace().SetUpsert(true)

	_, err := cr.collection.ReplaceOne(ctx, filter, contact, opts)
	return err
}

func (cr *ContactRepository) Delete(ctx context.Context, contactID string) error {
	_, err := cr.collection.DeleteOne(ctx, bson.M{"_id": contactID})
	return err
}

func (cr *ContactRepository) GetAll(ctx context.Context) ([]models.Contact, error) {
	cursor, err := cr.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []models.Contact
	err = cursor.All(ctx, &contacts)
	return contacts, err
}
