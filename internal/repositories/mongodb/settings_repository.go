package mongodb

import (
	"context"
	"fmt"

	"commhub/internal/repositories/interfaces"
	"commhub/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) interfaces.SettingsRepository {
	return &settingsRepository{
		collection: db.Collection(database.CollectionSettings),
	}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var doc struct {
		Value string `bson:"value"`
	}

	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", interfaces.ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return doc.Value, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		bson.M{"_id": key, "value": value},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}
