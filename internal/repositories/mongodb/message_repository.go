package mongodb

import (
	"context"
	"fmt"
	"time"

	"commhub/internal/models"
	"commhub/internal/repositories/interfaces"
	"commhub/pkg/cache"
	"commhub/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messagesCacheKey = "messages_all"

type messageRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	cache      cache.Cache
}

func NewMessageRepository(db *mongo.Database, c cache.Cache) interfaces.MessageRepository {
	return &messageRepository{
		db:         db,
		collection: db.Collection(database.CollectionMessages),
		cache:      c,
	}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	id, err := nextSequence(ctx, r.db, database.CollectionMessages)
	if err != nil {
		return err
	}

	message.ID = id
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	r.invalidateCache(ctx)

	return nil
}

func (r *messageRepository) GetAll(ctx context.Context) ([]*models.Message, error) {
	// Try cache first
	if r.cache != nil {
		var messages []*models.Message
		if err := r.cache.Get(ctx, messagesCacheKey, &messages); err == nil {
			return messages, nil
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []*models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, messagesCacheKey, messages, 5*time.Minute)
	}

	return messages, nil
}

func (r *messageRepository) GetByUsername(ctx context.Context, username string) ([]*models.Message, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages by username: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []*models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (r *messageRepository) invalidateCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, messagesCacheKey)
	}
}
