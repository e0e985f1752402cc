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

const spotsCacheKey = "spots_all"

type spotRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	cache      cache.Cache
}

func NewSpotRepository(db *mongo.Database, c cache.Cache) interfaces.SpotRepository {
	return &spotRepository{
		db:         db,
		collection: db.Collection(database.CollectionSpots),
		cache:      c,
	}
}

func (r *spotRepository) Create(ctx context.Context, spot *models.Spot) error {
	id, err := nextSequence(ctx, r.db, database.CollectionSpots)
	if err != nil {
		return err
	}

	spot.ID = id
	if spot.Timestamp.IsZero() {
		spot.Timestamp = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, spot)
	if err != nil {
		return fmt.Errorf("failed to create spot: %w", err)
	}

	r.invalidateCache(ctx)

	return nil
}

func (r *spotRepository) GetAll(ctx context.Context) ([]*models.Spot, error) {
	// Try cache first
	if r.cache != nil {
		var spots []*models.Spot
		if err := r.cache.Get(ctx, spotsCacheKey, &spots); err == nil {
			return spots, nil
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get spots: %w", err)
	}
	defer cursor.Close(ctx)

	spots := []*models.Spot{}
	if err := cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode spots: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, spotsCacheKey, spots, 5*time.Minute)
	}

	return spots, nil
}

func (r *spotRepository) GetByCategory(ctx context.Context, category models.SpotCategory) ([]*models.Spot, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{"category": category},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get spots by category: %w", err)
	}
	defer cursor.Close(ctx)

	spots := []*models.Spot{}
	if err := cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode spots: %w", err)
	}

	return spots, nil
}

func (r *spotRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count spots: %w", err)
	}
	return count, nil
}

func (r *spotRepository) invalidateCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, spotsCacheKey)
	}
}
