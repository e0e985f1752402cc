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

const sosCacheKey = "sos_all"

type sosRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	cache      cache.Cache
}

func NewSOSRepository(db *mongo.Database, c cache.Cache) interfaces.SOSRepository {
	return &sosRepository{
		db:         db,
		collection: db.Collection(database.CollectionSOS),
		cache:      c,
	}
}

func (r *sosRepository) Create(ctx context.Context, alert *models.SOSAlert) error {
	id, err := nextSequence(ctx, r.db, database.CollectionSOS)
	if err != nil {
		return err
	}

	alert.ID = id
	alert.Status = models.SOSStatusActive
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, alert)
	if err != nil {
		return fmt.Errorf("failed to create sos alert: %w", err)
	}

	r.invalidateCache(ctx)

	return nil
}

func (r *sosRepository) GetAll(ctx context.Context) ([]*models.SOSAlert, error) {
	// Try cache first
	if r.cache != nil {
		var alerts []*models.SOSAlert
		if err := r.cache.Get(ctx, sosCacheKey, &alerts); err == nil {
			return alerts, nil
		}
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get sos alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := []*models.SOSAlert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode sos alerts: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, sosCacheKey, alerts, 5*time.Minute)
	}

	return alerts, nil
}

func (r *sosRepository) GetByID(ctx context.Context, id int64) (*models.SOSAlert, error) {
	var alert models.SOSAlert
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sos alert: %w", err)
	}

	return &alert, nil
}

// Resolve applies the one-way active -> resolved transition. The filter pins
// status to active so a second resolve cannot rewrite resolved_at.
func (r *sosRepository) Resolve(ctx context.Context, id int64) (*models.SOSAlert, error) {
	now := time.Now()

	var alert models.SOSAlert
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.SOSStatusActive},
		bson.M{"$set": bson.M{"status": models.SOSStatusResolved, "resolved_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish a missing alert from one already resolved.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, interfaces.ErrAlreadyResolved
		}
		return nil, fmt.Errorf("failed to resolve sos alert: %w", err)
	}

	r.invalidateCache(ctx)

	return &alert, nil
}

func (r *sosRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count sos alerts: %w", err)
	}
	return count, nil
}

func (r *sosRepository) invalidateCache(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, sosCacheKey)
	}
}
