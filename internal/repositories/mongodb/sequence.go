package mongodb

import (
	"context"
	"fmt"

	"commhub/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextSequence hands out the monotonic surrogate id for a collection, backed
// by an atomic upserted counter document per collection.
func nextSequence(ctx context.Context, db *mongo.Database, collection string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := db.Collection(database.CollectionCounters).FindOneAndUpdate(
		ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", collection, err)
	}

	return counter.Seq, nil
}
