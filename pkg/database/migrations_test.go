package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func countCommands(mt *mtest.T, name string) int {
	count := 0
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			count++
		}
	}
	return count
}

func TestMigratorUpFreshStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("fresh store runs every migration", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".migrations"
		mt.AddMockResponses(
			// No collections yet, so the migrations collection gets created.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
			// No version document means version 0.
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(), // createIndexes v1
			mtest.CreateSuccessResponse(), // record v1
			mtest.CreateSuccessResponse(), // createIndexes v2
			mtest.CreateSuccessResponse(), // record v2
			mtest.CreateSuccessResponse(), // createIndexes v3
			mtest.CreateSuccessResponse(), // record v3
		)

		migrator := NewMigrator(mt.DB)
		require.NoError(t, migrator.Up())

		assert.Equal(t, 3, countCommands(mt, "createIndexes"))
		assert.Equal(t, 3, countCommands(mt, "update"))
	})
}

func TestMigratorUpCurrentStoreIsNoOp(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("current store touches nothing", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".migrations"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "name", Value: "migrations"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "version", Value: 3}},
			),
		)

		migrator := NewMigrator(mt.DB)
		require.NoError(t, migrator.Up())

		assert.Zero(t, countCommands(mt, "create"))
		assert.Zero(t, countCommands(mt, "createIndexes"))
		assert.Zero(t, countCommands(mt, "update"))
	})
}

func TestMigratorUpOlderStoreGainsOnlyMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("version 2 store only runs migration 3", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".migrations"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "name", Value: "migrations"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "version", Value: 2}},
			),
			mtest.CreateSuccessResponse(), // createIndexes v3
			mtest.CreateSuccessResponse(), // record v3
		)

		migrator := NewMigrator(mt.DB)
		require.NoError(t, migrator.Up())

		assert.Equal(t, 1, countCommands(mt, "createIndexes"))
		assert.Equal(t, 1, countCommands(mt, "update"))
	})
}
