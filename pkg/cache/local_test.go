package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache() *LocalCache {
	return NewLocalCache(&LocalConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
	})
}

func TestLocalCacheSetGet(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	record := testRecord{ID: 7, Name: "water point"}
	require.NoError(t, c.Set(ctx, "record_7", record, time.Minute))

	var got testRecord
	require.NoError(t, c.Get(ctx, "record_7", &got))
	assert.Equal(t, record, got)
}

func TestLocalCacheMiss(t *testing.T) {
	c := newTestCache()

	var got testRecord
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLocalCacheDelete(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	var got int
	assert.ErrorIs(t, c.Get(ctx, "a", &got), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "b", &got), ErrCacheMiss)
}

func TestLocalCacheExists(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	exists, err := c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

	exists, err = c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalCacheExpiration(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "lived", 20*time.Millisecond))

	var got string
	require.NoError(t, c.Get(ctx, "short", &got))

	time.Sleep(40 * time.Millisecond)
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)
}

func TestLocalCacheClose(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Close())

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), ErrCacheMiss)
}
