package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LocalCache keeps everything in process memory. It is the default for a
// single-device hub with no redis available.
type LocalCache struct {
	store *gocache.Cache
}

type LocalConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

func NewLocalCache(config *LocalConfig) *LocalCache {
	return &LocalCache{
		store: gocache.New(config.DefaultExpiration, config.CleanupInterval),
	}
}

func (l *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	l.store.Set(key, data, expiration)
	return nil
}

func (l *LocalCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := l.store.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}

	return json.Unmarshal(data, dest)
}

func (l *LocalCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		l.store.Delete(key)
	}
	return nil
}

func (l *LocalCache) Exists(ctx context.Context, key string) (bool, error) {
	_, found := l.store.Get(key)
	return found, nil
}

func (l *LocalCache) Ping(ctx context.Context) error {
	return nil
}

func (l *LocalCache) Close() error {
	l.store.Flush()
	return nil
}
