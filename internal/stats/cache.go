package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "stats:"

// Cache keeps serialized aggregate reports warm in Redis so repeated stats
// reads skip the full session scan. Entries expire after the configured TTL
// and are rewarmed by the worker on session completion.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a stats cache with the given TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached report JSON for a study, or nil on a miss.
func (c *Cache) Get(ctx context.Context, studyID uuid.UUID) ([]byte, error) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+studyID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Set stores the report JSON for a study.
func (c *Cache) Set(ctx context.Context, studyID uuid.UUID, payload []byte) error {
	return c.client.Set(ctx, cacheKeyPrefix+studyID.String(), payload, c.ttl).Err()
}

// Invalidate drops the cached report for a study.
func (c *Cache) Invalidate(ctx context.Context, studyID uuid.UUID) error {
	return c.client.Del(ctx, cacheKeyPrefix+studyID.String()).Err()
}
