package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
)

// RedisItineraryCache keeps serialized itinerary documents in redis so a
// restarted or sibling instance can skip the repository on reads. Entries
// expire on their own; the store invalidates on delete.
type RedisItineraryCache struct {
	Client *redis.Client
	TTL    time.Duration

	// Lookup resolves experience references while decoding cached documents.
	Lookup domain.ExperienceLookup
}

func NewRedisItineraryCache(client *redis.Client, ttl time.Duration, lookup domain.ExperienceLookup) *RedisItineraryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisItineraryCache{Client: client, TTL: ttl, Lookup: lookup}
}

func cacheKey(id string) string { return "itinerary:" + id }

// Get returns (nil, nil) on a cache miss.
func (c *RedisItineraryCache) Get(ctx context.Context, id string) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "itinerary.cache.Get")(&err)

	if c.Client == nil {
		return nil, errors.New("itinerary cache: client is nil")
	}

	doc, err := c.Client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached itinerary %q: %w", id, err)
	}

	it, err := domain.UnmarshalItinerary(doc, c.Lookup)
	if err != nil {
		// A stale or corrupt entry behaves like a miss after eviction.
		_ = c.Client.Del(ctx, cacheKey(id)).Err()
		return nil, fmt.Errorf("decode cached itinerary %q: %w", id, err)
	}
	return it, nil
}

func (c *RedisItineraryCache) Put(ctx context.Context, it *domain.Itinerary) (err error) {
	defer obs.Time(ctx, "itinerary.cache.Put")(&err)

	if c.Client == nil {
		return errors.New("itinerary cache: client is nil")
	}

	doc, err := domain.MarshalItinerary(it)
	if err != nil {
		return fmt.Errorf("cache itinerary %q: %w", it.ID, err)
	}

	if err := c.Client.Set(ctx, cacheKey(it.ID), doc, c.TTL).Err(); err != nil {
		return fmt.Errorf("cache itinerary %q: set: %w", it.ID, err)
	}
	return nil
}

func (c *RedisItineraryCache) Invalidate(ctx context.Context, id string) error {
	if c.Client == nil {
		return errors.New("itinerary cache: client is nil")
	}

	if err := c.Client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate cached itinerary %q: %w", id, err)
	}
	return nil
}
