package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"itinerary-planner-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisItineraryCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exp := &domain.Experience{ID: "e1", Name: "pier"}
	lookup := func(id string) (*domain.Experience, error) {
		if id != exp.ID {
			return nil, fmt.Errorf("lookup %q: %w", id, domain.ErrExperienceNotFound)
		}
		return exp, nil
	}
	return NewRedisItineraryCache(client, time.Minute, lookup), mr
}

func cachedItinerary(t *testing.T) *domain.Itinerary {
	t.Helper()

	it, err := domain.NewItinerary("it1", "Bay Area", "",
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		14, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new itinerary: %v", err)
	}
	it.Days[0].Experiences = append(it.Days[0].Experiences, &domain.ItineraryExperience{
		Experience: &domain.Experience{ID: "e1"},
		TimeSlot:   it.Days[0].Date.Add(9 * time.Hour),
		Duration:   2 * time.Hour,
	})
	return it
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	it := cachedItinerary(t)

	if err := c.Put(ctx, it); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a hit after put")
	}
	if got.ID != "it1" || len(got.Days) != 2 {
		t.Fatalf("round trip lost identity: %+v", got)
	}
	entry := got.Days[0].Experiences[0]
	if entry.Experience.Name != "pier" {
		t.Errorf("experience reference not resolved through lookup: %+v", entry.Experience)
	}
	if entry.Duration != 2*time.Hour {
		t.Errorf("duration %v, want 2h", entry.Duration)
	}
}

func TestCacheMissReturnsNilNil(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("miss must not be an error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	it := cachedItinerary(t)

	if err := c.Put(ctx, it); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Invalidate(ctx, it.ID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	got, err := c.Get(ctx, it.ID)
	if err != nil || got != nil {
		t.Fatalf("expected a clean miss after invalidate, got %+v, %v", got, err)
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	it := cachedItinerary(t)

	if err := c.Put(ctx, it); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, it.ID)
	if err != nil || got != nil {
		t.Fatalf("expected a miss after the TTL, got %+v, %v", got, err)
	}
}

func TestCacheCorruptEntryEvicted(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := mr.Set("itinerary:bad", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	if _, err := c.Get(ctx, "bad"); err == nil {
		t.Fatal("expected an error decoding a corrupt entry")
	}
	if mr.Exists("itinerary:bad") {
		t.Error("corrupt entry not evicted")
	}

	// After eviction the id is a plain miss.
	got, err := c.Get(ctx, "bad")
	if err != nil || got != nil {
		t.Fatalf("expected a miss after eviction, got %+v, %v", got, err)
	}
}
