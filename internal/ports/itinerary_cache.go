package ports

import (
	"context"

	"itinerary-planner-service/internal/domain"
)

// Optional fast path in front of the ItineraryRepository.
type ItineraryCache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, id string) (*domain.Itinerary, error)
	Put(ctx context.Context, it *domain.Itinerary) error
	Invalidate(ctx context.Context, id string) error
}
