package ports

import (
	"context"

	"itinerary-planner-service/internal/domain"
)

// Port: a load/save-by-id boundary for persisted itinerary documents.
// Save must be all-or-nothing per itinerary record.
type ItineraryRepository interface {
	// Persist the full itinerary document, replacing any existing record.
	Save(ctx context.Context, it *domain.Itinerary) error
	// Load one itinerary; returns domain.ErrItineraryNotFound for unknown ids.
	Load(ctx context.Context, id string) (*domain.Itinerary, error)
	// LoadAll returns every persisted itinerary.
	LoadAll(ctx context.Context) ([]*domain.Itinerary, error)
	// Delete removes the record; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
