package ports

import (
	"context"

	"itinerary-planner-service/internal/domain"
)

// Port: a boundary for retrieving the externally supplied, read-only
// experience catalog.
type ExperienceRepository interface {
	// Get one experience; returns domain.ErrExperienceNotFound for unknown ids.
	GetExperience(ctx context.Context, id string) (*domain.Experience, error)
	// ListExperiences returns the whole catalog.
	ListExperiences(ctx context.Context) ([]*domain.Experience, error)
}
