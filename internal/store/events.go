package store

import "itinerary-planner-service/internal/domain"

type EventType string

const (
	EventItineraryCreated   EventType = "itinerary_created"
	EventItineraryDeleted   EventType = "itinerary_deleted"
	EventCurrentChanged     EventType = "current_itinerary_changed"
	EventExperienceAdded    EventType = "experience_added"
	EventExperienceRemoved  EventType = "experience_removed"
	EventItineraryOptimized EventType = "itinerary_optimized"
)

// Event describes one successful store mutation. Itinerary (and Previous,
// for optimize) are snapshots: listeners may hold them without copying.
type Event struct {
	Type        EventType
	ItineraryID string
	Itinerary   *domain.Itinerary
	// Previous carries the pre-optimize schedule on EventItineraryOptimized.
	Previous     *domain.Itinerary
	ExperienceID string
	DayIndex     int
}

// Listener receives events synchronously after each successful mutation.
type Listener func(Event)
