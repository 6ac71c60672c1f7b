package dto

import (
	"time"

	"itinerary-planner-service/internal/domain"
)

type CreateItineraryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type AddExperienceRequest struct {
	ExperienceID string `json:"experience_id" validate:"required"`
	// TimeSlot requests an explicit slot; omitted means "next free slot".
	TimeSlot        *time.Time `json:"time_slot"`
	DurationMinutes int        `json:"duration" validate:"omitempty,min=1,max=1440"`
	Notes           string     `json:"notes" validate:"max=2000"`
}

type UpdateEntryRequest struct {
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
	Completed *bool   `json:"completed"`
}

type OptimizeWeights struct {
	PrioritizeDistance    float64 `json:"prioritize_distance"`
	PrioritizeTime        float64 `json:"prioritize_time"`
	PrioritizeRating      float64 `json:"prioritize_rating"`
	PrioritizePreferences float64 `json:"prioritize_preferences"`
}

type OptimizeRequest struct {
	PreferredTypes []string         `json:"preferred_types" validate:"max=20,dive,max=60"`
	Weights        *OptimizeWeights `json:"weights"`
}

// Itinerary responses reuse the persisted document shape: ISO-8601 dates,
// integer minute durations, experience references by id.
type ItineraryResponse = domain.ItineraryDocument

type ListItinerariesResponse struct {
	Itineraries []ItineraryResponse `json:"itineraries"`
}

type ConflictResponse struct {
	Type             string   `json:"type"`
	DayIndex         int      `json:"day_index"`
	ExperienceIDs    []string `json:"experience_ids"`
	Severity         string   `json:"severity"`
	Message          string   `json:"message"`
	Suggestion       string   `json:"suggestion"`
	RequiredMinutes  int      `json:"required_minutes,omitempty"`
	AvailableMinutes int      `json:"available_minutes,omitempty"`
}

type ListConflictsResponse struct {
	Conflicts []ConflictResponse `json:"conflicts"`
}

type TravelTimeResponse struct {
	Mode          string  `json:"mode"`
	DistanceMiles float64 `json:"distance_miles"`
	Minutes       int     `json:"minutes"`
}
