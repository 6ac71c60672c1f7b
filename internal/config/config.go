package config

import (
	"os"
	"time"

	"itinerary-planner-service/internal/domain"
)

// OptimizerWeights tune the scoring step of the itinerary optimizer.
type OptimizerWeights struct {
	PrioritizeDistance    float64
	PrioritizeTime        float64
	PrioritizeRating      float64
	PrioritizePreferences float64
}

// Planning holds the scheduling constants. Callers override per call by
// passing a modified copy; nothing in the core reads these from globals.
type Planning struct {
	MaxDaysPerItinerary       int
	MaxExperiencesPerDay      int
	MinTimeBetweenExperiences time.Duration
	DefaultExperienceDuration time.Duration
	TravelTimeBuffer          time.Duration

	// DayStart is the offset from midnight at which a day's first slot begins.
	DayStart time.Duration

	Weights OptimizerWeights

	// Speeds maps a travel mode to its nominal average speed in mph.
	Speeds map[domain.TravelMode]float64
}

// DefaultPlanning returns the stock scheduling constants.
func DefaultPlanning() Planning {
	return Planning{
		MaxDaysPerItinerary:       14,
		MaxExperiencesPerDay:      8,
		MinTimeBetweenExperiences: 30 * time.Minute,
		DefaultExperienceDuration: 120 * time.Minute,
		TravelTimeBuffer:          15 * time.Minute,
		DayStart:                  9 * time.Hour,
		Weights: OptimizerWeights{
			PrioritizeDistance:    1,
			PrioritizeTime:        1,
			PrioritizeRating:      1,
			PrioritizePreferences: 1,
		},
		Speeds: map[domain.TravelMode]float64{
			domain.ModeDriving: 35,
			domain.ModeWalking: 3,
			domain.ModeTransit: 20,
			domain.ModeCycling: 12,
		},
	}
}

// Speed returns the average speed for mode, rejecting unknown modes.
func (p Planning) Speed(mode domain.TravelMode) (float64, error) {
	mph, ok := p.Speeds[mode]
	if !ok || mph <= 0 {
		return 0, domain.NewValidationError(domain.CodeInvalidTravelMode, "unsupported travel mode %q", mode)
	}
	return mph, nil
}

// Get reads an environment variable with a fallback default.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
