package services

import (
	"fmt"
	"math"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

// Earth radius in miles; the scheduling core works in miles throughout.
const earthRadiusMiles = 3958.8

// TravelEstimate is the straight-line travel estimate between two
// experiences for a given mode.
type TravelEstimate struct {
	Mode          domain.TravelMode
	DistanceMiles float64
	Minutes       int
}

// Distance returns the great-circle (haversine) distance between two
// coordinates in miles.
func Distance(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelTime estimates the travel duration between two experiences.
//
// The estimate is distance over a mode-specific average speed, not a routed
// path: duration = ceil(miles / mph * 60) minutes. It is pure and
// deterministic for identical inputs.
func TravelTime(from, to *domain.Experience, mode domain.TravelMode, cfg config.Planning) (TravelEstimate, error) {
	mph, err := cfg.Speed(mode)
	if err != nil {
		return TravelEstimate{}, fmt.Errorf("travel time: %w", err)
	}

	if from.Location == nil {
		return TravelEstimate{}, domain.NewValidationError(domain.CodeIncompleteExperienceData,
			"experience %q has no coordinates", from.ID)
	}
	if to.Location == nil {
		return TravelEstimate{}, domain.NewValidationError(domain.CodeIncompleteExperienceData,
			"experience %q has no coordinates", to.ID)
	}

	miles := Distance(*from.Location, *to.Location)
	return TravelEstimate{
		Mode:          mode,
		DistanceMiles: miles,
		Minutes:       int(math.Ceil(miles / mph * 60)),
	}, nil
}
