package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

func locatedExperience(id string, lat, lon float64) *domain.Experience {
	return &domain.Experience{
		ID:       id,
		Name:     id,
		Location: &domain.Coordinates{Lat: lat, Lon: lon},
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := domain.Coordinates{Lat: 37.8267, Lon: -122.4233}
	b := domain.Coordinates{Lat: 34.0522, Lon: -118.2437}

	require.Equal(t, Distance(a, b), Distance(b, a))
	require.Zero(t, Distance(a, a))
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 69.09 miles on a 3958.8 mile sphere.
	a := domain.Coordinates{Lat: 40, Lon: -100}
	b := domain.Coordinates{Lat: 41, Lon: -100}

	require.InDelta(t, 69.09, Distance(a, b), 0.05)
}

func TestTravelTimeModes(t *testing.T) {
	cfg := config.DefaultPlanning()
	from := locatedExperience("a", 40, -100)
	to := locatedExperience("b", 41, -100) // ~69.09 miles

	tests := []struct {
		mode    domain.TravelMode
		minutes int
	}{
		{domain.ModeDriving, 119}, // ceil(69.09 / 35 * 60)
		{domain.ModeWalking, 1382},
		{domain.ModeTransit, 208},
		{domain.ModeCycling, 346},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode), func(t *testing.T) {
			est, err := TravelTime(from, to, tc.mode, cfg)
			require.NoError(t, err)
			require.Equal(t, tc.mode, est.Mode)
			require.Equal(t, tc.minutes, est.Minutes)
			require.InDelta(t, 69.09, est.DistanceMiles, 0.05)
		})
	}
}

func TestTravelTimeInvalidMode(t *testing.T) {
	cfg := config.DefaultPlanning()
	from := locatedExperience("a", 40, -100)
	to := locatedExperience("b", 41, -100)

	_, err := TravelTime(from, to, "teleport", cfg)
	require.Error(t, err)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidTravelMode, ve.Code)
}

func TestTravelTimeMissingCoordinates(t *testing.T) {
	cfg := config.DefaultPlanning()
	from := &domain.Experience{ID: "nowhere"}
	to := locatedExperience("b", 41, -100)

	_, err := TravelTime(from, to, domain.ModeDriving, cfg)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeIncompleteExperienceData, ve.Code)

	_, err = TravelTime(to, from, domain.ModeDriving, cfg)
	ve, ok = domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeIncompleteExperienceData, ve.Code)
}

func TestTravelTimeZeroDistance(t *testing.T) {
	cfg := config.DefaultPlanning()
	from := locatedExperience("a", 37.8267, -122.4233)
	to := locatedExperience("b", 37.8267, -122.4233)

	est, err := TravelTime(from, to, domain.ModeDriving, cfg)
	require.NoError(t, err)
	require.Zero(t, est.Minutes)
	require.Zero(t, est.DistanceMiles)
}
