package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

func testDay(t *testing.T, date string) *domain.ItineraryDay {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	return &domain.ItineraryDay{Date: d}
}

func slotAt(t *testing.T, value string) *time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	ts = ts.UTC()
	return &ts
}

func TestAddExperienceEmptyDayDefaultsToDayStart(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	entry, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{}, cfg)
	require.NoError(t, err)

	want := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	require.Equal(t, want, entry.TimeSlot)
	require.Equal(t, 120*time.Minute, entry.Duration)
	require.Len(t, day.Experiences, 1)
}

func TestAddExperienceNextFreeSlotAfterLatestEnd(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	// E1 occupies 09:00-11:00; the next computed slot is 11:30.
	_, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{}, cfg)
	require.NoError(t, err)

	entry, err := AddExperience(day, locatedExperience("e2", 37.9, -122.5), SlotRequest{}, cfg)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 6, 1, 11, 30, 0, 0, time.UTC), entry.TimeSlot)
}

func TestAddExperienceRejectsOverlappingRequest(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	_, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{}, cfg)
	require.NoError(t, err)

	// 10:00-11:00 collides with E1's 09:00-11:00.
	_, err = AddExperience(day, locatedExperience("e2", 37.9, -122.5), SlotRequest{
		Slot:     slotAt(t, "2026-06-01 10:00"),
		Duration: 60 * time.Minute,
	}, cfg)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeTimeSlotConflict, ve.Code)
	require.Len(t, day.Experiences, 1, "rejected add must not mutate the day")
}

func TestAddExperienceAdjacentSlotsDoNotOverlap(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	_, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{}, cfg)
	require.NoError(t, err)

	// [09:00,11:00) and [11:00,12:00) share only the boundary instant.
	_, err = AddExperience(day, locatedExperience("e2", 37.9, -122.5), SlotRequest{
		Slot:     slotAt(t, "2026-06-01 11:00"),
		Duration: 60 * time.Minute,
	}, cfg)
	require.NoError(t, err)
}

func TestAddExperienceRejectsDuplicate(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")
	exp := locatedExperience("e1", 37.8, -122.4)

	_, err := AddExperience(day, exp, SlotRequest{}, cfg)
	require.NoError(t, err)

	_, err = AddExperience(day, exp, SlotRequest{}, cfg)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeDuplicateExperience, ve.Code)
	require.Len(t, day.Experiences, 1)
}

func TestAddExperienceRejectsBeyondCapacity(t *testing.T) {
	cfg := config.DefaultPlanning()
	cfg.MaxExperiencesPerDay = 8
	day := testDay(t, "2026-06-01")

	for i := 0; i < 8; i++ {
		_, err := AddExperience(day, locatedExperience(string(rune('a'+i)), 37.8, -122.4), SlotRequest{
			Duration: 30 * time.Minute,
		}, cfg)
		require.NoError(t, err)
	}

	_, err := AddExperience(day, locatedExperience("ninth", 37.8, -122.4), SlotRequest{}, cfg)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeDayCapacityExceeded, ve.Code)
	require.Len(t, day.Experiences, 8, "rejected add must leave the day unchanged")
}

func TestAddExperienceRejectsSlotOffDate(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	_, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{
		Slot: slotAt(t, "2026-06-02 09:00"),
	}, cfg)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidTimeSlot, ve.Code)
}

func TestAddExperienceKeepsDaySortedBySlot(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	_, err := AddExperience(day, locatedExperience("late", 37.8, -122.4), SlotRequest{
		Slot: slotAt(t, "2026-06-01 15:00"),
	}, cfg)
	require.NoError(t, err)

	_, err = AddExperience(day, locatedExperience("early", 37.9, -122.5), SlotRequest{
		Slot: slotAt(t, "2026-06-01 09:00"),
	}, cfg)
	require.NoError(t, err)

	require.Equal(t, "early", day.Experiences[0].Experience.ID)
	require.Equal(t, "late", day.Experiences[1].Experience.ID)
}

func TestRemoveExperience(t *testing.T) {
	cfg := config.DefaultPlanning()
	day := testDay(t, "2026-06-01")

	_, err := AddExperience(day, locatedExperience("e1", 37.8, -122.4), SlotRequest{}, cfg)
	require.NoError(t, err)
	e2, err := AddExperience(day, locatedExperience("e2", 37.9, -122.5), SlotRequest{}, cfg)
	require.NoError(t, err)

	require.True(t, RemoveExperience(day, "e1"))
	require.Len(t, day.Experiences, 1)
	require.Equal(t, e2.TimeSlot, day.Experiences[0].TimeSlot, "remaining entries keep their slots")

	require.False(t, RemoveExperience(day, "e1"), "second removal reports nothing removed")
}
