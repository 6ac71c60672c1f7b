package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

func openAllWeek(open, close string) domain.OperatingHours {
	hours := make(domain.OperatingHours, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		hours[wd] = domain.DayHours{Open: open, Close: close}
	}
	return hours
}

func hoursExperience(id string, lat, lon float64, hours domain.OperatingHours) *domain.Experience {
	exp := locatedExperience(id, lat, lon)
	exp.OperatingHours = hours
	return exp
}

func singleDayItinerary(t *testing.T, date string) *domain.Itinerary {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	it, err := domain.NewItinerary("it-test", "test", "", d, d, 14, time.Now().UTC())
	require.NoError(t, err)
	return it
}

func scheduleAt(t *testing.T, it *domain.Itinerary, exp *domain.Experience, clock string, duration time.Duration, cfg config.Planning) {
	t.Helper()
	day := it.Days[0]
	slot := domain.DateOnly(day.Date)
	minutes, err := domain.ClockMinutes(clock)
	require.NoError(t, err)
	slotAt := slot.Add(time.Duration(minutes) * time.Minute)
	_, err = AddExperience(day, exp, SlotRequest{Slot: &slotAt, Duration: duration}, cfg)
	require.NoError(t, err)
}

func TestDetectConflictsCleanItinerary(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-06-01")

	near := hoursExperience("a", 37.8000, -122.4000, openAllWeek("08:00", "21:00"))
	alsoNear := hoursExperience("b", 37.8010, -122.4010, openAllWeek("08:00", "21:00"))

	scheduleAt(t, it, near, "09:00", 2*time.Hour, cfg)
	scheduleAt(t, it, alsoNear, "11:30", 2*time.Hour, cfg)

	require.Empty(t, DetectConflicts(it, cfg))
}

func TestDetectConflictsTimeOverlap(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-06-01")
	day := it.Days[0]

	// Built directly: the allocator would refuse this overlap.
	a := hoursExperience("a", 37.80, -122.40, openAllWeek("08:00", "21:00"))
	b := hoursExperience("b", 37.81, -122.41, openAllWeek("08:00", "21:00"))
	base := domain.DateOnly(day.Date)
	day.Experiences = []*domain.ItineraryExperience{
		{Experience: a, TimeSlot: base.Add(9 * time.Hour), Duration: 2 * time.Hour},
		{Experience: b, TimeSlot: base.Add(10 * time.Hour), Duration: time.Hour},
	}

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 1)
	require.Equal(t, ConflictTimeOverlap, conflicts[0].Type)
	require.Equal(t, SeverityHigh, conflicts[0].Severity)
	require.Equal(t, 0, conflicts[0].DayIndex)
	require.Equal(t, []string{"a", "b"}, conflicts[0].ExperienceIDs)
}

func TestDetectConflictsInsufficientTravelTime(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-06-01")

	// ~50 miles apart (0.7237 degrees of latitude) with a 10 minute gap:
	// driving needs ceil(50/35*60)=86 minutes plus the 15 minute buffer.
	a := hoursExperience("a", 40.0000, -100.0, openAllWeek("06:00", "23:00"))
	b := hoursExperience("b", 40.7237, -100.0, openAllWeek("06:00", "23:00"))

	scheduleAt(t, it, a, "09:00", time.Hour, cfg)
	scheduleAt(t, it, b, "10:10", time.Hour, cfg)

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	require.Equal(t, ConflictInsufficientTravelTime, c.Type)
	require.Equal(t, SeverityMedium, c.Severity)
	require.Equal(t, 101, c.RequiredMinutes)
	require.Equal(t, 10, c.AvailableMinutes)
	require.Contains(t, c.Suggestion, "91 more minutes")
}

func TestDetectConflictsClosedDay(t *testing.T) {
	cfg := config.DefaultPlanning()
	// 2026-03-10 is a Tuesday.
	it := singleDayItinerary(t, "2026-03-10")

	hours := openAllWeek("09:00", "17:00")
	hours[time.Tuesday] = domain.DayHours{Closed: true}
	museum := hoursExperience("museum", 37.7857, -122.4011, hours)

	scheduleAt(t, it, museum, "10:00", 2*time.Hour, cfg)

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 1)
	require.Equal(t, ConflictClosedDay, conflicts[0].Type)
	require.Equal(t, SeverityHigh, conflicts[0].Severity)
	require.Equal(t, []string{"museum"}, conflicts[0].ExperienceIDs)
}

func TestDetectConflictsNoOperatingHours(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-03-10")

	hours := openAllWeek("09:00", "17:00")
	delete(hours, time.Tuesday)
	venue := hoursExperience("venue", 37.78, -122.40, hours)

	scheduleAt(t, it, venue, "10:00", time.Hour, cfg)

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 1)
	require.Equal(t, ConflictNoOperatingHours, conflicts[0].Type)
}

func TestDetectConflictsOutsideOperatingHours(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-06-01")

	venue := hoursExperience("venue", 37.78, -122.40, openAllWeek("10:00", "17:00"))
	scheduleAt(t, it, venue, "08:00", time.Hour, cfg)

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 1)
	require.Equal(t, ConflictOutsideOperatingHours, conflicts[0].Type)
	require.Equal(t, SeverityHigh, conflicts[0].Severity)
}

func TestDetectConflictsIsIdempotentAndReadOnly(t *testing.T) {
	cfg := config.DefaultPlanning()
	it := singleDayItinerary(t, "2026-03-10")

	hours := openAllWeek("09:00", "17:00")
	hours[time.Tuesday] = domain.DayHours{Closed: true}
	a := hoursExperience("a", 40.0000, -100.0, hours)
	b := hoursExperience("b", 40.7237, -100.0, openAllWeek("06:00", "23:00"))

	scheduleAt(t, it, a, "09:00", time.Hour, cfg)
	scheduleAt(t, it, b, "10:10", time.Hour, cfg)

	before, err := domain.MarshalItinerary(it)
	require.NoError(t, err)

	first := DetectConflicts(it, cfg)
	second := DetectConflicts(it, cfg)
	require.Equal(t, first, second)

	after, err := domain.MarshalItinerary(it)
	require.NoError(t, err)
	require.Equal(t, before, after, "detector must not mutate the itinerary")
}

func TestDetectConflictsOrderedByDayThenDiscovery(t *testing.T) {
	cfg := config.DefaultPlanning()
	d1, err := time.Parse(time.DateOnly, "2026-06-01")
	require.NoError(t, err)
	it, err := domain.NewItinerary("it-multi", "test", "", d1, d1.AddDate(0, 0, 1), 14, time.Now().UTC())
	require.NoError(t, err)

	closedHours := openAllWeek("09:00", "17:00")
	closedHours[time.Tuesday] = domain.DayHours{Closed: true}

	// Day 1 (2026-06-02 is a Tuesday): one closed-day conflict.
	tuesdayVenue := hoursExperience("tue-venue", 37.78, -122.40, closedHours)
	base := domain.DateOnly(it.Days[1].Date)
	slot := base.Add(10 * time.Hour)
	_, err = AddExperience(it.Days[1], tuesdayVenue, SlotRequest{Slot: &slot, Duration: time.Hour}, cfg)
	require.NoError(t, err)

	// Day 0: one outside-hours conflict.
	earlyVenue := hoursExperience("early-venue", 37.78, -122.40, openAllWeek("10:00", "17:00"))
	slot0 := domain.DateOnly(it.Days[0].Date).Add(8 * time.Hour)
	_, err = AddExperience(it.Days[0], earlyVenue, SlotRequest{Slot: &slot0, Duration: time.Hour}, cfg)
	require.NoError(t, err)

	conflicts := DetectConflicts(it, cfg)
	require.Len(t, conflicts, 2)
	require.Equal(t, 0, conflicts[0].DayIndex)
	require.Equal(t, ConflictOutsideOperatingHours, conflicts[0].Type)
	require.Equal(t, 1, conflicts[1].DayIndex)
	require.Equal(t, ConflictClosedDay, conflicts[1].Type)
}
