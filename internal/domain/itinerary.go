package domain

import (
	"fmt"
	"sort"
	"time"
)

// Itinerary is a planned multi-day visit schedule. Days are created eagerly,
// one per calendar date in the inclusive range, and the range is immutable
// after construction.
type Itinerary struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Days        []*ItineraryDay
}

// ItineraryDay holds one calendar date's entries, kept sorted by time slot.
type ItineraryDay struct {
	Date        time.Time
	Notes       string
	Experiences []*ItineraryExperience
}

// ItineraryExperience is the day's booking wrapper around a referenced
// Experience. The itinerary owns the wrapper, never the Experience.
type ItineraryExperience struct {
	Experience *Experience
	TimeSlot   time.Time
	Duration   time.Duration
	AddedAt    time.Time
	Notes      string
	Completed  bool
}

// End returns the exclusive end of the entry's [TimeSlot, TimeSlot+Duration) interval.
func (e *ItineraryExperience) End() time.Time {
	return e.TimeSlot.Add(e.Duration)
}

// DurationInDays counts calendar dates in the inclusive range start..end.
func DurationInDays(start, end time.Time) int {
	start = DateOnly(start)
	end = DateOnly(end)
	return int(end.Sub(start).Hours()/24) + 1
}

// DateOnly truncates t to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewItinerary builds an itinerary with one eagerly created day per calendar
// date. maxDays caps the inclusive range length.
func NewItinerary(id, name, description string, start, end time.Time, maxDays int, now time.Time) (*Itinerary, error) {
	start = DateOnly(start)
	end = DateOnly(end)

	if end.Before(start) {
		return nil, NewValidationError(CodeInvalidDateRange,
			"end date %s is before start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	n := DurationInDays(start, end)
	if n > maxDays {
		return nil, NewValidationError(CodeInvalidDateRange,
			"itinerary spans %d days, maximum is %d", n, maxDays)
	}

	days := make([]*ItineraryDay, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, &ItineraryDay{Date: start.AddDate(0, 0, i)})
	}

	return &Itinerary{
		ID:          id,
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
		Days:        days,
	}, nil
}

// Day returns the day at index, rejecting out-of-range indexes.
func (it *Itinerary) Day(index int) (*ItineraryDay, error) {
	if index < 0 || index >= len(it.Days) {
		return nil, NewValidationError(CodeInvalidDayIndex,
			"day index %d out of range [0,%d)", index, len(it.Days))
	}
	return it.Days[index], nil
}

// Validate checks the structural invariants that must hold for every stored
// itinerary. A failure here is a programming error, not caller input.
func (it *Itinerary) Validate() error {
	if got, want := len(it.Days), DurationInDays(it.StartDate, it.EndDate); got != want {
		return fmt.Errorf("itinerary %s: has %d days, date range requires %d", it.ID, got, want)
	}
	for i, day := range it.Days {
		if want := DateOnly(it.StartDate).AddDate(0, 0, i); !DateOnly(day.Date).Equal(want) {
			return fmt.Errorf("itinerary %s: day %d dated %s, want %s",
				it.ID, i, day.Date.Format(time.DateOnly), want.Format(time.DateOnly))
		}
	}
	return nil
}

// Clone returns a deep copy of the itinerary. Experience pointers are shared:
// experiences are read-only reference data.
func (it *Itinerary) Clone() *Itinerary {
	out := *it
	out.Days = make([]*ItineraryDay, 0, len(it.Days))
	for _, day := range it.Days {
		d := &ItineraryDay{Date: day.Date, Notes: day.Notes}
		d.Experiences = make([]*ItineraryExperience, 0, len(day.Experiences))
		for _, entry := range day.Experiences {
			e := *entry
			d.Experiences = append(d.Experiences, &e)
		}
		out.Days = append(out.Days, d)
	}
	return &out
}

// Contains reports whether the day already references the experience id.
func (d *ItineraryDay) Contains(experienceID string) bool {
	for _, entry := range d.Experiences {
		if entry.Experience.ID == experienceID {
			return true
		}
	}
	return false
}

// LatestEnd returns the latest interval end among the day's entries.
func (d *ItineraryDay) LatestEnd() (time.Time, bool) {
	if len(d.Experiences) == 0 {
		return time.Time{}, false
	}
	latest := d.Experiences[0].End()
	for _, entry := range d.Experiences[1:] {
		if end := entry.End(); end.After(latest) {
			latest = end
		}
	}
	return latest, true
}

// SortBySlot re-establishes the time-slot ordering invariant. The sort is
// stable so equal slots keep insertion order.
func (d *ItineraryDay) SortBySlot() {
	sort.SliceStable(d.Experiences, func(i, j int) bool {
		return d.Experiences[i].TimeSlot.Before(d.Experiences[j].TimeSlot)
	})
}
