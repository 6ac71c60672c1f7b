package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

type ConflictType string

const (
	ConflictTimeOverlap            ConflictType = "time_overlap"
	ConflictInsufficientTravelTime ConflictType = "insufficient_travel_time"
	ConflictNoOperatingHours       ConflictType = "no_operating_hours"
	ConflictClosedDay              ConflictType = "closed_day"
	ConflictOutsideOperatingHours  ConflictType = "outside_operating_hours"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Conflict is one detected scheduling-feasibility violation.
type Conflict struct {
	Type          ConflictType
	DayIndex      int
	ExperienceIDs []string
	Severity      Severity
	Message       string
	Suggestion    string

	// Populated for insufficient_travel_time only.
	RequiredMinutes  int
	AvailableMinutes int
}

// DetectConflicts reports every scheduling conflict in the itinerary,
// ordered by day and then by discovery order within the day: the sorted
// sequence is walked once pairwise (overlap, then travel gap), then each
// entry's operating hours are checked in slot order.
//
// The itinerary is never mutated; the same input always yields the same
// report.
func DetectConflicts(it *domain.Itinerary, cfg config.Planning) []Conflict {
	conflicts := []Conflict{}

	for dayIndex, day := range it.Days {
		entries := sortedEntries(day)

		for i := 0; i+1 < len(entries); i++ {
			cur, next := entries[i], entries[i+1]

			if cur.End().After(next.TimeSlot) {
				conflicts = append(conflicts, Conflict{
					Type:          ConflictTimeOverlap,
					DayIndex:      dayIndex,
					ExperienceIDs: []string{cur.Experience.ID, next.Experience.ID},
					Severity:      SeverityHigh,
					Message: fmt.Sprintf("%q (until %s) overlaps %q (from %s)",
						cur.Experience.Name, cur.End().Format("15:04"),
						next.Experience.Name, next.TimeSlot.Format("15:04")),
					Suggestion: fmt.Sprintf("move %q to %s or later", next.Experience.Name, cur.End().Format("15:04")),
				})
				continue
			}

			// Overlapping pairs are already reported above; the travel check
			// only applies to a non-negative gap.
			estimate, err := TravelTime(cur.Experience, next.Experience, domain.ModeDriving, cfg)
			if err != nil {
				// Entries without coordinates cannot be travel-checked.
				continue
			}

			required := estimate.Minutes + int(cfg.TravelTimeBuffer/time.Minute)
			available := int(next.TimeSlot.Sub(cur.End()) / time.Minute)
			if available < required {
				conflicts = append(conflicts, Conflict{
					Type:             ConflictInsufficientTravelTime,
					DayIndex:         dayIndex,
					ExperienceIDs:    []string{cur.Experience.ID, next.Experience.ID},
					Severity:         SeverityMedium,
					RequiredMinutes:  required,
					AvailableMinutes: available,
					Message: fmt.Sprintf("%.1f mi between %q and %q needs %d min, only %d available",
						estimate.DistanceMiles, cur.Experience.Name, next.Experience.Name, required, available),
					Suggestion: fmt.Sprintf("allow %d more minutes before %q", required-available, next.Experience.Name),
				})
			}
		}

		for _, entry := range entries {
			if c := checkOperatingHours(entry, dayIndex); c != nil {
				conflicts = append(conflicts, *c)
			}
		}
	}

	return conflicts
}

// checkOperatingHours verifies an entry against its experience's hours for
// the scheduled weekday.
func checkOperatingHours(entry *domain.ItineraryExperience, dayIndex int) *Conflict {
	exp := entry.Experience
	weekday := entry.TimeSlot.Weekday()

	hours, ok := exp.OperatingHours[weekday]
	if !ok {
		return &Conflict{
			Type:          ConflictNoOperatingHours,
			DayIndex:      dayIndex,
			ExperienceIDs: []string{exp.ID},
			Severity:      SeverityHigh,
			Message:       fmt.Sprintf("%q has no operating hours for %s", exp.Name, weekday),
			Suggestion:    fmt.Sprintf("confirm %q is open on %s before visiting", exp.Name, weekday),
		}
	}

	if hours.Closed {
		return &Conflict{
			Type:          ConflictClosedDay,
			DayIndex:      dayIndex,
			ExperienceIDs: []string{exp.ID},
			Severity:      SeverityHigh,
			Message:       fmt.Sprintf("%q is closed on %s", exp.Name, weekday),
			Suggestion:    fmt.Sprintf("move %q to a day %s is open", exp.Name, exp.Name),
		}
	}

	open, err := domain.ClockMinutes(hours.Open)
	if err != nil {
		return nil
	}
	closeAt, err := domain.ClockMinutes(hours.Close)
	if err != nil {
		return nil
	}

	scheduled := entry.TimeSlot.Hour()*60 + entry.TimeSlot.Minute()
	if scheduled < open || scheduled > closeAt {
		return &Conflict{
			Type:          ConflictOutsideOperatingHours,
			DayIndex:      dayIndex,
			ExperienceIDs: []string{exp.ID},
			Severity:      SeverityHigh,
			Message: fmt.Sprintf("%q scheduled at %s, open %s-%s on %s",
				exp.Name, entry.TimeSlot.Format("15:04"), strings.TrimSpace(hours.Open), strings.TrimSpace(hours.Close), weekday),
			Suggestion: fmt.Sprintf("reschedule %q between %s and %s", exp.Name, hours.Open, hours.Close),
		}
	}

	return nil
}

// sortedEntries returns the day's entries ordered by time slot without
// touching the day itself.
func sortedEntries(day *domain.ItineraryDay) []*domain.ItineraryExperience {
	entries := make([]*domain.ItineraryExperience, len(day.Experiences))
	copy(entries, day.Experiences)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TimeSlot.Before(entries[j].TimeSlot)
	})
	return entries
}
