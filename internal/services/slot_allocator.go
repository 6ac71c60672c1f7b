package services

import (
	"time"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
)

// SlotRequest carries the optional caller inputs when adding an experience
// to a day. A nil Slot asks for the next free slot; a zero Duration takes
// the configured default.
type SlotRequest struct {
	Slot     *time.Time
	Duration time.Duration
	Notes    string
	AddedAt  time.Time
}

// NextFreeSlot computes where the day's next entry would start: the day
// start for an empty day, otherwise the latest interval end plus the
// inter-visit buffer.
func NextFreeSlot(day *domain.ItineraryDay, cfg config.Planning) time.Time {
	latest, ok := day.LatestEnd()
	if !ok {
		return domain.DateOnly(day.Date).Add(cfg.DayStart)
	}
	return latest.Add(cfg.MinTimeBetweenExperiences)
}

// AddExperience books exp into day at the requested or next free slot.
//
// The day is left untouched on any rejection: duplicate experience, day at
// capacity, a requested slot off the day's date, or an interval overlap.
// Overlap is checked even for computed slots; a failure there would mean the
// ordering invariant was already broken. On success the new entry is
// appended and the day re-sorted by time slot (stable, so ties keep
// insertion order).
func AddExperience(day *domain.ItineraryDay, exp *domain.Experience, req SlotRequest, cfg config.Planning) (*domain.ItineraryExperience, error) {
	if day.Contains(exp.ID) {
		return nil, domain.NewValidationError(domain.CodeDuplicateExperience,
			"experience %q is already scheduled on %s", exp.ID, day.Date.Format(time.DateOnly))
	}

	if len(day.Experiences) >= cfg.MaxExperiencesPerDay {
		return nil, domain.NewValidationError(domain.CodeDayCapacityExceeded,
			"day %s already holds %d experiences", day.Date.Format(time.DateOnly), cfg.MaxExperiencesPerDay)
	}

	duration := req.Duration
	if duration <= 0 {
		duration = cfg.DefaultExperienceDuration
	}

	var slot time.Time
	if req.Slot != nil {
		slot = *req.Slot
		if !domain.DateOnly(slot).Equal(domain.DateOnly(day.Date)) {
			return nil, domain.NewValidationError(domain.CodeInvalidTimeSlot,
				"requested slot %s is not on day %s", slot.Format(time.RFC3339), day.Date.Format(time.DateOnly))
		}
	} else {
		slot = NextFreeSlot(day, cfg)
	}

	if clash := firstOverlap(day, slot, duration); clash != nil {
		return nil, domain.NewValidationError(domain.CodeTimeSlotConflict,
			"slot %s-%s overlaps %q (%s-%s)",
			slot.Format("15:04"), slot.Add(duration).Format("15:04"),
			clash.Experience.ID,
			clash.TimeSlot.Format("15:04"), clash.End().Format("15:04"))
	}

	addedAt := req.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	entry := &domain.ItineraryExperience{
		Experience: exp,
		TimeSlot:   slot,
		Duration:   duration,
		AddedAt:    addedAt,
		Notes:      req.Notes,
	}
	day.Experiences = append(day.Experiences, entry)
	day.SortBySlot()

	return entry, nil
}

// RemoveExperience drops the entry referencing experienceID from the day.
// Other entries keep their time slots. Returns whether a removal occurred.
func RemoveExperience(day *domain.ItineraryDay, experienceID string) bool {
	for i, entry := range day.Experiences {
		if entry.Experience.ID == experienceID {
			day.Experiences = append(day.Experiences[:i], day.Experiences[i+1:]...)
			return true
		}
	}
	return false
}

// firstOverlap returns the first existing entry whose interval intersects
// [start, start+duration), or nil.
func firstOverlap(day *domain.ItineraryDay, start time.Time, duration time.Duration) *domain.ItineraryExperience {
	end := start.Add(duration)
	for _, entry := range day.Experiences {
		if start.Before(entry.End()) && entry.TimeSlot.Before(end) {
			return entry
		}
	}
	return nil
}
