package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire representation of a persisted itinerary. Dates are ISO-8601 date
// strings, timestamps RFC 3339, durations integer minutes, and experience
// entries carry a reference id rather than the experience itself.
type ItineraryDocument struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Days        []DayDocument `json:"days"`
}

type DayDocument struct {
	Date        string          `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	Experiences []EntryDocument `json:"experiences"`
}

type EntryDocument struct {
	ExperienceRef   string    `json:"experience_ref"`
	TimeSlot        time.Time `json:"time_slot"`
	DurationMinutes int       `json:"duration"`
	AddedAt         time.Time `json:"added_at"`
	Notes           string    `json:"notes,omitempty"`
	Completed       bool      `json:"completed"`
}

// ExperienceLookup resolves an experience reference id while decoding a
// document. It should return ErrExperienceNotFound for unknown ids.
type ExperienceLookup func(id string) (*Experience, error)

// Document converts the itinerary to its wire representation.
func (it *Itinerary) Document() ItineraryDocument {
	doc := ItineraryDocument{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		StartDate:   it.StartDate.Format(time.DateOnly),
		EndDate:     it.EndDate.Format(time.DateOnly),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		Days:        make([]DayDocument, 0, len(it.Days)),
	}
	for _, day := range it.Days {
		d := DayDocument{
			Date:        day.Date.Format(time.DateOnly),
			Notes:       day.Notes,
			Experiences: make([]EntryDocument, 0, len(day.Experiences)),
		}
		for _, entry := range day.Experiences {
			d.Experiences = append(d.Experiences, EntryDocument{
				ExperienceRef:   entry.Experience.ID,
				TimeSlot:        entry.TimeSlot,
				DurationMinutes: int(entry.Duration / time.Minute),
				AddedAt:         entry.AddedAt,
				Notes:           entry.Notes,
				Completed:       entry.Completed,
			})
		}
		doc.Days = append(doc.Days, d)
	}
	return doc
}

// MarshalItinerary serializes the itinerary for the key-value store.
func MarshalItinerary(it *Itinerary) ([]byte, error) {
	data, err := json.Marshal(it.Document())
	if err != nil {
		return nil, fmt.Errorf("marshal itinerary %s: %w", it.ID, err)
	}
	return data, nil
}

// UnmarshalItinerary decodes a persisted document, resolving experience
// references through lookup, and validates the day-range invariant.
func UnmarshalItinerary(data []byte, lookup ExperienceLookup) (*Itinerary, error) {
	var doc ItineraryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary: %w", err)
	}

	start, err := time.Parse(time.DateOnly, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("unmarshal itinerary %s: start date: %w", doc.ID, err)
	}
	end, err := time.Parse(time.DateOnly, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("unmarshal itinerary %s: end date: %w", doc.ID, err)
	}

	it := &Itinerary{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		StartDate:   DateOnly(start),
		EndDate:     DateOnly(end),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Days:        make([]*ItineraryDay, 0, len(doc.Days)),
	}

	for _, d := range doc.Days {
		date, err := time.Parse(time.DateOnly, d.Date)
		if err != nil {
			return nil, fmt.Errorf("unmarshal itinerary %s: day date: %w", doc.ID, err)
		}
		day := &ItineraryDay{
			Date:        DateOnly(date),
			Notes:       d.Notes,
			Experiences: make([]*ItineraryExperience, 0, len(d.Experiences)),
		}
		for _, e := range d.Experiences {
			exp, err := lookup(e.ExperienceRef)
			if err != nil {
				return nil, fmt.Errorf("unmarshal itinerary %s: resolve experience %q: %w", doc.ID, e.ExperienceRef, err)
			}
			day.Experiences = append(day.Experiences, &ItineraryExperience{
				Experience: exp,
				TimeSlot:   e.TimeSlot,
				Duration:   time.Duration(e.DurationMinutes) * time.Minute,
				AddedAt:    e.AddedAt,
				Notes:      e.Notes,
				Completed:  e.Completed,
			})
		}
		day.SortBySlot()
		it.Days = append(it.Days, day)
	}

	if err := it.Validate(); err != nil {
		return nil, fmt.Errorf("unmarshal itinerary: %w", err)
	}
	return it, nil
}
