package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Travel modes recognized by the travel-time estimator.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeTransit TravelMode = "transit"
	ModeCycling TravelMode = "cycling"
)

// DayHours describes one weekday's opening window. Closed means the venue
// does not open that weekday at all; Open/Close are "HH:MM" clock strings.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// OperatingHours maps a weekday to its opening window. A missing key means
// no hours information exists for that weekday.
type OperatingHours map[time.Weekday]DayHours

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// MarshalJSON serializes hours keyed by lowercase weekday name, the format
// used by the experience catalog and the persisted documents.
func (h OperatingHours) MarshalJSON() ([]byte, error) {
	out := make(map[string]DayHours, len(h))
	for wd, v := range h {
		out[strings.ToLower(wd.String())] = v
	}
	return json.Marshal(out)
}

func (h *OperatingHours) UnmarshalJSON(data []byte) error {
	var raw map[string]DayHours
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(OperatingHours, len(raw))
	for name, v := range raw {
		wd, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("operating hours: unknown weekday %q", name)
		}
		out[wd] = v
	}
	*h = out
	return nil
}

// ClockMinutes parses an "HH:MM" clock string into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Experience is an externally supplied point of interest. It is read-only to
// the scheduling core: itineraries reference experiences, never own them.
type Experience struct {
	ID             string
	Name           string
	Category       string
	Location       *Coordinates
	Rating         float64
	Tags           []string
	Featured       bool
	Verified       bool
	OperatingHours OperatingHours
	AdmissionFee   *float64
}

// HasAnyTag reports whether the experience carries at least one of the given
// feature tags (case-insensitive).
func (e *Experience) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, got := range e.Tags {
			if strings.EqualFold(want, got) {
				return true
			}
		}
	}
	return false
}
