package domain

import (
	"errors"
	"fmt"
)

var (
	ErrItineraryNotFound  = errors.New("itinerary not found")
	ErrExperienceNotFound = errors.New("experience not found")
)

// Machine-readable reason codes for ValidationError.
const (
	CodeDuplicateExperience      = "duplicate_experience"
	CodeDayCapacityExceeded      = "day_capacity_exceeded"
	CodeTimeSlotConflict         = "time_slot_conflict"
	CodeInvalidTimeSlot          = "invalid_time_slot"
	CodeInvalidDayIndex          = "invalid_day_index"
	CodeInvalidDateRange         = "invalid_date_range"
	CodeInvalidTravelMode        = "invalid_travel_mode"
	CodeIncompleteExperienceData = "incomplete_experience_data"
)

// ValidationError is a recoverable, caller-facing rejection of an operation.
// The scheduling core never mutates state before returning one.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsValidation unwraps err to a ValidationError, if it carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
