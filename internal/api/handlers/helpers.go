package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"itinerary-planner-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps core errors onto HTTP statuses: validation failures
// carry their reason code to the caller, not-found sentinels become 404,
// everything else is an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]string{
			"error": ve.Message,
			"code":  ve.Code,
		})
		return
	}

	if errors.Is(err, domain.ErrItineraryNotFound) || errors.Is(err, domain.ErrExperienceNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes a single strict JSON object request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
