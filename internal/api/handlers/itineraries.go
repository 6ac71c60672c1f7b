package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"itinerary-planner-service/internal/store"
)

// ItineraryHandler exposes the itinerary planning operations. All scheduling
// semantics live in the store and services; handlers only translate HTTP.
type ItineraryHandler struct {
	Store       *store.Store
	Experiences ports.ExperienceRepository
	Validate    *validator.Validate
}

func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItineraryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	it, err := h.Store.Create(r.Context(), req.Name, req.Description, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, it.Document())
}

func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	its := h.Store.List(r.Context())

	res := dto.ListItinerariesResponse{
		Itineraries: make([]dto.ItineraryResponse, 0, len(its)),
	}
	for _, it := range its {
		res.Itineraries = append(res.Itineraries, it.Document())
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, it.Document())
}

func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItineraryHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.SetCurrent(r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItineraryHandler) Current(w http.ResponseWriter, r *http.Request) {
	it, ok := h.Store.Current()
	if !ok {
		writeError(w, r, http.StatusNotFound, "no current itinerary")
		return
	}
	writeJSON(w, r, http.StatusOK, it.Document())
}

// AddExperience books a catalog experience onto one day.
func (h *ItineraryHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	dayIndex, ok := h.dayIndex(w, r)
	if !ok {
		return
	}

	var req dto.AddExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := h.Experiences.GetExperience(r.Context(), req.ExperienceID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	slotReq := services.SlotRequest{
		Slot:     req.TimeSlot,
		Duration: time.Duration(req.DurationMinutes) * time.Minute,
		Notes:    req.Notes,
	}

	it, err := h.Store.AddExperience(r.Context(), r.PathValue("id"), dayIndex, exp, slotReq)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, it.Document())
}

func (h *ItineraryHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	dayIndex, ok := h.dayIndex(w, r)
	if !ok {
		return
	}

	it, removed, err := h.Store.RemoveExperience(r.Context(), r.PathValue("id"), dayIndex, r.PathValue("experienceID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !removed {
		writeError(w, r, http.StatusNotFound, "experience not scheduled on this day")
		return
	}

	writeJSON(w, r, http.StatusOK, it.Document())
}

func (h *ItineraryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	dayIndex, ok := h.dayIndex(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.Store.UpdateEntry(r.Context(), r.PathValue("id"), dayIndex, r.PathValue("experienceID"), req.Notes, req.Completed)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, it.Document())
}

// Conflicts returns the read-only feasibility report.
func (h *ItineraryHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.Store.Conflicts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListConflictsResponse{
		Conflicts: make([]dto.ConflictResponse, 0, len(conflicts)),
	}
	for _, c := range conflicts {
		res.Conflicts = append(res.Conflicts, dto.ConflictResponse{
			Type:             string(c.Type),
			DayIndex:         c.DayIndex,
			ExperienceIDs:    c.ExperienceIDs,
			Severity:         string(c.Severity),
			Message:          c.Message,
			Suggestion:       c.Suggestion,
			RequiredMinutes:  c.RequiredMinutes,
			AvailableMinutes: c.AvailableMinutes,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Optimize rewrites the schedule; `?dry_run=true` previews without committing.
func (h *ItineraryHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.Validate.Struct(req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	opts := services.OptimizeOptions{PreferredTypes: req.PreferredTypes}
	if req.Weights != nil {
		opts.Weights = &config.OptimizerWeights{
			PrioritizeDistance:    req.Weights.PrioritizeDistance,
			PrioritizeTime:        req.Weights.PrioritizeTime,
			PrioritizeRating:      req.Weights.PrioritizeRating,
			PrioritizePreferences: req.Weights.PrioritizePreferences,
		}
	}

	apply := r.URL.Query().Get("dry_run") != "true"

	it, err := h.Store.Optimize(r.Context(), r.PathValue("id"), opts, apply)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, it.Document())
}

func (h *ItineraryHandler) dayIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	dayIndex, err := strconv.Atoi(r.PathValue("day"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "day must be an integer index")
		return 0, false
	}
	return dayIndex, true
}
