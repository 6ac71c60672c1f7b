package handlers

import (
	"net/http"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

// TravelTimeHandler exposes the straight-line travel estimator between two
// catalog experiences.
type TravelTimeHandler struct {
	Repo ports.ExperienceRepository
	Cfg  config.Planning
}

func (h *TravelTimeHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromID, toID := q.Get("from"), q.Get("to")
	if fromID == "" || toID == "" {
		writeError(w, r, http.StatusBadRequest, "from and to experience ids are required")
		return
	}

	mode := domain.TravelMode(q.Get("mode"))
	if mode == "" {
		mode = domain.ModeDriving
	}

	from, err := h.Repo.GetExperience(r.Context(), fromID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	to, err := h.Repo.GetExperience(r.Context(), toID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	estimate, err := services.TravelTime(from, to, mode, h.Cfg)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TravelTimeResponse{
		Mode:          string(estimate.Mode),
		DistanceMiles: estimate.DistanceMiles,
		Minutes:       estimate.Minutes,
	})
}
