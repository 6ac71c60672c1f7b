package handlers

import (
	"net/http"
	"sort"

	"itinerary-planner-service/internal/api/dto"
	"itinerary-planner-service/internal/ports"
)

// ExperienceHandler exposes the read-only experience catalog.
type ExperienceHandler struct {
	Repo ports.ExperienceRepository
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.Repo.ListExperiences(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	sort.Slice(experiences, func(i, j int) bool { return experiences[i].ID < experiences[j].ID })

	res := dto.ListExperiencesResponse{
		Experiences: make([]dto.ExperienceResponse, 0, len(experiences)),
	}
	for _, exp := range experiences {
		res.Experiences = append(res.Experiences, dto.FromExperience(exp))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Repo.GetExperience(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromExperience(exp))
}
