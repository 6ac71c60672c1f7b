package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"itinerary-planner-service/internal/api/handlers"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/store"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(st *store.Store, experiences ports.ExperienceRepository, cfg config.Planning) http.Handler {
	mux := http.NewServeMux()

	validate := validator.New()

	expHandler := &handlers.ExperienceHandler{Repo: experiences}
	itinHandler := &handlers.ItineraryHandler{
		Store:       st,
		Experiences: experiences,
		Validate:    validate,
	}
	travelHandler := &handlers.TravelTimeHandler{Repo: experiences, Cfg: cfg}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("GET /experiences", expHandler.List)
	mux.HandleFunc("GET /experiences/{id}", expHandler.Get)
	mux.HandleFunc("GET /travel-time", travelHandler.Estimate)

	mux.HandleFunc("POST /itineraries", itinHandler.Create)
	mux.HandleFunc("GET /itineraries", itinHandler.List)
	mux.HandleFunc("GET /itineraries/{id}", itinHandler.Get)
	mux.HandleFunc("DELETE /itineraries/{id}", itinHandler.Delete)

	mux.HandleFunc("GET /current-itinerary", itinHandler.Current)
	mux.HandleFunc("PUT /current-itinerary/{id}", itinHandler.SetCurrent)

	mux.HandleFunc("POST /itineraries/{id}/days/{day}/experiences", itinHandler.AddExperience)
	mux.HandleFunc("DELETE /itineraries/{id}/days/{day}/experiences/{experienceID}", itinHandler.RemoveExperience)
	mux.HandleFunc("PATCH /itineraries/{id}/days/{day}/experiences/{experienceID}", itinHandler.UpdateEntry)

	mux.HandleFunc("GET /itineraries/{id}/conflicts", itinHandler.Conflicts)
	mux.HandleFunc("POST /itineraries/{id}/optimize", itinHandler.Optimize)

	return loggingMiddleware(mux)
}
