package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint. Method dispatch is
// handled by the router's method patterns.
func Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}
