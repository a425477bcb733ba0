package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"p9e.in/civicgrid/pkg/workflow"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

// writeWorkflowError maps the core error taxonomy to HTTP status codes:
// validation → 400, not found → 404, conflict → 409, everything else 500.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case workflow.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, workflow.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, workflow.ErrConflict):
		http.Error(w, "modified concurrently, retry with fresh state", http.StatusConflict)
	default:
		log.Printf("⚠️  Internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
