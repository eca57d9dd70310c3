// Package api provides HTTP handlers for the CalmaLink API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gigicalma/calmalink/internal/catalog"
	"github.com/gigicalma/calmalink/internal/responder"
	"github.com/gigicalma/calmalink/internal/store"
)

// maxRequestBodySize caps chat request bodies (1MB).
const maxRequestBodySize = 1 << 20

// Handler provides the chat and catalog endpoints.
type Handler struct {
	responder responder.Responder
	catalog   *catalog.Catalog
	// repo is nil when transcript logging is disabled.
	repo store.Repository
}

// NewHandler creates a new Handler. repo may be nil.
func NewHandler(rsp responder.Responder, cat *catalog.Catalog, repo store.Repository) *Handler {
	return &Handler{
		responder: rsp,
		catalog:   cat,
		repo:      repo,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// MethodNotAllowed is the router-wide 405 handler: an explicit response
// with an Allow hint, never a generic 200.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, POST, OPTIONS")
	Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
