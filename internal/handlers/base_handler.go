package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to an HTTP response: batched
// validation messages become a 400, a missing entity a 404, anything else a
// generic 500 without the underlying message
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		h.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "validation failed",
			"messages": validationErr.Messages,
		})
		return
	}

	if strings.Contains(err.Error(), "not found") {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Error(fallback, zap.Error(err))
	h.respondError(w, http.StatusInternalServerError, fallback)
}
