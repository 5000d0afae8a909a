package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

// ScheduleService defines the service operations the schedule handler needs
type ScheduleService interface {
	// GetAll retrieves the weekly schedule
	GetAll(ctx context.Context) ([]models.Session, error)
	// Replace validates and replaces the whole schedule
	Replace(ctx context.Context, sessions []models.Session) error
}

// ScheduleHandler handles the weekly schedule HTTP surface
type ScheduleHandler struct {
	BaseHandler
	service ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     service,
	}
}

// RegisterRoutes registers the handler's routes. The mutation route is
// wrapped with the provided middleware.
func (h *ScheduleHandler) RegisterRoutes(r chi.Router, mutationMw func(http.Handler) http.Handler) {
	r.Route("/schedule", func(r chi.Router) {
		r.Get("/", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(mutationMw)
			r.Put("/", h.Replace)
		})
	})
}

// Get handles GET /schedule
// @Summary Get the weekly schedule
// @Description Retrieve all sessions ordered by day and start time
// @Tags schedule
// @Produce json
// @Success 200 {array} models.Session
// @Failure 500 {object} map[string]string "Internal server error"
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.GetAll(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to get schedule")
		return
	}

	if sessions == nil {
		sessions = []models.Session{}
	}
	h.respondJSON(w, http.StatusOK, sessions)
}

// Replace handles PUT /schedule
// @Summary Replace the weekly schedule
// @Description Validate the submitted sessions and replace the whole schedule in one transaction
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body models.ReplaceScheduleRequest true "Schedule to store"
// @Success 204 "Replaced"
// @Failure 400 {object} map[string]string "Validation failed"
func (h *ScheduleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Replace(r.Context(), req.Sessions); err != nil {
		h.respondServiceError(w, err, "failed to replace schedule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
