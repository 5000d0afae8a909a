package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

// ObjectReader defines the storage read access the media handler needs
type ObjectReader interface {
	// Open opens a stored object for reading
	Open(key string) (io.ReadCloser, error)
}

// ImageFinder defines the image metadata access the media handler needs
type ImageFinder interface {
	// GetByID retrieves an image by its ID
	GetByID(ctx context.Context, id int) (*models.Image, error)
}

// MediaHandler serves stored image objects and their metadata
type MediaHandler struct {
	BaseHandler
	objects ObjectReader
	images  ImageFinder
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(objects ObjectReader, images ImageFinder, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{logger: logger},
		objects:     objects,
		images:      images,
	}
}

// RegisterRoutes registers the handler's routes
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/media/images/{key}", h.Download)
}

// RegisterAPIRoutes registers the handler's versioned API routes
func (h *MediaHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/images/{id}", h.GetImage)
}

// Download handles GET /media/images/{key}
// @Summary Download a stored image
// @Tags media
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Image not found"
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	// object keys are uuid-based file names, never paths
	if strings.ContainsAny(key, "/\\") {
		h.respondError(w, http.StatusBadRequest, "invalid object key")
		return
	}

	object, err := h.objects.Open(key)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "image not found")
		return
	}
	defer object.Close()

	if _, err := io.Copy(w, object); err != nil {
		h.logger.Error("failed to stream image", zap.String("key", key), zap.Error(err))
	}
}

// GetImage handles GET /api/v1/images/{id}
// @Summary Get image metadata by ID
// @Tags media
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} models.Image
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Image not found"
func (h *MediaHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	image, err := h.images.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "failed to get image")
		return
	}

	h.respondJSON(w, http.StatusOK, image)
}
