package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sportclub/backend/internal/models"
	"github.com/sportclub/backend/internal/services"
	"github.com/sportclub/backend/internal/storage"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 * 1024 * 1024 // 32MB

// ContentService defines the service operations the content handler needs
type ContentService interface {
	// List retrieves parent entities, paginated
	List(ctx context.Context, page, count int) ([]models.ContentListItem, error)
	// GetFull retrieves the full read DTO for an entity
	GetFull(ctx context.Context, id int) (*models.ContentFull, error)
	// GetDocument retrieves an entity reassembled into an editable document
	GetDocument(ctx context.Context, id int) (*models.ContentDocument, error)
	// Create persists a new entity from a content document and its files
	Create(ctx context.Context, authorID int, doc models.ContentDocument, files []storage.File) (*services.SaveResult, error)
	// Update replaces an existing entity's content
	Update(ctx context.Context, id, authorID int, doc models.ContentDocument, files []storage.File) (*services.SaveResult, error)
	// Delete deletes an entity
	Delete(ctx context.Context, id int) error
}

// ContentHandler handles the HTTP surface of one content entity kind
// (blogs or coaches)
type ContentHandler struct {
	BaseHandler
	service ContentService
	kind    string
}

// NewContentHandler creates a content handler for one entity kind
func NewContentHandler(service ContentService, kind string, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     service,
		kind:        kind,
	}
}

// RegisterRoutes registers the handler's routes under the given base path.
// Mutation routes are wrapped with the provided middleware.
func (h *ContentHandler) RegisterRoutes(r chi.Router, basePath string, mutationMw func(http.Handler) http.Handler) {
	r.Route("/"+basePath, func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/document", h.GetDocument)

		r.Group(func(r chi.Router) {
			r.Use(mutationMw)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /{kind}
// @Summary List content entities
// @Description Retrieve entities ordered by last update, paginated
// @Tags content
// @Produce json
// @Param page query int false "Page number"
// @Param count query int false "Items per page"
// @Success 200 {array} models.ContentListItem
// @Failure 500 {object} map[string]string "Internal server error"
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	items, err := h.service.List(r.Context(), page, count)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to list %ss", h.kind))
		return
	}

	if items == nil {
		items = []models.ContentListItem{}
	}
	h.respondJSON(w, http.StatusOK, items)
}

// Get handles GET /{kind}/{id}
// @Summary Get a content entity
// @Description Retrieve the full entity with author and child rows sorted by position
// @Tags content
// @Produce json
// @Param id path int true "Entity ID"
// @Success 200 {object} models.ContentFull
// @Failure 404 {object} map[string]string "Entity not found"
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	full, err := h.service.GetFull(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to get %s", h.kind))
		return
	}

	h.respondJSON(w, http.StatusOK, full)
}

// GetDocument handles GET /{kind}/{id}/document
// @Summary Get a content entity as an editable document
// @Description Retrieve the entity's blocks merged by position with the synthetic title heading at position 0
// @Tags content
// @Produce json
// @Param id path int true "Entity ID"
// @Success 200 {object} models.ContentDocument
// @Failure 404 {object} map[string]string "Entity not found"
func (h *ContentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to get %s document", h.kind))
		return
	}

	h.respondJSON(w, http.StatusOK, doc)
}

// Create handles POST /{kind}
// @Summary Create a content entity
// @Description Create an entity from a multipart form carrying the JSON elements array and indexed file fields (file_0, file_1, ...)
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param authorId formData int true "Author ID"
// @Param elements formData string true "JSON-encoded content document"
// @Success 201 {object} map[string]int "Created entity ID"
// @Success 207 {object} services.SaveResult "Created with partial upload failures"
// @Failure 400 {object} map[string]string "Validation failed"
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, doc, files, cleanup, ok := h.parseSaveRequest(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.service.Create(r.Context(), authorID, doc, files)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to create %s", h.kind))
		return
	}

	h.respondSaveResult(w, result, http.StatusCreated)
}

// Update handles PUT /{kind}/{id}
// @Summary Update a content entity
// @Description Replace the entity's content with the submitted document; existing child rows are deleted and re-inserted atomically
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Entity ID"
// @Param authorId formData int true "Author ID"
// @Param elements formData string true "JSON-encoded content document"
// @Success 200 {object} map[string]int "Updated entity ID"
// @Success 207 {object} services.SaveResult "Updated with partial upload failures"
// @Failure 404 {object} map[string]string "Entity not found"
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	authorID, doc, files, cleanup, ok := h.parseSaveRequest(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.service.Update(r.Context(), id, authorID, doc, files)
	if err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to update %s", h.kind))
		return
	}

	h.respondSaveResult(w, result, http.StatusOK)
}

// Delete handles DELETE /{kind}/{id}
// @Summary Delete a content entity
// @Description Delete the entity; child rows cascade
// @Tags content
// @Produce json
// @Param id path int true "Entity ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Entity not found"
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, fmt.Sprintf("failed to delete %s", h.kind))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseSaveRequest parses the multipart save form: the author, the
// JSON-encoded elements array and the indexed file fields (file_0, file_1,
// ...). The returned cleanup closes every opened file.
func (h *ContentHandler) parseSaveRequest(w http.ResponseWriter, r *http.Request) (int, models.ContentDocument, []storage.File, func(), bool) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return 0, models.ContentDocument{}, nil, noop, false
	}

	authorID, err := strconv.Atoi(r.FormValue("authorId"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid authorId")
		return 0, models.ContentDocument{}, nil, noop, false
	}

	var doc models.ContentDocument
	if err := json.Unmarshal([]byte(r.FormValue("elements")), &doc); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid elements payload")
		return 0, models.ContentDocument{}, nil, noop, false
	}

	var files []storage.File
	var closers []func() error
	cleanup := func() {
		for _, close := range closers {
			close()
		}
	}

	for i := 0; ; i++ {
		headers := r.MultipartForm.File[fmt.Sprintf("file_%d", i)]
		if len(headers) == 0 {
			break
		}

		file, err := headers[0].Open()
		if err != nil {
			cleanup()
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read file_%d", i))
			return 0, models.ContentDocument{}, nil, noop, false
		}
		closers = append(closers, file.Close)

		files = append(files, storage.File{
			Name:        headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Reader:      file,
		})
	}

	return authorID, doc, files, cleanup, true
}

// respondSaveResult writes the save outcome: the plain status with the
// entity ID when every file made it, or a 207 carrying the full per-file
// breakdown on partial upload failure
func (h *ContentHandler) respondSaveResult(w http.ResponseWriter, result *services.SaveResult, successStatus int) {
	if len(result.Failures) > 0 {
		h.respondJSON(w, http.StatusMultiStatus, map[string]any{
			"id":             result.Entity.ID,
			"successes":      result.Successes,
			"failures":       result.Failures,
			"totalUploaded":  result.TotalUploaded,
			"totalProcessed": result.TotalProcessed,
		})
		return
	}

	h.respondJSON(w, successStatus, map[string]int{"id": result.Entity.ID})
}
