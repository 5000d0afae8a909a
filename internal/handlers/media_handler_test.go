package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sportclub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockObjectReader is a mock implementation of ObjectReader
type mockObjectReader struct {
	objects map[string]string
}

func (m *mockObjectReader) Open(key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

// mockImageFinder is a mock implementation of ImageFinder
type mockImageFinder struct {
	image *models.Image
	err   error
}

func (m *mockImageFinder) GetByID(ctx context.Context, id int) (*models.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.image == nil || m.image.ID != id {
		return nil, fmt.Errorf("image not found")
	}
	return m.image, nil
}

func setupMediaRouter(objects *mockObjectReader, images *mockImageFinder) chi.Router {
	logger, _ := zap.NewDevelopment()
	handler := NewMediaHandler(objects, images, logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	handler.RegisterAPIRoutes(r)
	return r
}

func TestMediaHandler_Download(t *testing.T) {
	t.Run("streams the stored object", func(t *testing.T) {
		r := setupMediaRouter(&mockObjectReader{objects: map[string]string{
			"abc.jpg": "image bytes",
		}}, &mockImageFinder{})

		req := httptest.NewRequest(http.MethodGet, "/media/images/abc.jpg", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image bytes", rec.Body.String())
	})

	t.Run("unknown key", func(t *testing.T) {
		r := setupMediaRouter(&mockObjectReader{}, &mockImageFinder{})

		req := httptest.NewRequest(http.MethodGet, "/media/images/missing.jpg", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("key containing a path separator", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		handler := NewMediaHandler(&mockObjectReader{}, &mockImageFinder{}, logger)

		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("key", "../secret")
		req := httptest.NewRequest(http.MethodGet, "/media/images/x", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		handler.Download(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMediaHandler_GetImage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := setupMediaRouter(&mockObjectReader{}, &mockImageFinder{image: &models.Image{
			ID:  7,
			Key: "abc.jpg",
			URL: "http://localhost:8080/media/images/abc.jpg",
			Alt: "training hall",
		}})

		req := httptest.NewRequest(http.MethodGet, "/images/7", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "training hall")
	})

	t.Run("invalid id", func(t *testing.T) {
		r := setupMediaRouter(&mockObjectReader{}, &mockImageFinder{})

		req := httptest.NewRequest(http.MethodGet, "/images/abc", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		r := setupMediaRouter(&mockObjectReader{}, &mockImageFinder{})

		req := httptest.NewRequest(http.MethodGet, "/images/99", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
