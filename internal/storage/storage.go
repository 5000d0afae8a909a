// Package storage provides the object storage boundary used for image
// uploads: batched writes returning a parallel result array in which each
// entry either carries the stored object's key and URL or a per-file error.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is one named blob submitted for upload
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// UploadResult is one entry of the parallel result array returned by
// UploadBatch. Exactly one of Data and Err is set.
type UploadResult struct {
	Data *ObjectInfo
	Err  error
}

// ObjectStorage defines the provider interface for stored image objects
type ObjectStorage interface {
	// UploadBatch stores the given files and returns a result array
	// parallel to the input. A failed file yields an error entry and does
	// not stop the rest of the batch.
	UploadBatch(ctx context.Context, files []File) []UploadResult

	// Open opens a stored object for reading
	Open(key string) (io.ReadCloser, error)

	// Delete removes a stored object
	Delete(key string) error
}

// localStorage implements ObjectStorage on the local filesystem
type localStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a local filesystem storage rooted at basePath.
// Public URLs are built from baseURL.
func NewLocalStorage(basePath, baseURL string) *localStorage {
	return &localStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}
}

// objectPath returns the full filesystem path for a stored object
func (s *localStorage) objectPath(key string) string {
	return filepath.Join(s.basePath, "images", key)
}

// UploadBatch stores each file under a generated uuid key. Failures are
// recorded per file; the batch always returns one result per input.
func (s *localStorage) UploadBatch(ctx context.Context, files []File) []UploadResult {
	results := make([]UploadResult, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			results[i] = UploadResult{Err: err}
			continue
		}
		info, err := s.upload(file)
		if err != nil {
			results[i] = UploadResult{Err: err}
			continue
		}
		results[i] = UploadResult{Data: info}
	}
	return results
}

func (s *localStorage) upload(file File) (*ObjectInfo, error) {
	key := GenerateObjectKey(filepath.Ext(file.Name))

	path := s.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create object file: %w", err)
	}
	defer out.Close()

	sizeWriter := NewSizeWriter()
	if _, err := io.Copy(out, io.TeeReader(file.Reader, sizeWriter)); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write object file: %w", err)
	}

	return &ObjectInfo{
		Key:  key,
		URL:  fmt.Sprintf("%s/media/images/%s", s.baseURL, key),
		Size: sizeWriter.Size(),
	}, nil
}

// Open opens a stored object for reading
func (s *localStorage) Open(key string) (io.ReadCloser, error) {
	return os.Open(s.objectPath(key))
}

// Delete removes a stored object
func (s *localStorage) Delete(key string) error {
	return os.Remove(s.objectPath(key))
}
