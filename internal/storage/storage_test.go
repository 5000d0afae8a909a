package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateObjectKey(t *testing.T) {
	tests := []struct {
		name           string
		extension      string
		expectedSuffix string
	}{
		{name: "extension with dot", extension: ".jpg", expectedSuffix: ".jpg"},
		{name: "extension without dot", extension: "png", expectedSuffix: ".png"},
		{name: "no extension", extension: "", expectedSuffix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateObjectKey(tt.extension)

			assert.True(t, strings.HasSuffix(key, tt.expectedSuffix))
			assert.NotEmpty(t, strings.TrimSuffix(key, tt.expectedSuffix))
		})
	}
}

func TestGenerateObjectKey_Unique(t *testing.T) {
	first := GenerateObjectKey(".jpg")
	second := GenerateObjectKey(".jpg")

	assert.NotEqual(t, first, second)
}

func TestSizeWriter(t *testing.T) {
	sw := NewSizeWriter()

	n, err := sw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = sw.Write([]byte(" world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), sw.Size())
}

func TestLocalStorage_UploadBatch(t *testing.T) {
	t.Run("stores each file and returns keys and urls", func(t *testing.T) {
		store := NewLocalStorage(t.TempDir(), "http://localhost:8080")

		files := []File{
			{Name: "hall.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("first")},
			{Name: "coach.png", ContentType: "image/png", Reader: strings.NewReader("second image")},
		}
		results := store.UploadBatch(context.Background(), files)

		require.Len(t, results, 2)
		for _, result := range results {
			require.NoError(t, result.Err)
			require.NotNil(t, result.Data)
			assert.NotEmpty(t, result.Data.Key)
			assert.Equal(t, "http://localhost:8080/media/images/"+result.Data.Key, result.Data.URL)

			raw, err := os.ReadFile(store.objectPath(result.Data.Key))
			require.NoError(t, err)
			assert.Equal(t, int64(len(raw)), result.Data.Size)
		}
		assert.True(t, strings.HasSuffix(results[0].Data.Key, ".jpg"))
		assert.True(t, strings.HasSuffix(results[1].Data.Key, ".png"))
	})

	t.Run("failed file does not stop the batch", func(t *testing.T) {
		store := NewLocalStorage(t.TempDir(), "http://localhost:8080")

		files := []File{
			{Name: "bad.jpg", Reader: &failingReader{}},
			{Name: "good.jpg", Reader: strings.NewReader("data")},
		}
		results := store.UploadBatch(context.Background(), files)

		require.Len(t, results, 2)
		assert.Error(t, results[0].Err)
		assert.Nil(t, results[0].Data)
		require.NoError(t, results[1].Err)
		assert.NotNil(t, results[1].Data)
	})

	t.Run("cancelled context fails remaining files", func(t *testing.T) {
		store := NewLocalStorage(t.TempDir(), "http://localhost:8080")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := store.UploadBatch(ctx, []File{
			{Name: "hall.jpg", Reader: strings.NewReader("data")},
		})

		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, context.Canceled)
	})
}

func TestLocalStorage_OpenAndDelete(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "http://localhost:8080")

	results := store.UploadBatch(context.Background(), []File{
		{Name: "hall.jpg", Reader: strings.NewReader("payload")},
	})
	require.NoError(t, results[0].Err)
	key := results[0].Data.Key

	reader, err := store.Open(key)
	require.NoError(t, err)
	raw, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, "payload", string(raw))

	require.NoError(t, store.Delete(key))
	_, err = store.Open(key)
	assert.Error(t, err)
}

func TestLocalStorage_ObjectPath(t *testing.T) {
	store := NewLocalStorage("/var/data", "http://localhost:8080")

	assert.Equal(t, filepath.Join("/var/data", "images", "abc.jpg"), store.objectPath("abc.jpg"))
}

// failingReader always errors
type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
