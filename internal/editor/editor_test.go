package editor

import (
	"strings"
	"testing"

	"github.com/sportclub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// buildEditor creates an editor with a title plus one block of each kind,
// all with valid content
func buildEditor(t *testing.T) *Editor {
	t.Helper()

	e := New()
	title := e.Document().Elements[0]
	require.NoError(t, e.UpdateElement(title.BlockID(), Patch{Text: strPtr("Summer Training Camp")}))

	heading, err := e.AddElement(models.BlockTypeHeading)
	require.NoError(t, err)
	require.NoError(t, e.UpdateElement(heading.BlockID(), Patch{Text: strPtr("Week One")}))

	paragraph, err := e.AddElement(models.BlockTypeParagraph)
	require.NoError(t, err)
	require.NoError(t, e.UpdateElement(paragraph.BlockID(), Patch{Text: strPtr("Morning runs along the river.")}))

	image, err := e.AddElement(models.BlockTypeImage)
	require.NoError(t, err)
	require.NoError(t, e.UpdateElement(image.BlockID(), Patch{URL: strPtr("https://cdn.example.com/camp.jpg"), Alt: strPtr("runners at dawn")}))

	return e
}

// assertContiguous checks that positions match array order
func assertContiguous(t *testing.T, e *Editor) {
	t.Helper()
	for i, element := range e.Document().Elements {
		assert.Equal(t, i, element.Pos(), "element %d out of order", i)
	}
}

func TestNew(t *testing.T) {
	e := New()

	assert.Equal(t, 1, e.Len())
	title, ok := e.Document().Elements[0].(*models.Heading)
	require.True(t, ok)
	assert.Equal(t, 0, title.Position)
	assert.Empty(t, title.Text)
	assert.NotEmpty(t, title.ID)
}

func TestLoad(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := buildEditor(t).Document()

		e, err := Load(doc)

		require.NoError(t, err)
		assert.Equal(t, 4, e.Len())
	})

	t.Run("document without title heading", func(t *testing.T) {
		doc := models.ContentDocument{Elements: []models.Block{
			&models.Paragraph{ID: "p1", Type: models.BlockTypeParagraph, Text: "text", Position: 0},
		}}

		_, err := Load(doc)

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Load(models.ContentDocument{})

		assert.Error(t, err)
	})
}

func TestEditor_AddElement(t *testing.T) {
	tests := []struct {
		name          string
		kind          models.BlockType
		expectedError bool
	}{
		{name: "heading", kind: models.BlockTypeHeading},
		{name: "paragraph", kind: models.BlockTypeParagraph},
		{name: "image", kind: models.BlockTypeImage},
		{name: "unknown kind", kind: "video", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()

			block, err := e.AddElement(tt.kind)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Equal(t, 1, e.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, e.Len())
			assert.Equal(t, 1, block.Pos())
			assert.Equal(t, tt.kind, block.Kind())
			assertContiguous(t, e)
		})
	}
}

func TestEditor_AddElement_ImageStartsEmpty(t *testing.T) {
	e := New()

	block, err := e.AddElement(models.BlockTypeImage)

	require.NoError(t, err)
	image, ok := block.(*models.ImageBlock)
	require.True(t, ok)
	assert.Equal(t, models.UploadStateEmpty, image.State)
	assert.Nil(t, image.FileIndex)
}

func TestEditor_UpdateElement(t *testing.T) {
	t.Run("heading text", func(t *testing.T) {
		e := New()
		block, _ := e.AddElement(models.BlockTypeHeading)

		err := e.UpdateElement(block.BlockID(), Patch{Text: strPtr("Schedule")})

		require.NoError(t, err)
		heading := e.Document().Elements[1].(*models.Heading)
		assert.Equal(t, "Schedule", heading.Text)
		assert.Equal(t, 1, heading.Position)
	})

	t.Run("image url marks uploaded", func(t *testing.T) {
		e := New()
		block, _ := e.AddElement(models.BlockTypeImage)

		err := e.UpdateElement(block.BlockID(), Patch{URL: strPtr("https://cdn.example.com/a.jpg")})

		require.NoError(t, err)
		image := e.Document().Elements[1].(*models.ImageBlock)
		assert.Equal(t, models.UploadStateUploaded, image.State)
		assert.True(t, image.Resolved())
	})

	t.Run("image file index marks local file selected", func(t *testing.T) {
		e := New()
		block, _ := e.AddElement(models.BlockTypeImage)

		err := e.UpdateElement(block.BlockID(), Patch{FileIndex: intPtr(0), Alt: strPtr("team photo")})

		require.NoError(t, err)
		image := e.Document().Elements[1].(*models.ImageBlock)
		assert.Equal(t, models.UploadStateLocalFileSelected, image.State)
		require.NotNil(t, image.FileIndex)
		assert.Equal(t, 0, *image.FileIndex)
		assert.Equal(t, "team photo", image.Alt)
	})

	t.Run("unknown element", func(t *testing.T) {
		e := New()

		err := e.UpdateElement("missing", Patch{Text: strPtr("x")})

		assert.Error(t, err)
	})
}

func TestEditor_SetUploadState(t *testing.T) {
	e := New()
	image, _ := e.AddElement(models.BlockTypeImage)
	paragraph, _ := e.AddElement(models.BlockTypeParagraph)

	t.Run("image transitions", func(t *testing.T) {
		require.NoError(t, e.SetUploadState(image.BlockID(), models.UploadStateUploading))
		require.NoError(t, e.SetUploadState(image.BlockID(), models.UploadStateFailed))

		block := e.Document().Elements[1].(*models.ImageBlock)
		assert.Equal(t, models.UploadStateFailed, block.State)
	})

	t.Run("non-image element", func(t *testing.T) {
		err := e.SetUploadState(paragraph.BlockID(), models.UploadStateUploading)

		assert.Error(t, err)
	})

	t.Run("unknown element", func(t *testing.T) {
		err := e.SetUploadState("missing", models.UploadStateUploading)

		assert.Error(t, err)
	})
}

func TestEditor_DeleteElement(t *testing.T) {
	t.Run("deletes and renumbers", func(t *testing.T) {
		e := buildEditor(t)
		target := e.Document().Elements[1]

		err := e.DeleteElement(target.BlockID())

		require.NoError(t, err)
		assert.Equal(t, 3, e.Len())
		assertContiguous(t, e)
		for _, element := range e.Document().Elements {
			assert.NotEqual(t, target.BlockID(), element.BlockID())
		}
	})

	t.Run("title heading is protected", func(t *testing.T) {
		e := buildEditor(t)
		title := e.Document().Elements[0]

		err := e.DeleteElement(title.BlockID())

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 4, e.Len())
		assert.Equal(t, title.BlockID(), e.Document().Elements[0].BlockID())
	})

	t.Run("unknown element", func(t *testing.T) {
		e := buildEditor(t)

		err := e.DeleteElement("missing")

		assert.Error(t, err)
		assert.Equal(t, 4, e.Len())
	})
}

func TestEditor_Reorder(t *testing.T) {
	t.Run("moves element and renumbers", func(t *testing.T) {
		e := buildEditor(t)
		moved := e.Document().Elements[3]

		err := e.Reorder(moved.BlockID(), 1)

		require.NoError(t, err)
		assert.Equal(t, moved.BlockID(), e.Document().Elements[1].BlockID())
		assertContiguous(t, e)
	})

	t.Run("moves element down", func(t *testing.T) {
		e := buildEditor(t)
		moved := e.Document().Elements[1]

		err := e.Reorder(moved.BlockID(), 3)

		require.NoError(t, err)
		assert.Equal(t, moved.BlockID(), e.Document().Elements[3].BlockID())
		assertContiguous(t, e)
	})

	t.Run("title heading cannot be moved", func(t *testing.T) {
		e := buildEditor(t)
		title := e.Document().Elements[0]

		err := e.Reorder(title.BlockID(), 2)

		assert.Error(t, err)
		assert.Equal(t, title.BlockID(), e.Document().Elements[0].BlockID())
	})

	t.Run("nothing can be dropped at index zero", func(t *testing.T) {
		e := buildEditor(t)
		moved := e.Document().Elements[2]

		err := e.Reorder(moved.BlockID(), 0)

		assert.Error(t, err)
		assert.Equal(t, moved.BlockID(), e.Document().Elements[2].BlockID())
	})

	t.Run("target beyond document end", func(t *testing.T) {
		e := buildEditor(t)
		moved := e.Document().Elements[1]

		err := e.Reorder(moved.BlockID(), 4)

		assert.Error(t, err)
		assertContiguous(t, e)
	})

	t.Run("unknown element", func(t *testing.T) {
		e := buildEditor(t)

		err := e.Reorder("missing", 1)

		assert.Error(t, err)
	})
}

func TestEditor_Validate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		e := buildEditor(t)

		doc, err := e.Validate()

		require.NoError(t, err)
		assert.Len(t, doc.Elements, 4)
	})

	t.Run("batches all violations", func(t *testing.T) {
		e := New()
		heading, _ := e.AddElement(models.BlockTypeHeading)
		require.NoError(t, e.UpdateElement(heading.BlockID(), Patch{Text: strPtr(strings.Repeat("a", models.MaxHeadingLength+1))}))
		paragraph, _ := e.AddElement(models.BlockTypeParagraph)
		require.NoError(t, e.UpdateElement(paragraph.BlockID(), Patch{Text: strPtr(strings.Repeat("b", models.MaxParagraphLength+1))}))

		_, err := e.Validate()

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Messages, 2)
	})
}

func TestEditor_PrepareForSave(t *testing.T) {
	t.Run("valid document sets the in-flight flag", func(t *testing.T) {
		e := buildEditor(t)

		doc, err := e.PrepareForSave()

		require.NoError(t, err)
		assert.Len(t, doc.Elements, 4)
		assert.True(t, e.Saving())
	})

	t.Run("save already in progress", func(t *testing.T) {
		e := buildEditor(t)
		_, err := e.PrepareForSave()
		require.NoError(t, err)

		_, err = e.PrepareForSave()

		assert.Error(t, err)
	})

	t.Run("finish save releases the flag", func(t *testing.T) {
		e := buildEditor(t)
		_, err := e.PrepareForSave()
		require.NoError(t, err)

		e.FinishSave()
		_, err = e.PrepareForSave()

		assert.NoError(t, err)
	})

	t.Run("empty title", func(t *testing.T) {
		e := New()
		_, err := e.AddElement(models.BlockTypeParagraph)
		require.NoError(t, err)
		paragraph := e.Document().Elements[1]
		require.NoError(t, e.UpdateElement(paragraph.BlockID(), Patch{Text: strPtr("text")}))

		_, err = e.PrepareForSave()

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Messages, "title must not be empty")
		assert.False(t, e.Saving())
	})

	t.Run("pending image without alt text", func(t *testing.T) {
		e := buildEditor(t)
		image, _ := e.AddElement(models.BlockTypeImage)
		require.NoError(t, e.UpdateElement(image.BlockID(), Patch{FileIndex: intPtr(0)}))

		_, err := e.PrepareForSave()

		assert.Error(t, err)
		assert.False(t, e.Saving())
	})

	t.Run("image still uploading", func(t *testing.T) {
		e := buildEditor(t)
		image, _ := e.AddElement(models.BlockTypeImage)
		require.NoError(t, e.UpdateElement(image.BlockID(), Patch{FileIndex: intPtr(0), Alt: strPtr("alt")}))
		require.NoError(t, e.SetUploadState(image.BlockID(), models.UploadStateUploading))

		_, err := e.PrepareForSave()

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.False(t, e.Saving())
	})

	t.Run("image upload failed", func(t *testing.T) {
		e := buildEditor(t)
		image, _ := e.AddElement(models.BlockTypeImage)
		require.NoError(t, e.UpdateElement(image.BlockID(), Patch{FileIndex: intPtr(0), Alt: strPtr("alt")}))
		require.NoError(t, e.SetUploadState(image.BlockID(), models.UploadStateFailed))

		_, err := e.PrepareForSave()

		assert.Error(t, err)
		assert.False(t, e.Saving())
	})
}
