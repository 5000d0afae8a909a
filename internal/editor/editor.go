// Package editor implements the in-memory authoring state for a content
// document: ordered block management, drag-and-drop reordering, validation
// and the save gate. The state is an explicit object so every operation can
// be tested without a UI harness.
package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sportclub/backend/internal/models"
)

// Patch holds the fields of an element update; nil fields are left untouched.
// Position is never patchable, only Reorder moves elements.
type Patch struct {
	Text      *string
	URL       *string
	Alt       *string
	FileIndex *int
}

// Editor holds the authoritative content document during authoring
type Editor struct {
	doc    models.ContentDocument
	saving bool
}

// New creates an editor holding a fresh document with an empty title
// heading at position 0
func New() *Editor {
	title := &models.Heading{
		ID:       uuid.New().String(),
		Type:     models.BlockTypeHeading,
		Position: 0,
	}
	return &Editor{doc: models.ContentDocument{Elements: []models.Block{title}}}
}

// Load creates an editor from an existing document, for example one
// reassembled from storage for re-editing
func Load(doc models.ContentDocument) (*Editor, error) {
	if messages := doc.Validate(); len(messages) > 0 {
		return nil, &models.ValidationError{Messages: messages}
	}
	return &Editor{doc: doc}, nil
}

// Document returns a shallow copy of the current document
func (e *Editor) Document() models.ContentDocument {
	elements := make([]models.Block, len(e.doc.Elements))
	copy(elements, e.doc.Elements)
	return models.ContentDocument{Elements: elements}
}

// Len returns the number of elements in the document
func (e *Editor) Len() int {
	return len(e.doc.Elements)
}

// AddElement appends a new empty block of the given kind at the end of the
// document and returns it
func (e *Editor) AddElement(kind models.BlockType) (models.Block, error) {
	position := len(e.doc.Elements)

	var block models.Block
	switch kind {
	case models.BlockTypeHeading:
		block = &models.Heading{ID: uuid.New().String(), Type: kind, Position: position}
	case models.BlockTypeParagraph:
		block = &models.Paragraph{ID: uuid.New().String(), Type: kind, Position: position}
	case models.BlockTypeImage:
		block = &models.ImageBlock{ID: uuid.New().String(), Type: kind, Position: position, State: models.UploadStateEmpty}
	default:
		return nil, fmt.Errorf("unknown block type %q", kind)
	}

	e.doc.Elements = append(e.doc.Elements, block)
	return block, nil
}

// UpdateElement shallow-merges the patch into the element with the given
// ID. Position is never modified.
func (e *Editor) UpdateElement(id string, patch Patch) error {
	index := e.indexOf(id)
	if index < 0 {
		return fmt.Errorf("element %q not found", id)
	}

	switch block := e.doc.Elements[index].(type) {
	case *models.Heading:
		if patch.Text != nil {
			block.Text = *patch.Text
		}
	case *models.Paragraph:
		if patch.Text != nil {
			block.Text = *patch.Text
		}
	case *models.ImageBlock:
		if patch.URL != nil {
			block.URL = *patch.URL
			if block.URL != "" {
				block.State = models.UploadStateUploaded
			}
		}
		if patch.Alt != nil {
			block.Alt = *patch.Alt
		}
		if patch.FileIndex != nil {
			fileIndex := *patch.FileIndex
			block.FileIndex = &fileIndex
			block.State = models.UploadStateLocalFileSelected
		}
	}

	return nil
}

// SetUploadState transitions the upload state of the image block with the
// given ID
func (e *Editor) SetUploadState(id string, state models.UploadState) error {
	index := e.indexOf(id)
	if index < 0 {
		return fmt.Errorf("element %q not found", id)
	}

	block, ok := e.doc.Elements[index].(*models.ImageBlock)
	if !ok {
		return fmt.Errorf("element %q is not an image", id)
	}

	block.State = state
	return nil
}

// DeleteElement removes the element with the given ID and renumbers the
// remaining elements to a contiguous sequence. Deleting the title heading
// at position 0 is rejected and leaves the document unchanged.
func (e *Editor) DeleteElement(id string) error {
	index := e.indexOf(id)
	if index < 0 {
		return fmt.Errorf("element %q not found", id)
	}
	if index == 0 {
		return models.NewValidationError("the title heading cannot be deleted")
	}

	e.doc.Elements = append(e.doc.Elements[:index], e.doc.Elements[index+1:]...)
	e.renumber()
	return nil
}

// Reorder moves the element with the given ID to the target index and
// renumbers all elements. Moving the title heading, or dropping any element
// at index 0, is rejected and leaves the document unchanged.
func (e *Editor) Reorder(id string, toIndex int) error {
	index := e.indexOf(id)
	if index < 0 {
		return fmt.Errorf("element %q not found", id)
	}
	if index == 0 {
		return models.NewValidationError("the title heading cannot be moved")
	}
	if toIndex <= 0 || toIndex >= len(e.doc.Elements) {
		return models.NewValidationError("invalid drop target")
	}

	block := e.doc.Elements[index]
	elements := append(e.doc.Elements[:index], e.doc.Elements[index+1:]...)
	elements = append(elements[:toIndex], append([]models.Block{block}, elements[toIndex:]...)...)
	e.doc.Elements = elements
	e.renumber()
	return nil
}

// Validate parses the current document against the block schema and
// returns the validated document. All violations are batched into a single
// validation error; no partial state is forwarded on failure.
func (e *Editor) Validate() (models.ContentDocument, error) {
	if messages := e.doc.Validate(); len(messages) > 0 {
		return models.ContentDocument{}, &models.ValidationError{Messages: messages}
	}
	return e.Document(), nil
}

// PrepareForSave runs the stricter save-time checks on top of schema
// validation: no empty title or text blocks, every image resolved or
// pending with alt text, and no image still uploading or failed. It also
// sets the in-flight save flag; a save attempted while one is outstanding
// is rejected. Callers must release the flag with FinishSave.
func (e *Editor) PrepareForSave() (models.ContentDocument, error) {
	if e.saving {
		return models.ContentDocument{}, models.NewValidationError("a save is already in progress")
	}

	messages := e.doc.ValidateForSave()
	for i, element := range e.doc.Elements {
		block, ok := element.(*models.ImageBlock)
		if !ok {
			continue
		}
		switch block.State {
		case models.UploadStateUploading:
			messages = append(messages, fmt.Sprintf("image at position %d is still uploading", i))
		case models.UploadStateFailed:
			messages = append(messages, fmt.Sprintf("image at position %d failed to upload", i))
		}
	}
	if len(messages) > 0 {
		return models.ContentDocument{}, &models.ValidationError{Messages: messages}
	}

	e.saving = true
	return e.Document(), nil
}

// FinishSave releases the in-flight save flag
func (e *Editor) FinishSave() {
	e.saving = false
}

// Saving reports whether a save is currently in flight
func (e *Editor) Saving() bool {
	return e.saving
}

// indexOf returns the index of the element with the given ID, or -1
func (e *Editor) indexOf(id string) int {
	for i, element := range e.doc.Elements {
		if element.BlockID() == id {
			return i
		}
	}
	return -1
}

// renumber rewrites positions to match array order
func (e *Editor) renumber() {
	for i, element := range e.doc.Elements {
		element.SetPos(i)
	}
}
