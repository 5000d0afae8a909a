package models

// BlockType represents the kind of a content block
type BlockType string

const (
	BlockTypeHeading   BlockType = "heading"
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeImage     BlockType = "image"
)

// Text length limits enforced by document validation
const (
	MaxHeadingLength   = 50
	MaxParagraphLength = 500
)

// UploadState represents the upload lifecycle of an image block
type UploadState string

const (
	UploadStateEmpty             UploadState = "empty"
	UploadStateLocalFileSelected UploadState = "local_file_selected"
	UploadStateUploading         UploadState = "uploading"
	UploadStateUploaded          UploadState = "uploaded"
	UploadStateFailed            UploadState = "upload_failed"
)

// Block is one typed content unit within a content document.
// Concrete kinds are Heading, Paragraph and ImageBlock.
type Block interface {
	// BlockID returns the client-assigned block identifier
	BlockID() string
	// Kind returns the block type tag
	Kind() BlockType
	// Pos returns the zero-based position within the document
	Pos() int
	// SetPos sets the zero-based position within the document
	SetPos(position int)
}

// Heading represents a heading block. The heading at position 0 is the
// document title.
type Heading struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Text     string    `json:"text"`
	Position int       `json:"position"`
}

func (h *Heading) BlockID() string     { return h.ID }
func (h *Heading) Kind() BlockType     { return BlockTypeHeading }
func (h *Heading) Pos() int            { return h.Position }
func (h *Heading) SetPos(position int) { h.Position = position }

// Paragraph represents a paragraph block
type Paragraph struct {
	ID       string    `json:"id"`
	Type     BlockType `json:"type"`
	Text     string    `json:"text"`
	Position int       `json:"position"`
}

func (p *Paragraph) BlockID() string     { return p.ID }
func (p *Paragraph) Kind() BlockType     { return BlockTypeParagraph }
func (p *Paragraph) Pos() int            { return p.Position }
func (p *Paragraph) SetPos(position int) { p.Position = position }

// ImageBlock represents an image block. Before its file is uploaded it may
// carry a transient FileIndex pointing into the submitted file batch and a
// local preview URL; once resolved it carries the stored image URL.
type ImageBlock struct {
	ID              string    `json:"id"`
	Type            BlockType `json:"type"`
	URL             string    `json:"url"`
	Alt             string    `json:"alt"`
	Position        int       `json:"position"`
	FileIndex       *int      `json:"fileIndex,omitempty"`
	LocalPreviewURL string    `json:"localPreviewUrl,omitempty"`

	// State tracks the upload lifecycle on the editing side and never
	// crosses the wire
	State UploadState `json:"-"`
}

func (i *ImageBlock) BlockID() string     { return i.ID }
func (i *ImageBlock) Kind() BlockType     { return BlockTypeImage }
func (i *ImageBlock) Pos() int            { return i.Position }
func (i *ImageBlock) SetPos(position int) { i.Position = position }

// Resolved reports whether the image block already references a stored image
func (i *ImageBlock) Resolved() bool {
	return i.URL != ""
}
