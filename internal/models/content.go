package models

import "time"

// ContentEntity represents a parent content row (a blog post or a coach
// profile, which are structurally identical). The title is always copied
// from the position-0 heading of the document at save time.
type ContentEntity struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	AuthorID  int       `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContentListItem represents a parent entity in list responses
type ContentListItem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContentFull is the read DTO for re-entering the editor: the parent row,
// its author, and the three child sets each pre-sorted by position
type ContentFull struct {
	ID         int            `json:"id"`
	Title      string         `json:"title"`
	AuthorID   int            `json:"authorId"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Author     Author         `json:"author"`
	Headings   []HeadingRow   `json:"headings"`
	Paragraphs []ParagraphRow `json:"paragraphs"`
	Images     []ImageLinkRow `json:"images"`
}

// Author is the thin user projection embedded in full content responses
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// HeadingRow is a persisted heading child row. Position is the document
// global position (headings at position >= 1; the title heading is not
// stored as a child row).
type HeadingRow struct {
	ID       int    `json:"id"`
	ParentID int    `json:"-"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// ParagraphRow is a persisted paragraph child row
type ParagraphRow struct {
	ID       int    `json:"id"`
	ParentID int    `json:"-"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// ImageLinkRow is a persisted image-link child row joined with the image it
// references. The link owns only position; the image row itself is shared
// and immutable.
type ImageLinkRow struct {
	ID       int    `json:"id"`
	ParentID int    `json:"-"`
	ImageID  int    `json:"imageId"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

// ImageRef links a stored image to a document position inside a content
// transaction
type ImageRef struct {
	ImageID  int
	Position int
}

// Image represents a stored image object, created once per physical upload
// and referenced by zero or more blog/coach image-links. Rows are immutable
// after creation.
type Image struct {
	ID       int    `json:"id"`
	Key      string `json:"key"`
	AuthorID int    `json:"authorId"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
}

// User represents an authenticated author. Authentication itself is handled
// by an external service; only the projection needed for content responses
// lives here.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
