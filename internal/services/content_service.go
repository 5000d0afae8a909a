package services

import (
	"context"
	"fmt"

	"github.com/sportclub/backend/internal/models"
	"github.com/sportclub/backend/internal/storage"
	"go.uber.org/zap"
)

// ContentRepository defines the transactional data access a content service
// needs for one entity kind (blog or coach)
type ContentRepository interface {
	// GetByID retrieves a parent entity row by ID
	GetByID(ctx context.Context, id int) (*models.ContentEntity, error)
	// List retrieves parent entities ordered by last update, paginated
	List(ctx context.Context, page, count int) ([]models.ContentListItem, error)
	// GetFull retrieves the parent row with author and child sets, each
	// sorted by position
	GetFull(ctx context.Context, id int) (*models.ContentFull, error)
	// CreateWithContent atomically inserts the parent row and all child rows
	CreateWithContent(ctx context.Context, title string, authorID int, headings []models.HeadingRow, paragraphs []models.ParagraphRow, imageRefs []models.ImageRef) (*models.ContentEntity, error)
	// UpdateWithContent atomically updates the parent row, deletes all
	// existing child rows and re-inserts the submitted sets
	UpdateWithContent(ctx context.Context, parentID int, title string, headings []models.HeadingRow, paragraphs []models.ParagraphRow, imageRefs []models.ImageRef) (*models.ContentEntity, error)
	// Delete deletes a parent entity; child rows cascade
	Delete(ctx context.Context, id int) error
}

// ImageRepository defines data access for shared image objects
type ImageRepository interface {
	// Create inserts a new image row and fills in its generated ID
	Create(ctx context.Context, image *models.Image) error
	// GetByURL retrieves an image row by its public URL
	GetByURL(ctx context.Context, url string) (*models.Image, error)
}

// UserRepository defines the author lookups the content service needs
type UserRepository interface {
	// ExistsByID checks if a user with the given ID exists
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// Uploader defines the object storage operations the content service needs
type Uploader interface {
	// UploadBatch stores the given files and returns a result array
	// parallel to the input
	UploadBatch(ctx context.Context, files []storage.File) []storage.UploadResult
	// Delete removes a stored object
	Delete(key string) error
}

// UploadOutcome describes one file of a save's upload batch
type UploadOutcome struct {
	FileIndex int    `json:"fileIndex"`
	ElementID string `json:"elementId,omitempty"`
	ImageID   int    `json:"imageId,omitempty"`
	URL       string `json:"url,omitempty"`
	Position  int    `json:"position,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SaveResult is the outcome of a create or update save: the persisted
// entity plus per-file upload successes and failures. A save with failures
// but at least one success maps to a 207 at the HTTP boundary.
type SaveResult struct {
	Entity         *models.ContentEntity `json:"entity"`
	Successes      []UploadOutcome       `json:"successes"`
	Failures       []UploadOutcome       `json:"failures"`
	TotalUploaded  int                   `json:"totalUploaded"`
	TotalProcessed int                   `json:"totalProcessed"`
}

// ContentService orchestrates saving a validated content document: upload
// reconciliation, image row creation and the single content transaction.
// One instance serves one entity kind (blog or coach).
type ContentService struct {
	kind      string
	repo      ContentRepository
	imageRepo ImageRepository
	userRepo  UserRepository
	uploader  Uploader
	logger    *zap.Logger
}

// NewContentService creates a content service for one entity kind
func NewContentService(kind string, repo ContentRepository, imageRepo ImageRepository, userRepo UserRepository, uploader Uploader, logger *zap.Logger) *ContentService {
	return &ContentService{
		kind:      kind,
		repo:      repo,
		imageRepo: imageRepo,
		userRepo:  userRepo,
		uploader:  uploader,
		logger:    logger,
	}
}

// List retrieves parent entities, paginated
func (s *ContentService) List(ctx context.Context, page, count int) ([]models.ContentListItem, error) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 10
	}
	return s.repo.List(ctx, page, count)
}

// GetFull retrieves the full read DTO for an entity
func (s *ContentService) GetFull(ctx context.Context, id int) (*models.ContentFull, error) {
	return s.repo.GetFull(ctx, id)
}

// GetDocument retrieves an entity reassembled into an editable content
// document: child rows merged by position with the title heading
// re-inserted at position 0
func (s *ContentService) GetDocument(ctx context.Context, id int) (*models.ContentDocument, error) {
	full, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := models.AssembleDocument(full)
	return &doc, nil
}

// Delete deletes an entity; child rows cascade
func (s *ContentService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Create persists a new entity from a validated content document and its
// upload batch. Image rows are inserted outside the content transaction
// since image objects are shared; the parent row and all child rows are
// written atomically.
func (s *ContentService) Create(ctx context.Context, authorID int, doc models.ContentDocument, files []storage.File) (*SaveResult, error) {
	if messages := doc.ValidateForSave(); len(messages) > 0 {
		return nil, &models.ValidationError{Messages: messages}
	}

	exists, err := s.userRepo.ExistsByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("author not found")
	}

	partitioned := doc.Partition()

	refs, successes, failures, err := s.resolveImages(ctx, authorID, partitioned.Images, files, nil)
	if err != nil {
		return nil, err
	}

	entity, err := s.repo.CreateWithContent(ctx, partitioned.Title, authorID,
		partitioned.Headings, partitioned.Paragraphs, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", s.kind, err)
	}

	return &SaveResult{
		Entity:         entity,
		Successes:      successes,
		Failures:       failures,
		TotalUploaded:  len(successes),
		TotalProcessed: len(files),
	}, nil
}

// Update replaces an existing entity's content from a validated document.
// The existence check precedes any destructive operation; pre-existing
// image blocks are matched back to their original image rows by URL
// equality against the previously stored set.
func (s *ContentService) Update(ctx context.Context, id, authorID int, doc models.ContentDocument, files []storage.File) (*SaveResult, error) {
	previous, err := s.repo.GetFull(ctx, id)
	if err != nil {
		return nil, err
	}

	if messages := doc.ValidateForSave(); len(messages) > 0 {
		return nil, &models.ValidationError{Messages: messages}
	}

	partitioned := doc.Partition()

	refs, successes, failures, err := s.resolveImages(ctx, authorID, partitioned.Images, files, previous.Images)
	if err != nil {
		return nil, err
	}

	entity, err := s.repo.UpdateWithContent(ctx, id, partitioned.Title,
		partitioned.Headings, partitioned.Paragraphs, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", s.kind, err)
	}

	return &SaveResult{
		Entity:         entity,
		Successes:      successes,
		Failures:       failures,
		TotalUploaded:  len(successes),
		TotalProcessed: len(files),
	}, nil
}

// resolveImages correlates the document's image blocks with the uploaded
// file batch and the previously stored image links, producing the image
// references for the content transaction. Resolution is independent of
// upload completion order: pending blocks are matched strictly by their
// fileIndex. A block whose fileIndex is missing or does not match a batch
// entry is a reported failure, never guessed into a batch-order position.
func (s *ContentService) resolveImages(
	ctx context.Context,
	authorID int,
	images []*models.ImageBlock,
	files []storage.File,
	previousLinks []models.ImageLinkRow,
) ([]models.ImageRef, []UploadOutcome, []UploadOutcome, error) {
	if len(images) == 0 && len(files) == 0 {
		return nil, nil, nil, nil
	}

	var results []storage.UploadResult
	if len(files) > 0 {
		results = s.uploader.UploadBatch(ctx, files)
	}

	var (
		refs      []models.ImageRef
		successes []UploadOutcome
		failures  []UploadOutcome
	)
	claimed := make(map[int]bool, len(results))
	pending := 0

	for _, block := range images {
		if block.Resolved() {
			ref, reason := s.matchExisting(ctx, block, previousLinks)
			if reason != "" {
				failures = append(failures, UploadOutcome{
					FileIndex: -1,
					ElementID: block.ID,
					Reason:    reason,
				})
				continue
			}
			refs = append(refs, ref)
			continue
		}

		pending++

		if block.FileIndex == nil {
			failures = append(failures, UploadOutcome{
				FileIndex: -1,
				ElementID: block.ID,
				Reason:    "image element has no file index",
			})
			continue
		}

		fileIndex := *block.FileIndex
		if fileIndex < 0 || fileIndex >= len(results) {
			failures = append(failures, UploadOutcome{
				FileIndex: fileIndex,
				ElementID: block.ID,
				Reason:    fmt.Sprintf("no uploaded file at index %d", fileIndex),
			})
			continue
		}
		claimed[fileIndex] = true

		result := results[fileIndex]
		if result.Err != nil || result.Data == nil {
			reason := "upload failed"
			if result.Err != nil {
				reason = result.Err.Error()
			}
			failures = append(failures, UploadOutcome{
				FileIndex: fileIndex,
				ElementID: block.ID,
				Reason:    reason,
			})
			continue
		}

		image := &models.Image{
			Key:      result.Data.Key,
			AuthorID: authorID,
			URL:      result.Data.URL,
			Alt:      block.Alt,
		}
		if err := s.imageRepo.Create(ctx, image); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to store image record: %w", err)
		}

		refs = append(refs, models.ImageRef{ImageID: image.ID, Position: block.Position})
		successes = append(successes, UploadOutcome{
			FileIndex: fileIndex,
			ElementID: block.ID,
			ImageID:   image.ID,
			URL:       image.URL,
			Position:  block.Position,
		})
	}

	// an uploaded object no element claims would be orphaned; report it
	// and remove the stored object
	for i, result := range results {
		if claimed[i] {
			continue
		}
		if result.Err != nil {
			failures = append(failures, UploadOutcome{
				FileIndex: i,
				Reason:    result.Err.Error(),
			})
			continue
		}
		if result.Data != nil {
			if err := s.uploader.Delete(result.Data.Key); err != nil {
				s.logger.Warn("failed to remove unreferenced upload",
					zap.String("key", result.Data.Key), zap.Error(err))
			}
			failures = append(failures, UploadOutcome{
				FileIndex: i,
				Reason:    "no image element references this file",
			})
		}
	}

	if len(files) > 0 && pending > 0 && len(successes) == 0 {
		return nil, nil, nil, fmt.Errorf("all image uploads failed")
	}

	return refs, successes, failures, nil
}

// matchExisting resolves an already-uploaded image block to its image row:
// by URL equality against the previously stored links first, falling back
// to a direct lookup in the shared image table. Returns a non-empty reason
// when no stored image matches.
func (s *ContentService) matchExisting(ctx context.Context, block *models.ImageBlock, previousLinks []models.ImageLinkRow) (models.ImageRef, string) {
	for _, link := range previousLinks {
		if link.URL == block.URL {
			return models.ImageRef{ImageID: link.ImageID, Position: block.Position}, ""
		}
	}

	image, err := s.imageRepo.GetByURL(ctx, block.URL)
	if err != nil {
		return models.ImageRef{}, fmt.Sprintf("no stored image matches url %q", block.URL)
	}
	return models.ImageRef{ImageID: image.ID, Position: block.Position}, ""
}
