package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sportclub/backend/internal/models"
)

type imageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new image repository
func NewImageRepository(db *sql.DB) *imageRepository {
	return &imageRepository{
		db: db,
	}
}

// Create inserts a new image row. Image rows are immutable after creation;
// there is no update method.
func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (object_key, author_id, url, alt)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		image.Key,
		image.AuthorID,
		image.URL,
		image.Alt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	image.ID = int(id)
	return nil
}

// GetByID retrieves an image by its ID
func (r *imageRepository) GetByID(ctx context.Context, id int) (*models.Image, error) {
	query := `
		SELECT id, object_key, author_id, url, alt
		FROM images
		WHERE id = ?
		LIMIT 1
	`

	var image models.Image
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID,
		&image.Key,
		&image.AuthorID,
		&image.URL,
		&image.Alt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("image not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image by id: %w", err)
	}

	return &image, nil
}

// GetByURL retrieves an image by its public URL
func (r *imageRepository) GetByURL(ctx context.Context, url string) (*models.Image, error) {
	query := `
		SELECT id, object_key, author_id, url, alt
		FROM images
		WHERE url = ?
		LIMIT 1
	`

	var image models.Image
	err := r.db.QueryRowContext(ctx, query, url).Scan(
		&image.ID,
		&image.Key,
		&image.AuthorID,
		&image.URL,
		&image.Alt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("image not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image by url: %w", err)
	}

	return &image, nil
}
