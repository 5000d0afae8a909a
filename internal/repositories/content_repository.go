package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

// contentTables names the table quartet a content repository operates on.
// Blogs and coaches are structurally identical, so the same repository
// serves both with a different table set.
type contentTables struct {
	kind       string // "blog" or "coach", used in error messages
	parent     string
	parentFK   string
	headings   string
	paragraphs string
	imageLinks string
}

var blogTables = contentTables{
	kind:       "blog",
	parent:     "blogs",
	parentFK:   "blog_id",
	headings:   "blog_headings",
	paragraphs: "blog_paragraphs",
	imageLinks: "blog_images",
}

var coachTables = contentTables{
	kind:       "coach",
	parent:     "coaches",
	parentFK:   "coach_id",
	headings:   "coach_headings",
	paragraphs: "coach_paragraphs",
	imageLinks: "coach_images",
}

type contentRepository struct {
	db     *sql.DB
	tables contentTables
	logger *zap.Logger
}

// NewBlogRepository creates a content repository over the blog tables
func NewBlogRepository(db *sql.DB, logger *zap.Logger) *contentRepository {
	return &contentRepository{db: db, tables: blogTables, logger: logger}
}

// NewCoachRepository creates a content repository over the coach tables
func NewCoachRepository(db *sql.DB, logger *zap.Logger) *contentRepository {
	return &contentRepository{db: db, tables: coachTables, logger: logger}
}

// GetByID retrieves a parent entity row by its ID
func (r *contentRepository) GetByID(ctx context.Context, id int) (*models.ContentEntity, error) {
	query := fmt.Sprintf(`
		SELECT id, title, author_id, created_at, updated_at
		FROM %s
		WHERE id = ?
		LIMIT 1
	`, r.tables.parent)

	var entity models.ContentEntity
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entity.ID,
		&entity.Title,
		&entity.AuthorID,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s not found", r.tables.kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s by id: %w", r.tables.kind, err)
	}

	return &entity, nil
}

// ExistsByID checks if a parent entity with the given ID exists
func (r *contentRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)`, r.tables.parent)

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", r.tables.kind, err)
	}

	return exists, nil
}

// List retrieves parent entities ordered by last update, paginated
func (r *contentRepository) List(ctx context.Context, page, count int) ([]models.ContentListItem, error) {
	query := fmt.Sprintf(`
		SELECT id, title, updated_at
		FROM %s
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, r.tables.parent)

	rows, err := r.db.QueryContext(ctx, query, count, (page-1)*count)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s list: %w", r.tables.kind, err)
	}
	defer rows.Close()

	var items []models.ContentListItem
	for rows.Next() {
		var item models.ContentListItem
		if err := rows.Scan(&item.ID, &item.Title, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.tables.kind, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// CreateWithContent inserts the parent row and all child rows in a single
// transaction. Any failure rolls back the whole set, the parent row
// included.
func (r *contentRepository) CreateWithContent(
	ctx context.Context,
	title string,
	authorID int,
	headings []models.HeadingRow,
	paragraphs []models.ParagraphRow,
	imageRefs []models.ImageRef,
) (*models.ContentEntity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertParent := fmt.Sprintf(`INSERT INTO %s (title, author_id) VALUES (?, ?)`, r.tables.parent)
	result, err := tx.ExecContext(ctx, insertParent, title, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.tables.kind, err)
	}

	parentID64, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	parentID := int(parentID64)

	if err := r.insertChildren(ctx, tx, parentID, headings, paragraphs, imageRefs); err != nil {
		return nil, err
	}

	entity, err := r.scanParent(ctx, tx, parentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("content created",
		zap.String("kind", r.tables.kind),
		zap.Int("id", parentID),
		zap.Int("headings", len(headings)),
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("images", len(imageRefs)),
	)

	return entity, nil
}

// UpdateWithContent updates the parent row's mutable fields, deletes all
// existing child rows and re-inserts the submitted sets, all in a single
// transaction. Delete-then-reinsert keeps the persisted state exactly equal
// to the submitted document without diffing.
func (r *contentRepository) UpdateWithContent(
	ctx context.Context,
	parentID int,
	title string,
	headings []models.HeadingRow,
	paragraphs []models.ParagraphRow,
	imageRefs []models.ImageRef,
) (*models.ContentEntity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateParent := fmt.Sprintf(`UPDATE %s SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, r.tables.parent)
	if _, err := tx.ExecContext(ctx, updateParent, title, parentID); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.tables.kind, err)
	}

	for _, table := range []string{r.tables.headings, r.tables.paragraphs, r.tables.imageLinks} {
		deleteChildren := fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, r.tables.parentFK)
		if _, err := tx.ExecContext(ctx, deleteChildren, parentID); err != nil {
			return nil, fmt.Errorf("failed to delete rows from %s: %w", table, err)
		}
	}

	if err := r.insertChildren(ctx, tx, parentID, headings, paragraphs, imageRefs); err != nil {
		return nil, err
	}

	entity, err := r.scanParent(ctx, tx, parentID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("content updated",
		zap.String("kind", r.tables.kind),
		zap.Int("id", parentID),
		zap.Int("headings", len(headings)),
		zap.Int("paragraphs", len(paragraphs)),
		zap.Int("images", len(imageRefs)),
	)

	return entity, nil
}

// Delete deletes a parent entity by ID; child rows cascade
func (r *contentRepository) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.tables.parent)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.tables.kind, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s not found", r.tables.kind)
	}

	return nil
}

// GetFull retrieves the parent row with its author and all three child
// sets, each ordered by position. The child sets have no cross-dependency,
// so they are fetched concurrently.
func (r *contentRepository) GetFull(ctx context.Context, id int) (*models.ContentFull, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.author_id, p.created_at, p.updated_at, u.username
		FROM %s p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = ?
		LIMIT 1
	`, r.tables.parent)

	var full models.ContentFull
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&full.ID,
		&full.Title,
		&full.AuthorID,
		&full.CreatedAt,
		&full.UpdatedAt,
		&full.Author.Username,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s not found", r.tables.kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s by id: %w", r.tables.kind, err)
	}
	full.Author.ID = full.AuthorID

	errorChan := make(chan error, 3)

	go func() {
		headings, err := r.getHeadings(ctx, id)
		if err != nil {
			errorChan <- err
			return
		}
		full.Headings = headings
		errorChan <- nil
	}()
	go func() {
		paragraphs, err := r.getParagraphs(ctx, id)
		if err != nil {
			errorChan <- err
			return
		}
		full.Paragraphs = paragraphs
		errorChan <- nil
	}()
	go func() {
		images, err := r.getImageLinks(ctx, id)
		if err != nil {
			errorChan <- err
			return
		}
		full.Images = images
		errorChan <- nil
	}()

	for range 3 {
		if err := <-errorChan; err != nil {
			return nil, err
		}
	}

	return &full, nil
}

func (r *contentRepository) getHeadings(ctx context.Context, parentID int) ([]models.HeadingRow, error) {
	query := fmt.Sprintf(`
		SELECT id, text, position
		FROM %s
		WHERE %s = ?
		ORDER BY position
	`, r.tables.headings, r.tables.parentFK)

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query headings: %w", err)
	}
	defer rows.Close()

	var headings []models.HeadingRow
	for rows.Next() {
		row := models.HeadingRow{ParentID: parentID}
		if err := rows.Scan(&row.ID, &row.Text, &row.Position); err != nil {
			return nil, fmt.Errorf("failed to scan heading: %w", err)
		}
		headings = append(headings, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return headings, nil
}

func (r *contentRepository) getParagraphs(ctx context.Context, parentID int) ([]models.ParagraphRow, error) {
	query := fmt.Sprintf(`
		SELECT id, text, position
		FROM %s
		WHERE %s = ?
		ORDER BY position
	`, r.tables.paragraphs, r.tables.parentFK)

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paragraphs: %w", err)
	}
	defer rows.Close()

	var paragraphs []models.ParagraphRow
	for rows.Next() {
		row := models.ParagraphRow{ParentID: parentID}
		if err := rows.Scan(&row.ID, &row.Text, &row.Position); err != nil {
			return nil, fmt.Errorf("failed to scan paragraph: %w", err)
		}
		paragraphs = append(paragraphs, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return paragraphs, nil
}

func (r *contentRepository) getImageLinks(ctx context.Context, parentID int) ([]models.ImageLinkRow, error) {
	query := fmt.Sprintf(`
		SELECT l.id, l.image_id, l.position, i.url, i.alt
		FROM %s l
		JOIN images i ON i.id = l.image_id
		WHERE l.%s = ?
		ORDER BY l.position
	`, r.tables.imageLinks, r.tables.parentFK)

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query image links: %w", err)
	}
	defer rows.Close()

	var images []models.ImageLinkRow
	for rows.Next() {
		row := models.ImageLinkRow{ParentID: parentID}
		if err := rows.Scan(&row.ID, &row.ImageID, &row.Position, &row.URL, &row.Alt); err != nil {
			return nil, fmt.Errorf("failed to scan image link: %w", err)
		}
		images = append(images, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return images, nil
}

// insertChildren bulk-inserts the three child sets for a parent inside the
// given transaction. Empty sets are skipped rather than sent as empty
// statements.
func (r *contentRepository) insertChildren(
	ctx context.Context,
	tx *sql.Tx,
	parentID int,
	headings []models.HeadingRow,
	paragraphs []models.ParagraphRow,
	imageRefs []models.ImageRef,
) error {
	if len(headings) > 0 {
		var args []any
		for _, row := range headings {
			args = append(args, parentID, row.Text, row.Position)
		}
		query := fmt.Sprintf(`INSERT INTO %s (%s, text, position) VALUES %s`,
			r.tables.headings, r.tables.parentFK, bulkPlaceholders(len(headings), 3))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert headings: %w", err)
		}
	}

	if len(paragraphs) > 0 {
		var args []any
		for _, row := range paragraphs {
			args = append(args, parentID, row.Text, row.Position)
		}
		query := fmt.Sprintf(`INSERT INTO %s (%s, text, position) VALUES %s`,
			r.tables.paragraphs, r.tables.parentFK, bulkPlaceholders(len(paragraphs), 3))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert paragraphs: %w", err)
		}
	}

	if len(imageRefs) > 0 {
		var args []any
		for _, ref := range imageRefs {
			args = append(args, parentID, ref.ImageID, ref.Position)
		}
		query := fmt.Sprintf(`INSERT INTO %s (%s, image_id, position) VALUES %s`,
			r.tables.imageLinks, r.tables.parentFK, bulkPlaceholders(len(imageRefs), 3))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert image links: %w", err)
		}
	}

	return nil
}

// scanParent reads the parent row back inside the transaction
func (r *contentRepository) scanParent(ctx context.Context, tx *sql.Tx, parentID int) (*models.ContentEntity, error) {
	query := fmt.Sprintf(`
		SELECT id, title, author_id, created_at, updated_at
		FROM %s
		WHERE id = ?
		LIMIT 1
	`, r.tables.parent)

	var entity models.ContentEntity
	err := tx.QueryRowContext(ctx, query, parentID).Scan(
		&entity.ID,
		&entity.Title,
		&entity.AuthorID,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s back: %w", r.tables.kind, err)
	}

	return &entity, nil
}

// bulkPlaceholders builds the VALUES clause for a bulk insert of rows each
// with fields placeholders, e.g. (?, ?, ?), (?, ?, ?)
func bulkPlaceholders(rows, fields int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", fields), ", ") + ")"
	parts := make([]string, rows)
	for i := range parts {
		parts[i] = row
	}
	return strings.Join(parts, ", ")
}
