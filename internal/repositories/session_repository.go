package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves the weekly schedule ordered by day and start time
func (r *sessionRepository) GetAll(ctx context.Context) ([]models.Session, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, title, coach_id, location
		FROM sessions
		ORDER BY day_of_week, start_time
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		err := rows.Scan(
			&session.ID,
			&session.DayOfWeek,
			&session.StartTime,
			&session.EndTime,
			&session.Title,
			&session.CoachID,
			&session.Location,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sessions, nil
}

// ReplaceAll replaces the whole schedule in a single transaction: delete
// every row, then bulk-insert the new set. An empty set simply clears the
// schedule.
func (r *sessionRepository) ReplaceAll(ctx context.Context, sessions []models.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	if len(sessions) > 0 {
		var args []any
		for _, session := range sessions {
			args = append(args,
				session.DayOfWeek,
				session.StartTime,
				session.EndTime,
				session.Title,
				session.CoachID,
				session.Location,
			)
		}
		query := fmt.Sprintf(`
			INSERT INTO sessions (day_of_week, start_time, end_time, title, coach_id, location)
			VALUES %s
		`, bulkPlaceholders(len(sessions), 6))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert sessions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("schedule replaced", zap.Int("sessions", len(sessions)))
	return nil
}
