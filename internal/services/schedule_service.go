package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sportclub/backend/internal/models"
	"go.uber.org/zap"
)

// timeOfDayLayout is the canonical zero-padded form sessions are stored in.
// Stored times sort lexicographically, so non-padded input is rejected.
const timeOfDayLayout = "15:04"

// SessionRepository defines data access for the weekly schedule
type SessionRepository interface {
	// GetAll retrieves the schedule ordered by day and start time
	GetAll(ctx context.Context) ([]models.Session, error)
	// ReplaceAll replaces the whole schedule in one transaction
	ReplaceAll(ctx context.Context, sessions []models.Session) error
}

// CoachChecker defines the coach existence check the schedule service needs
// for referential validation
type CoachChecker interface {
	// ExistsByID checks if a coach with the given ID exists
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// ScheduleService manages the weekly session schedule as a bulk-replaceable
// collection
type ScheduleService struct {
	sessionRepo SessionRepository
	coaches     CoachChecker
	logger      *zap.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(sessionRepo SessionRepository, coaches CoachChecker, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		sessionRepo: sessionRepo,
		coaches:     coaches,
		logger:      logger,
	}
}

// GetAll retrieves the weekly schedule
func (s *ScheduleService) GetAll(ctx context.Context) ([]models.Session, error) {
	return s.sessionRepo.GetAll(ctx)
}

// Replace validates the submitted schedule and replaces the stored one in a
// single transaction. Validation covers shape (day range, time order,
// non-empty title) and referential integrity (every coach must exist);
// nothing is written when any session is invalid.
func (s *ScheduleService) Replace(ctx context.Context, sessions []models.Session) error {
	var messages []string
	for i, session := range sessions {
		if session.DayOfWeek < 0 || session.DayOfWeek > 6 {
			messages = append(messages, fmt.Sprintf("session %d: day of week must be between 0 and 6", i))
		}
		if session.Title == "" {
			messages = append(messages, fmt.Sprintf("session %d: title is required", i))
		}
		start, startErr := time.Parse(timeOfDayLayout, session.StartTime)
		end, endErr := time.Parse(timeOfDayLayout, session.EndTime)
		if startErr != nil || endErr != nil ||
			start.Format(timeOfDayLayout) != session.StartTime ||
			end.Format(timeOfDayLayout) != session.EndTime {
			messages = append(messages, fmt.Sprintf("session %d: times must be in HH:MM format", i))
		} else if !start.Before(end) {
			messages = append(messages, fmt.Sprintf("session %d: start time must precede end time", i))
		}
	}
	if len(messages) > 0 {
		return &models.ValidationError{Messages: messages}
	}

	if err := s.checkCoaches(ctx, sessions); err != nil {
		return err
	}

	return s.sessionRepo.ReplaceAll(ctx, sessions)
}

// checkCoaches verifies every referenced coach exists. Distinct IDs are
// checked concurrently.
func (s *ScheduleService) checkCoaches(ctx context.Context, sessions []models.Session) error {
	coachIDs := make(map[int]bool)
	for _, session := range sessions {
		coachIDs[session.CoachID] = true
	}
	if len(coachIDs) == 0 {
		return nil
	}

	errorChan := make(chan error, len(coachIDs))
	for coachID := range coachIDs {
		go func() {
			exists, err := s.coaches.ExistsByID(ctx, coachID)
			if err != nil {
				errorChan <- err
				return
			}
			if !exists {
				errorChan <- models.NewValidationError(fmt.Sprintf("coach %d does not exist", coachID))
				return
			}
			errorChan <- nil
		}()
	}

	for range len(coachIDs) {
		if err := <-errorChan; err != nil {
			return err
		}
	}
	return nil
}
