package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ReminderService manages recurring reminders. Listing shows active ones
// only; a paused reminder is still reachable by id.
type ReminderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewReminderService(db *sql.DB, m repomanager.RepositoryManager) *ReminderService {
	return &ReminderService{db: db, repomanager: m, now: func() time.Time { return time.Now().UTC() }}
}

func reminderOwner(r *models.Reminder) string { return r.UserID }

func (s *ReminderService) List(ctx context.Context, userID, babyID string) ([]models.Reminder, error) {
	if babyID != "" {
		if _, err := owned(ctx, userID, babyID, s.repomanager.Babies(s.db).Get, babyOwner); err != nil {
			return nil, err
		}
	}
	return s.repomanager.Reminders(s.db).ListActive(ctx, userID, babyID)
}

func (s *ReminderService) Create(ctx context.Context, userID string, in models.ReminderInput) (*models.Reminder, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Reminders(s.db)
	return createOnce(ctx, userID, in.ID, repo.Get, reminderOwner, func(ctx context.Context) (*models.Reminder, error) {
		if err := requireBaby(ctx, userID, in.BabyID, s.repomanager.Babies(s.db).Get); err != nil {
			return nil, err
		}
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		r := in.NewReminder(id, userID, s.now())
		if err := repo.Create(ctx, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
}

func (s *ReminderService) Update(ctx context.Context, userID, id string, p models.ReminderUpdate) (*models.Reminder, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	return s.change(ctx, userID, id, p.Apply)
}

// MarkNotified moves next_due forward by the reminder's interval.
func (s *ReminderService) MarkNotified(ctx context.Context, userID, id string) (*models.Reminder, error) {
	return s.change(ctx, userID, id, (*models.Reminder).Reschedule)
}

func (s *ReminderService) change(ctx context.Context, userID, id string, fn func(*models.Reminder)) (*models.Reminder, error) {
	repo := s.repomanager.Reminders(s.db)
	r, err := owned(ctx, userID, id, repo.Get, reminderOwner)
	if err != nil {
		return nil, err
	}
	fn(r)
	if err := repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReminderService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Reminders(s.db)
	if _, err := owned(ctx, userID, id, repo.Get, reminderOwner); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
