package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewActivityService(db *sql.DB, m repomanager.RepositoryManager) *ActivityService {
	return &ActivityService{db: db, repomanager: m, now: func() time.Time { return time.Now().UTC() }}
}

func activityOwner(a *models.Activity) string { return a.UserID }

// List returns the user's activities newest first. Filtering by a baby the
// user does not own is refused.
func (s *ActivityService) List(ctx context.Context, userID string, f models.ActivityFilter) ([]models.Activity, error) {
	if f.BabyID != "" {
		if _, err := owned(ctx, userID, f.BabyID, s.repomanager.Babies(s.db).Get, babyOwner); err != nil {
			return nil, err
		}
	}
	return s.repomanager.Activities(s.db).List(ctx, userID, f)
}

// Create logs an activity for one of the user's babies. It is idempotent
// on in.ID.
func (s *ActivityService) Create(ctx context.Context, userID string, in models.ActivityInput) (*models.Activity, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Activities(s.db)
	return createOnce(ctx, userID, in.ID, repo.Get, activityOwner, func(ctx context.Context) (*models.Activity, error) {
		if err := requireBaby(ctx, userID, in.BabyID, s.repomanager.Babies(s.db).Get); err != nil {
			return nil, err
		}
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		a := in.NewActivity(id, userID, s.now())
		if err := repo.Create(ctx, &a); err != nil {
			return nil, err
		}
		return &a, nil
	})
}

func (s *ActivityService) Update(ctx context.Context, userID, id string, p models.ActivityUpdate) (*models.Activity, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	repo := s.repomanager.Activities(s.db)
	a, err := owned(ctx, userID, id, repo.Get, activityOwner)
	if err != nil {
		return nil, err
	}
	p.Apply(a, s.now())
	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ActivityService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Activities(s.db)
	if _, err := owned(ctx, userID, id, repo.Get, activityOwner); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
