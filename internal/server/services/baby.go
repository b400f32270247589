package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BabyService manages baby profiles. Every operation is scoped to the
// calling user; touching someone else's baby gives common.ErrAuthorization.
type BabyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewBabyService(db *sql.DB, m repomanager.RepositoryManager) *BabyService {
	return &BabyService{db: db, repomanager: m, now: func() time.Time { return time.Now().UTC() }}
}

func babyOwner(b *models.Baby) string { return b.UserID }

// requireBaby checks that babyID names one of userID's babies. A missing or
// foreign baby is a bad baby_id, the same answer the client gives offline.
func requireBaby(ctx context.Context, userID, babyID string, get func(context.Context, string) (*models.Baby, error)) error {
	_, err := owned(ctx, userID, babyID, get, babyOwner)
	if errors.Is(err, common.ErrAuthorization) || errors.Is(err, common.ErrorNotFound) {
		return &models.ValidationError{Fields: map[string]string{"baby_id": "unknown baby"}}
	}
	return err
}

func (s *BabyService) List(ctx context.Context, userID string) ([]models.Baby, error) {
	return s.repomanager.Babies(s.db).ListByUser(ctx, userID)
}

func (s *BabyService) Get(ctx context.Context, userID, id string) (*models.Baby, error) {
	return owned(ctx, userID, id, s.repomanager.Babies(s.db).Get, babyOwner)
}

// Create is idempotent on in.ID: replaying a create returns the stored baby.
func (s *BabyService) Create(ctx context.Context, userID string, in models.BabyInput) (*models.Baby, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Babies(s.db)
	return createOnce(ctx, userID, in.ID, repo.Get, babyOwner, func(ctx context.Context) (*models.Baby, error) {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		b := in.NewBaby(id, userID, s.now())
		if err := repo.Create(ctx, &b); err != nil {
			return nil, err
		}
		return &b, nil
	})
}

func (s *BabyService) Update(ctx context.Context, userID, id string, p models.BabyUpdate) (*models.Baby, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	repo := s.repomanager.Babies(s.db)
	b, err := owned(ctx, userID, id, repo.Get, babyOwner)
	if err != nil {
		return nil, err
	}
	p.Apply(b, s.now())
	if err := repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the baby with its activities and reminders in one
// transaction.
func (s *BabyService) Delete(ctx context.Context, userID, id string) error {
	if _, err := owned(ctx, userID, id, s.repomanager.Babies(s.db).Get, babyOwner); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Activities(tx).DeleteByBaby(ctx, id); err != nil {
			return err
		}
		if err := s.repomanager.Reminders(tx).DeleteByBaby(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Babies(tx).Delete(ctx, id)
	})
}
