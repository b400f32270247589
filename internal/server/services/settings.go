package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/repomanager"
)

type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{db: db, repomanager: m}
}

// Get returns the stored settings or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.Settings, error) {
	st, err := s.repomanager.Settings(s.db).Get(ctx, userID)
	if errors.Is(err, common.ErrorNotFound) {
		d := models.DefaultSettings()
		return &d, nil
	}
	return st, err
}

func (s *SettingsService) Update(ctx context.Context, userID string, p models.SettingsUpdate) (*models.Settings, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	st, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Apply(st)
	if err := s.repomanager.Settings(s.db).Upsert(ctx, userID, st); err != nil {
		return nil, err
	}
	return st, nil
}
