package services

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// SettingsService reads and changes the per-user preferences.
type SettingsService interface {
	Get(ctx context.Context, ownerID string) (*models.Settings, error)
	Update(ctx context.Context, ownerID string, p models.SettingsUpdate, opts ...orchestrator.Option) (*models.Settings, orchestrator.Outcome, error)
}

type settingsService struct {
	stores Stores
	ex     Executor
}

func NewSettingsService(stores Stores, ex Executor) SettingsService {
	return &settingsService{stores: stores, ex: ex}
}

func (s *settingsService) Get(ctx context.Context, ownerID string) (*models.Settings, error) {
	return s.stores.Settings.Get(ctx, ownerID)
}

func (s *settingsService) Update(ctx context.Context, ownerID string, p models.SettingsUpdate, opts ...orchestrator.Option) (*models.Settings, orchestrator.Outcome, error) {
	if err := models.Validate(p); err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}
	repo := s.stores.Settings

	prev, err := repo.Get(ctx, ownerID)
	if err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionSettings,
		Op:         orchestrator.OpUpdate,
		EntityID:   ownerID,
		Payload:    p,
		Apply: func(ctx context.Context) error {
			_, err := repo.Update(ctx, ownerID, p)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionSettings, orchestrator.OpUpdate, ownerID),
		Revert: func(ctx context.Context) error {
			return repo.Put(ctx, ownerID, *prev)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Settings, error) {
		return repo.Get(ctx, ownerID)
	}, opts...)
}
