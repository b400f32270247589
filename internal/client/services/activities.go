package services

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// ActivityService logs feedings, diapers, sleep and pumping sessions.
type ActivityService interface {
	List(ctx context.Context, ownerID string, f models.ActivityFilter) ([]models.Activity, error)
	Log(ctx context.Context, ownerID string, in models.ActivityInput, opts ...orchestrator.Option) (*models.Activity, orchestrator.Outcome, error)
	Update(ctx context.Context, ownerID, id string, p models.ActivityUpdate, opts ...orchestrator.Option) (*models.Activity, orchestrator.Outcome, error)
	Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error)
}

type activityService struct {
	lc     *local.Context
	stores Stores
	ex     Executor
}

func NewActivityService(lc *local.Context, stores Stores, ex Executor) ActivityService {
	return &activityService{lc: lc, stores: stores, ex: ex}
}

func (s *activityService) List(ctx context.Context, ownerID string, f models.ActivityFilter) ([]models.Activity, error) {
	return s.stores.Activities.GetAll(ctx, ownerID, f)
}

func (s *activityService) Log(ctx context.Context, ownerID string, in models.ActivityInput, opts ...orchestrator.Option) (*models.Activity, orchestrator.Outcome, error) {
	if in.ID == "" {
		in.ID = s.lc.NewID()
	}
	if in.Timestamp == nil {
		// pin the time now so a replay hours later keeps it
		ts := s.lc.Now()
		in.Timestamp = &ts
	}
	repo := s.stores.Activities

	m := orchestrator.Mutation{
		Collection: common.CollectionActivities,
		Op:         orchestrator.OpCreate,
		EntityID:   in.ID,
		Payload:    in,
		Apply: func(ctx context.Context) error {
			_, err := repo.Create(ctx, ownerID, in)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionActivities, orchestrator.OpCreate, in.ID),
		Revert: func(ctx context.Context) error {
			return repo.Delete(ctx, ownerID, in.ID)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Activity, error) {
		return repo.Get(ctx, ownerID, in.ID)
	}, opts...)
}

func (s *activityService) Update(ctx context.Context, ownerID, id string, p models.ActivityUpdate, opts ...orchestrator.Option) (*models.Activity, orchestrator.Outcome, error) {
	repo := s.stores.Activities

	prev, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}
	if err := models.Validate(p); err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionActivities,
		Op:         orchestrator.OpUpdate,
		EntityID:   id,
		Payload:    p,
		Apply: func(ctx context.Context) error {
			_, err := repo.Update(ctx, ownerID, id, p)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionActivities, orchestrator.OpUpdate, id),
		Revert: func(ctx context.Context) error {
			return repo.Put(ctx, *prev)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Activity, error) {
		return repo.Get(ctx, ownerID, id)
	}, opts...)
}

func (s *activityService) Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error) {
	repo := s.stores.Activities

	prev, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionActivities,
		Op:         orchestrator.OpDelete,
		EntityID:   id,
		Apply: func(ctx context.Context) error {
			return repo.Delete(ctx, ownerID, id)
		},
		Revert: func(ctx context.Context) error {
			return repo.Put(ctx, *prev)
		},
	}

	return s.ex.Execute(ctx, m, opts...)
}
