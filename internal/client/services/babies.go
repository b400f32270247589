package services

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// BabyService manages baby profiles of the signed-in user.
type BabyService interface {
	List(ctx context.Context, ownerID string) ([]models.Baby, error)
	Create(ctx context.Context, ownerID string, in models.BabyInput, opts ...orchestrator.Option) (*models.Baby, orchestrator.Outcome, error)
	Update(ctx context.Context, ownerID, id string, p models.BabyUpdate, opts ...orchestrator.Option) (*models.Baby, orchestrator.Outcome, error)
	Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error)
}

type babyService struct {
	lc     *local.Context
	stores Stores
	ex     Executor
}

func NewBabyService(lc *local.Context, stores Stores, ex Executor) BabyService {
	return &babyService{lc: lc, stores: stores, ex: ex}
}

func (s *babyService) List(ctx context.Context, ownerID string) ([]models.Baby, error) {
	return s.stores.Babies.GetAll(ctx, ownerID)
}

func (s *babyService) Create(ctx context.Context, ownerID string, in models.BabyInput, opts ...orchestrator.Option) (*models.Baby, orchestrator.Outcome, error) {
	if in.ID == "" {
		in.ID = s.lc.NewID()
	}
	repo := s.stores.Babies

	m := orchestrator.Mutation{
		Collection: common.CollectionBabies,
		Op:         orchestrator.OpCreate,
		EntityID:   in.ID,
		Payload:    in,
		Apply: func(ctx context.Context) error {
			_, err := repo.Create(ctx, ownerID, in)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionBabies, orchestrator.OpCreate, in.ID),
		Revert: func(ctx context.Context) error {
			return repo.Delete(ctx, ownerID, in.ID)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Baby, error) {
		return repo.Get(ctx, ownerID, in.ID)
	}, opts...)
}

func (s *babyService) Update(ctx context.Context, ownerID, id string, p models.BabyUpdate, opts ...orchestrator.Option) (*models.Baby, orchestrator.Outcome, error) {
	repo := s.stores.Babies

	prev, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}
	if err := models.Validate(p); err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionBabies,
		Op:         orchestrator.OpUpdate,
		EntityID:   id,
		Payload:    p,
		Apply: func(ctx context.Context) error {
			_, err := repo.Update(ctx, ownerID, id, p)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionBabies, orchestrator.OpUpdate, id),
		Revert: func(ctx context.Context) error {
			return repo.Put(ctx, *prev)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Baby, error) {
		return repo.Get(ctx, ownerID, id)
	}, opts...)
}

func (s *babyService) Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error) {
	prev, err := s.stores.Babies.Get(ctx, ownerID, id)
	if err != nil {
		return orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}
	acts, _ := s.stores.Activities.GetAll(ctx, ownerID, models.ActivityFilter{BabyID: id})
	rems, _ := s.stores.Reminders.GetAll(ctx, ownerID, id)

	m := orchestrator.Mutation{
		Collection: common.CollectionBabies,
		Op:         orchestrator.OpDelete,
		EntityID:   id,
		Apply: func(ctx context.Context) error {
			return s.stores.Babies.Delete(ctx, ownerID, id)
		},
		Revert: func(ctx context.Context) error {
			if err := s.stores.Babies.Put(ctx, *prev); err != nil {
				return err
			}
			for _, a := range acts {
				if err := s.stores.Activities.Put(ctx, a); err != nil {
					return err
				}
			}
			for _, r := range rems {
				if err := s.stores.Reminders.Put(ctx, r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return s.ex.Execute(ctx, m, opts...)
}
