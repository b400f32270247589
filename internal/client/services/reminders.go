package services

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// ReminderService manages recurring reminders.
type ReminderService interface {
	List(ctx context.Context, ownerID, babyID string) ([]models.Reminder, error)
	// Due returns active reminders whose next_due is not after now.
	Due(ctx context.Context, ownerID string) ([]models.Reminder, error)
	Create(ctx context.Context, ownerID string, in models.ReminderInput, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error)
	Update(ctx context.Context, ownerID, id string, p models.ReminderUpdate, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error)
	MarkNotified(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error)
	Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error)
}

type reminderService struct {
	lc     *local.Context
	stores Stores
	ex     Executor
}

func NewReminderService(lc *local.Context, stores Stores, ex Executor) ReminderService {
	return &reminderService{lc: lc, stores: stores, ex: ex}
}

func (s *reminderService) List(ctx context.Context, ownerID, babyID string) ([]models.Reminder, error) {
	return s.stores.Reminders.GetAll(ctx, ownerID, babyID)
}

func (s *reminderService) Due(ctx context.Context, ownerID string) ([]models.Reminder, error) {
	all, err := s.stores.Reminders.GetAll(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	now := s.lc.Now()
	due := []models.Reminder{}
	for _, r := range all {
		if !r.NextDue.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (s *reminderService) Create(ctx context.Context, ownerID string, in models.ReminderInput, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error) {
	if in.ID == "" {
		in.ID = s.lc.NewID()
	}
	repo := s.stores.Reminders

	m := orchestrator.Mutation{
		Collection: common.CollectionReminders,
		Op:         orchestrator.OpCreate,
		EntityID:   in.ID,
		Payload:    in,
		Apply: func(ctx context.Context) error {
			_, err := repo.Create(ctx, ownerID, in)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionReminders, orchestrator.OpCreate, in.ID),
		Revert: func(ctx context.Context) error {
			return repo.Delete(ctx, ownerID, in.ID)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Reminder, error) {
		return repo.Get(ctx, ownerID, in.ID)
	}, opts...)
}

func (s *reminderService) Update(ctx context.Context, ownerID, id string, p models.ReminderUpdate, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error) {
	if err := models.Validate(p); err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}
	return s.modify(ctx, ownerID, id, orchestrator.OpUpdate, p, func(ctx context.Context) error {
		_, err := s.stores.Reminders.Update(ctx, ownerID, id, p)
		return err
	}, opts)
}

func (s *reminderService) MarkNotified(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error) {
	return s.modify(ctx, ownerID, id, orchestrator.OpNotified, nil, func(ctx context.Context) error {
		_, err := s.stores.Reminders.MarkNotified(ctx, ownerID, id)
		return err
	}, opts)
}

func (s *reminderService) Delete(ctx context.Context, ownerID, id string, opts ...orchestrator.Option) (orchestrator.Outcome, error) {
	repo := s.stores.Reminders

	prev, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionReminders,
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

func (s *reminderService) modify(ctx context.Context, ownerID, id string, op orchestrator.Op, payload any, apply func(context.Context) error, opts []orchestrator.Option) (*models.Reminder, orchestrator.Outcome, error) {
	repo := s.stores.Reminders

	prev, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, orchestrator.Outcome{Result: orchestrator.Rejected}, err
	}

	m := orchestrator.Mutation{
		Collection: common.CollectionReminders,
		Op:         op,
		EntityID:   id,
		Payload:    payload,
		Apply:      apply,
		Reconcile:  s.stores.reconcileFor(common.CollectionReminders, op, id),
		Revert: func(ctx context.Context) error {
			return repo.Put(ctx, *prev)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.Reminder, error) {
		return repo.Get(ctx, ownerID, id)
	}, opts...)
}
