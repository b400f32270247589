// Package reminders is the local reminder store of the client.
package reminders

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

type KVRepository struct {
	lc *local.Context
}

var _ Repository = (*KVRepository)(nil)

func NewKVRepository(lc *local.Context) *KVRepository {
	return &KVRepository{lc: lc}
}

func (r *KVRepository) GetAll(ctx context.Context, ownerID, babyID string) ([]models.Reminder, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	result := []models.Reminder{}
	for _, rem := range all {
		if rem.UserID != ownerID || !rem.IsActive {
			continue
		}
		if babyID != "" && rem.BabyID != babyID {
			continue
		}
		result = append(result, rem)
	}
	slices.SortFunc(result, func(a, b models.Reminder) int {
		return cmp.Or(a.NextDue.Compare(b.NextDue), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *KVRepository) Get(ctx context.Context, ownerID, id string) (*models.Reminder, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	rem, err := owned(all, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *KVRepository) Create(ctx context.Context, ownerID string, in models.ReminderInput) (*models.Reminder, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	babies, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	if err != nil {
		return nil, err
	}
	if b, ok := babies[in.BabyID]; !ok || b.UserID != ownerID {
		return nil, fmt.Errorf("%w: baby %s is not yours", common.ErrValidation, in.BabyID)
	}

	all, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = r.lc.NewID()
	}
	if existing, ok := all[id]; ok {
		if existing.UserID != ownerID {
			return nil, common.ErrAuthorization
		}
		return nil, common.ErrAlreadyExists
	}

	rem := in.NewReminder(id, ownerID, r.lc.Now())
	all[id] = rem
	if !local.SaveMap(ctx, r.lc, local.KeyReminders, all) {
		return nil, common.ErrStorage
	}
	return &rem, nil
}

func (r *KVRepository) Update(ctx context.Context, ownerID, id string, p models.ReminderUpdate) (*models.Reminder, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	return r.modify(ctx, ownerID, id, p.Apply)
}

func (r *KVRepository) MarkNotified(ctx context.Context, ownerID, id string) (*models.Reminder, error) {
	return r.modify(ctx, ownerID, id, (*models.Reminder).Reschedule)
}

func (r *KVRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return err
	}
	if _, err := owned(all, ownerID, id); err != nil {
		return err
	}

	delete(all, id)
	if !local.SaveMap(ctx, r.lc, local.KeyReminders, all) {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) Remove(ctx context.Context, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return nil
	}

	delete(all, id)
	if !local.SaveMap(ctx, r.lc, local.KeyReminders, all) {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) Put(ctx context.Context, rem models.Reminder) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return err
	}
	all[rem.ID] = rem
	if !local.SaveMap(ctx, r.lc, local.KeyReminders, all) {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) modify(ctx context.Context, ownerID, id string, fn func(*models.Reminder)) (*models.Reminder, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return nil, err
	}
	rem, err := owned(all, ownerID, id)
	if err != nil {
		return nil, err
	}

	fn(&rem)
	all[id] = rem
	if !local.SaveMap(ctx, r.lc, local.KeyReminders, all) {
		return nil, common.ErrStorage
	}
	return &rem, nil
}

func owned(all map[string]models.Reminder, ownerID, id string) (models.Reminder, error) {
	rem, ok := all[id]
	if !ok {
		return models.Reminder{}, common.ErrorNotFound
	}
	if rem.UserID != ownerID {
		return models.Reminder{}, common.ErrAuthorization
	}
	return rem, nil
}
