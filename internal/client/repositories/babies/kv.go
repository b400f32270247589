// Package babies is the local baby profile store of the client.
package babies

import (
	"cmp"
	"context"
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

func (r *KVRepository) GetAll(ctx context.Context, ownerID string) ([]models.Baby, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	result := []models.Baby{}
	for _, b := range all {
		if b.UserID == ownerID {
			result = append(result, b)
		}
	}
	slices.SortFunc(result, func(a, b models.Baby) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *KVRepository) Get(ctx context.Context, ownerID, id string) (*models.Baby, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	b, err := owned(all, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *KVRepository) Create(ctx context.Context, ownerID string, in models.BabyInput) (*models.Baby, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
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

	b := in.NewBaby(id, ownerID, r.lc.Now())
	all[id] = b
	if !local.SaveMap(ctx, r.lc, local.KeyBabies, all) {
		return nil, common.ErrStorage
	}
	return &b, nil
}

func (r *KVRepository) Update(ctx context.Context, ownerID, id string, p models.BabyUpdate) (*models.Baby, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	if err != nil {
		return nil, err
	}
	b, err := owned(all, ownerID, id)
	if err != nil {
		return nil, err
	}

	p.Apply(&b, r.lc.Now())
	all[id] = b
	if !local.SaveMap(ctx, r.lc, local.KeyBabies, all) {
		return nil, common.ErrStorage
	}
	return &b, nil
}

func (r *KVRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	if err != nil {
		return err
	}
	if _, err := owned(all, ownerID, id); err != nil {
		return err
	}
	return r.cascade(ctx, all, id)
}

func (r *KVRepository) Remove(ctx context.Context, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return nil
	}
	return r.cascade(ctx, all, id)
}

// cascade drops baby id with its activities and reminders in one write.
// Caller holds the lock.
func (r *KVRepository) cascade(ctx context.Context, all map[string]models.Baby, id string) error {
	delete(all, id)

	activities, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	if err != nil {
		return err
	}
	for k, a := range activities {
		if a.BabyID == id {
			delete(activities, k)
		}
	}

	reminders, err := local.LoadMap[models.Reminder](ctx, r.lc, local.KeyReminders)
	if err != nil {
		return err
	}
	for k, rem := range reminders {
		if rem.BabyID == id {
			delete(reminders, k)
		}
	}

	ok := r.lc.Store.SetMany(ctx, map[string]any{
		r.lc.Key(local.KeyBabies):     all,
		r.lc.Key(local.KeyActivities): activities,
		r.lc.Key(local.KeyReminders):  reminders,
	})
	if !ok {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) Put(ctx context.Context, b models.Baby) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Baby](ctx, r.lc, local.KeyBabies)
	if err != nil {
		return err
	}
	all[b.ID] = b
	if !local.SaveMap(ctx, r.lc, local.KeyBabies, all) {
		return common.ErrStorage
	}
	return nil
}

func owned(all map[string]models.Baby, ownerID, id string) (models.Baby, error) {
	b, ok := all[id]
	if !ok {
		return models.Baby{}, common.ErrorNotFound
	}
	if b.UserID != ownerID {
		return models.Baby{}, common.ErrAuthorization
	}
	return b, nil
}
