// Package activities is the local activity log of the client.
package activities

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

func (r *KVRepository) GetAll(ctx context.Context, ownerID string, f models.ActivityFilter) ([]models.Activity, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	result := []models.Activity{}
	for _, a := range all {
		if a.UserID != ownerID {
			continue
		}
		if f.BabyID != "" && a.BabyID != f.BabyID {
			continue
		}
		result = append(result, a)
	}
	slices.SortFunc(result, func(a, b models.Activity) int {
		return cmp.Or(b.Timestamp.Compare(a.Timestamp), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

func (r *KVRepository) Get(ctx context.Context, ownerID, id string) (*models.Activity, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	a, ok := all[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if a.UserID != ownerID {
		return nil, common.ErrAuthorization
	}
	return &a, nil
}

func (r *KVRepository) Create(ctx context.Context, ownerID string, in models.ActivityInput) (*models.Activity, error) {
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

	all, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
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

	a := in.NewActivity(id, ownerID, r.lc.Now())
	all[id] = a
	if !local.SaveMap(ctx, r.lc, local.KeyActivities, all) {
		return nil, common.ErrStorage
	}
	return &a, nil
}

func (r *KVRepository) Update(ctx context.Context, ownerID, id string, p models.ActivityUpdate) (*models.Activity, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	if err != nil {
		return nil, err
	}
	a, ok := all[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if a.UserID != ownerID {
		return nil, common.ErrAuthorization
	}

	p.Apply(&a, r.lc.Now())
	all[id] = a
	if !local.SaveMap(ctx, r.lc, local.KeyActivities, all) {
		return nil, common.ErrStorage
	}
	return &a, nil
}

func (r *KVRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	if err != nil {
		return err
	}
	a, ok := all[id]
	if !ok {
		return common.ErrorNotFound
	}
	if a.UserID != ownerID {
		return common.ErrAuthorization
	}

	delete(all, id)
	if !local.SaveMap(ctx, r.lc, local.KeyActivities, all) {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) Remove(ctx context.Context, id string) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return nil
	}

	delete(all, id)
	if !local.SaveMap(ctx, r.lc, local.KeyActivities, all) {
		return common.ErrStorage
	}
	return nil
}

func (r *KVRepository) Put(ctx context.Context, a models.Activity) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Activity](ctx, r.lc, local.KeyActivities)
	if err != nil {
		return err
	}
	all[a.ID] = a
	if !local.SaveMap(ctx, r.lc, local.KeyActivities, all) {
		return common.ErrStorage
	}
	return nil
}
