// Package settings is the local per-user settings store of the client.
package settings

import (
	"context"

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

func (r *KVRepository) Get(ctx context.Context, ownerID string) (*models.Settings, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Settings](ctx, r.lc, local.KeySettings)
	if err != nil {
		// unreadable store: hand out defaults without overwriting it
		s := models.DefaultSettings()
		return &s, nil
	}
	s, ok := all[ownerID]
	if !ok {
		s = models.DefaultSettings()
		all[ownerID] = s
		// a failed write still hands out the defaults
		if !local.SaveMap(ctx, r.lc, local.KeySettings, all) {
			r.lc.Logger.Warn(ctx, "default settings not persisted", "user_id", ownerID)
		}
	}
	return &s, nil
}

func (r *KVRepository) Update(ctx context.Context, ownerID string, p models.SettingsUpdate) (*models.Settings, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Settings](ctx, r.lc, local.KeySettings)
	if err != nil {
		return nil, err
	}
	s, ok := all[ownerID]
	if !ok {
		s = models.DefaultSettings()
	}

	p.Apply(&s)
	all[ownerID] = s
	if !local.SaveMap(ctx, r.lc, local.KeySettings, all) {
		return nil, common.ErrStorage
	}
	return &s, nil
}

func (r *KVRepository) Put(ctx context.Context, ownerID string, s models.Settings) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.Settings](ctx, r.lc, local.KeySettings)
	if err != nil {
		return err
	}
	all[ownerID] = s
	if !local.SaveMap(ctx, r.lc, local.KeySettings, all) {
		return common.ErrStorage
	}
	return nil
}
