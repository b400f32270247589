package settings

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository keeps one settings record per user.
type Repository interface {
	// Get returns the owner's settings, creating and storing the defaults on
	// first read.
	Get(ctx context.Context, ownerID string) (*models.Settings, error)
	Update(ctx context.Context, ownerID string, p models.SettingsUpdate) (*models.Settings, error)
	Put(ctx context.Context, ownerID string, s models.Settings) error
}
