// Package settings stores per-user application preferences on the server.
package settings

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when userID never saved settings.
	Get(ctx context.Context, userID string) (*models.Settings, error)
	Upsert(ctx context.Context, userID string, s *models.Settings) error
}
