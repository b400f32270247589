// Package activities stores logged baby events on the server.
package activities

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Activity) error
	Get(ctx context.Context, id string) (*models.Activity, error)
	// List returns the activities of userID, newest first, optionally
	// narrowed to one baby.
	List(ctx context.Context, userID string, f models.ActivityFilter) ([]models.Activity, error)
	Update(ctx context.Context, a *models.Activity) error
	Delete(ctx context.Context, id string) error
	DeleteByBaby(ctx context.Context, babyID string) error
}
