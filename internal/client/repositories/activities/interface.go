package activities

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository stores logged activities.
type Repository interface {
	// GetAll returns the owner's activities matching f, newest first.
	GetAll(ctx context.Context, ownerID string, f models.ActivityFilter) ([]models.Activity, error)

	Get(ctx context.Context, ownerID, id string) (*models.Activity, error)

	// Create fails with common.ErrValidation unless in.BabyID names a baby
	// owned by ownerID.
	Create(ctx context.Context, ownerID string, in models.ActivityInput) (*models.Activity, error)

	Update(ctx context.Context, ownerID, id string, p models.ActivityUpdate) (*models.Activity, error)
	Delete(ctx context.Context, ownerID, id string) error
	Put(ctx context.Context, a models.Activity) error
	// Remove drops the local copy of id whoever owns it.
	Remove(ctx context.Context, id string) error
}
