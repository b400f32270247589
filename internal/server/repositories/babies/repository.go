// Package babies stores baby profiles on the server.
package babies

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository is id-addressed; ownership checks belong to the caller so it
// can tell a missing row from a foreign one.
type Repository interface {
	Create(ctx context.Context, baby *models.Baby) error
	Get(ctx context.Context, id string) (*models.Baby, error)
	ListByUser(ctx context.Context, userID string) ([]models.Baby, error)
	Update(ctx context.Context, baby *models.Baby) error
	Delete(ctx context.Context, id string) error
}
