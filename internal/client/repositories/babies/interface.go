package babies

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository stores baby profiles. Every method is scoped to the acting
// owner; touching another user's baby yields common.ErrAuthorization.
type Repository interface {
	GetAll(ctx context.Context, ownerID string) ([]models.Baby, error)
	Get(ctx context.Context, ownerID, id string) (*models.Baby, error)
	Create(ctx context.Context, ownerID string, in models.BabyInput) (*models.Baby, error)
	Update(ctx context.Context, ownerID, id string, p models.BabyUpdate) (*models.Baby, error)

	// Delete removes the baby together with its activities and reminders in
	// a single write.
	Delete(ctx context.Context, ownerID, id string) error

	// Put stores the server's copy as is.
	Put(ctx context.Context, b models.Baby) error

	// Remove drops the local copy of id and what hangs off it, whoever owns
	// it. A missing id is not an error.
	Remove(ctx context.Context, id string) error
}
