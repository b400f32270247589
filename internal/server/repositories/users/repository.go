// Package users declares the server-side storage contract for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository persists accounts. Lookups return common.ErrorNotFound when
// nothing matches; Create returns common.ErrAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
