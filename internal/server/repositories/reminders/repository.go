// Package reminders stores recurring care reminders on the server.
package reminders

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Reminder) error
	// Get returns the reminder whether or not it is active.
	Get(ctx context.Context, id string) (*models.Reminder, error)
	// ListActive returns active reminders of userID ordered by next_due,
	// optionally narrowed to one baby.
	ListActive(ctx context.Context, userID, babyID string) ([]models.Reminder, error)
	Update(ctx context.Context, r *models.Reminder) error
	Delete(ctx context.Context, id string) error
	DeleteByBaby(ctx context.Context, babyID string) error
}
