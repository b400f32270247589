package reminders

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Repository stores recurring care reminders.
type Repository interface {
	// GetAll lists active reminders, soonest first. An empty babyID means
	// every baby of the owner.
	GetAll(ctx context.Context, ownerID, babyID string) ([]models.Reminder, error)
	// Get returns the reminder whether active or not.
	Get(ctx context.Context, ownerID, id string) (*models.Reminder, error)
	Create(ctx context.Context, ownerID string, in models.ReminderInput) (*models.Reminder, error)
	Update(ctx context.Context, ownerID, id string, p models.ReminderUpdate) (*models.Reminder, error)
	Delete(ctx context.Context, ownerID, id string) error

	// MarkNotified moves next_due forward by one interval.
	MarkNotified(ctx context.Context, ownerID, id string) (*models.Reminder, error)

	Put(ctx context.Context, r models.Reminder) error
	Remove(ctx context.Context, id string) error
}
