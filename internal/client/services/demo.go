package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// SeedDemo stores the demo parent, Emma and her sample activities directly
// in the local repositories, bypassing the queue: the server seeds the same
// ids itself. It does nothing when the demo account already exists.
func SeedDemo(ctx context.Context, stores Stores, logger logging.Logger) (bool, error) {
	u, err := stores.Users.Register(ctx, models.DemoUser())
	if errors.Is(err, common.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed demo user: %w", err)
	}

	if _, err := stores.Babies.Create(ctx, u.ID, models.DemoBaby()); err != nil {
		return false, fmt.Errorf("seed demo baby: %w", err)
	}
	for _, in := range models.DemoActivities() {
		if _, err := stores.Activities.Create(ctx, u.ID, in); err != nil {
			return false, fmt.Errorf("seed demo activity: %w", err)
		}
	}

	logger.Info(ctx, "demo data created", "email", u.Email)
	return true, nil
}
