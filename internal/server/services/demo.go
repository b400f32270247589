package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// SeedDemo creates the demo parent with Emma and her sample activities
// unless the demo account already exists. It reports whether it seeded.
func (s *UserService) SeedDemo(ctx context.Context) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, models.DemoEmail)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, common.ErrorNotFound):
		return false, err
	}

	user, err := s.newUser(models.DemoUser())
	if err != nil {
		return false, err
	}
	now := s.now()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		baby := models.DemoBaby()
		b := baby.NewBaby(baby.ID, user.ID, now)
		if err := s.repomanager.Babies(tx).Create(ctx, &b); err != nil {
			return err
		}
		for _, in := range models.DemoActivities() {
			a := in.NewActivity(in.ID, user.ID, now)
			if err := s.repomanager.Activities(tx).Create(ctx, &a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
