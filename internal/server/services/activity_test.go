package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBaby(t *testing.T, s *BabyService, userID string) *models.Baby {
	t.Helper()
	b, err := s.Create(context.Background(), userID, models.BabyInput{Name: "Emma", BirthDate: "2024-01-15"})
	require.NoError(t, err)
	return b
}

func TestActivityService_CreateAndList(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	s := NewActivityService(db, store)
	b := newBaby(t, NewBabyService(db, store), "u1")
	ctx := context.Background()

	t0 := time.Date(2025, 10, 8, 10, 0, 0, 0, time.UTC)
	for i, typ := range []models.ActivityType{models.ActivityFeeding, models.ActivitySleep, models.ActivityDiaper} {
		ts := t0.Add(time.Duration(i) * time.Hour)
		_, err := s.Create(ctx, "u1", models.ActivityInput{BabyID: b.ID, Type: typ, Timestamp: &ts})
		require.NoError(t, err)
	}

	list, err := s.List(ctx, "u1", models.ActivityFilter{BabyID: b.ID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, models.ActivityDiaper, list[0].Type)
	assert.Equal(t, models.ActivityFeeding, list[2].Type)

	_, err = s.List(ctx, "u2", models.ActivityFilter{BabyID: b.ID})
	assert.ErrorIs(t, err, common.ErrAuthorization)
}

func TestActivityService_CreateChecksBaby(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	s := NewActivityService(db, store)
	b := newBaby(t, NewBabyService(db, store), "u1")
	ctx := context.Background()

	_, err := s.Create(ctx, "u2", models.ActivityInput{BabyID: b.ID, Type: models.ActivityFeeding})
	assert.ErrorIs(t, err, common.ErrValidation)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "baby_id")

	_, err = s.Create(ctx, "u1", models.ActivityInput{BabyID: uuid.NewString(), Type: models.ActivityFeeding})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(ctx, "u1", models.ActivityInput{BabyID: b.ID, Type: "bath"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, store.activities)
}

func TestActivityService_ReplayedCreate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	s := NewActivityService(db, store)
	b := newBaby(t, NewBabyService(db, store), "u1")
	ctx := context.Background()

	in := models.ActivityInput{ID: uuid.NewString(), BabyID: b.ID, Type: models.ActivityFeeding}
	first, err := s.Create(ctx, "u1", in)
	require.NoError(t, err)
	again, err := s.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, store.activities, 1)
}

func TestActivityService_UpdateDelete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	s := NewActivityService(db, store)
	b := newBaby(t, NewBabyService(db, store), "u1")
	ctx := context.Background()

	a, err := s.Create(ctx, "u1", models.ActivityInput{BabyID: b.ID, Type: models.ActivityFeeding})
	require.NoError(t, err)

	amount := 120.0
	got, err := s.Update(ctx, "u1", a.ID, models.ActivityUpdate{Amount: &amount, Notes: strp("bottle")})
	require.NoError(t, err)
	assert.Equal(t, 120.0, *got.Amount)
	assert.Equal(t, "bottle", got.Notes)

	_, err = s.Update(ctx, "u2", a.ID, models.ActivityUpdate{Notes: strp("x")})
	assert.ErrorIs(t, err, common.ErrAuthorization)

	assert.ErrorIs(t, s.Delete(ctx, "u2", a.ID), common.ErrAuthorization)
	require.NoError(t, s.Delete(ctx, "u1", a.ID))
	assert.ErrorIs(t, s.Delete(ctx, "u1", a.ID), common.ErrorNotFound)
}
