package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBabyService_CreateIsIdempotent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	store := newMemStore()
	s := NewBabyService(db, store)
	ctx := context.Background()

	in := models.BabyInput{ID: uuid.NewString(), Name: "Emma", BirthDate: "2024-01-15", Gender: models.GenderGirl}
	first, err := s.Create(ctx, "u1", in)
	require.NoError(t, err)

	in.Name = "Renamed in a replay"
	again, err := s.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, first, again, "a replayed create returns the stored baby")
	assert.Len(t, store.babies, 1)

	_, err = s.Create(ctx, "u2", in)
	assert.ErrorIs(t, err, common.ErrAuthorization, "an id owned by someone else")

	generated, err := s.Create(ctx, "u1", models.BabyInput{Name: "Liam", BirthDate: "2024-06-01"})
	require.NoError(t, err)
	_, err = uuid.Parse(generated.ID)
	assert.NoError(t, err)
}

func TestBabyService_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewBabyService(db, newMemStore())

	_, err := s.Create(context.Background(), "u1", models.BabyInput{Name: "", BirthDate: "15/01/2024"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "birth_date")
}

func TestBabyService_Ownership(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewBabyService(db, newMemStore())
	ctx := context.Background()

	b, err := s.Create(ctx, "u1", models.BabyInput{Name: "Emma", BirthDate: "2024-01-15"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "u2", b.ID)
	assert.ErrorIs(t, err, common.ErrAuthorization)
	_, err = s.Update(ctx, "u2", b.ID, models.BabyUpdate{Name: strp("Mine")})
	assert.ErrorIs(t, err, common.ErrAuthorization)
	assert.ErrorIs(t, s.Delete(ctx, "u2", b.ID), common.ErrAuthorization)

	_, err = s.Get(ctx, "u1", uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Get(ctx, "u1", "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := s.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBabyService_Update(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewBabyService(db, newMemStore())
	ctx := context.Background()

	b, err := s.Create(ctx, "u1", models.BabyInput{Name: "Emma", BirthDate: "2024-01-15"})
	require.NoError(t, err)

	w := 3.6
	got, err := s.Update(ctx, "u1", b.ID, models.BabyUpdate{BirthWeight: &w})
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Name)
	assert.Equal(t, 3.6, *got.BirthWeight)
	assert.False(t, got.UpdatedAt.Before(b.UpdatedAt))

	stored, err := s.Get(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

// Deleting B1 removes A1 and A2 and leaves B2 with A3.
func TestBabyService_DeleteCascades(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	store := newMemStore()
	babies := NewBabyService(db, store)
	acts := NewActivityService(db, store)
	rems := NewReminderService(db, store)
	ctx := context.Background()

	b1, err := babies.Create(ctx, "u1", models.BabyInput{Name: "B1", BirthDate: "2024-01-01"})
	require.NoError(t, err)
	b2, err := babies.Create(ctx, "u1", models.BabyInput{Name: "B2", BirthDate: "2024-02-02"})
	require.NoError(t, err)

	for _, babyID := range []string{b1.ID, b1.ID, b2.ID} {
		_, err := acts.Create(ctx, "u1", models.ActivityInput{BabyID: babyID, Type: models.ActivityDiaper})
		require.NoError(t, err)
	}
	_, err = rems.Create(ctx, "u1", models.ReminderInput{BabyID: b1.ID, Title: "Feed"})
	require.NoError(t, err)

	require.NoError(t, babies.Delete(ctx, "u1", b1.ID))

	left, err := babies.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b2.ID, left[0].ID)

	all, err := acts.List(ctx, "u1", models.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b2.ID, all[0].BabyID)
	assert.Empty(t, store.reminders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBabyService_DeleteRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	store := newMemStore()
	s := NewBabyService(db, store)
	ctx := context.Background()

	b, err := s.Create(ctx, "u1", models.BabyInput{Name: "Emma", BirthDate: "2024-01-15"})
	require.NoError(t, err)
	store.failOn["babies.delete"] = errBoom

	assert.ErrorIs(t, s.Delete(ctx, "u1", b.ID), errBoom)
	require.NoError(t, mock.ExpectationsWereMet())
}
