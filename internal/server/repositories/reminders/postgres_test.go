package reminders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var cols = []string{"id", "baby_id", "user_id", "title", "reminder_type", "interval_hours", "next_due", "is_active", "created_at"}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+reminders\s*\(id,.*\)\s*VALUES\s*\(\$1,.*\$9\)\s*$`
	due := time.Date(2025, 10, 8, 10, 0, 0, 0, time.UTC)
	rem := &models.Reminder{ID: "r1", BabyID: "b1", UserID: "u1", Title: "Feed", ReminderType: "feeding", IntervalHours: 3, NextDue: due, IsActive: true, CreatedAt: due}

	mock.ExpectExec(q).
		WithArgs("r1", "b1", "u1", "Feed", "feeding", 3, due, true, due).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), rem); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := repo.Create(context.Background(), rem); !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want common.ErrAlreadyExists, got %v", err)
	}
}

func TestGetReturnsInactive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+reminders\s+WHERE\s+id\s*=\s*\$1$`
	now := time.Now().UTC()

	mock.ExpectQuery(q).WithArgs("r1").WillReturnRows(sqlmock.NewRows(cols).
		AddRow("r1", "b1", "u1", "Vitamin D", "medicine", int64(24), now, false, now))
	mock.ExpectQuery(q).WithArgs("r2").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.IsActive || got.IntervalHours != 24 || got.Title != "Vitamin D" {
		t.Fatalf("unexpected reminder: %+v", got)
	}
	if _, err := repo.Get(context.Background(), "r2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	all := `(?s)^SELECT\s+id,.*FROM\s+reminders\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_active\s+ORDER\s+BY\s+next_due$`
	byBaby := `(?s)^SELECT\s+id,.*FROM\s+reminders\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+is_active\s+AND\s+baby_id\s*=\s*\$2\s+ORDER\s+BY\s+next_due$`
	now := time.Now().UTC()

	mock.ExpectQuery(all).WithArgs("u1").WillReturnRows(sqlmock.NewRows(cols).
		AddRow("r1", "b1", "u1", "Feed", "feeding", int64(3), now, true, now))
	mock.ExpectQuery(byBaby).WithArgs("u1", "b9").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.ListActive(context.Background(), "u1", "")
	if err != nil || len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("unexpected list: %+v, %v", got, err)
	}
	got, err = repo.ListActive(context.Background(), "u1", "b9")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("want empty list, got %+v, %v", got, err)
	}
}

func TestUpdateDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	uq := `(?s)^\s*UPDATE\s+reminders\s+SET\s+title\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*$`
	due := time.Now().UTC()
	rem := &models.Reminder{ID: "r1", Title: "Feed", IntervalHours: 3, NextDue: due}

	mock.ExpectExec(uq).WithArgs("r1", "Feed", "", 3, due, false).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM reminders WHERE id = \$1`).WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM reminders WHERE baby_id = \$1`).WithArgs("b1").WillReturnError(errors.New("db err"))

	if err := repo.Update(context.Background(), rem); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.DeleteByBaby(context.Background(), "b1"); err == nil {
		t.Fatalf("expected error")
	}
}
