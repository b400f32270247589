package settings

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+theme,\s*notifications,\s*language,\s*units\s+FROM\s+settings\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(
		sqlmock.NewRows([]string{"theme", "notifications", "language", "units"}).AddRow("dark", false, "lv", "imperial"))
	mock.ExpectQuery(q).WithArgs("u2").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := models.Settings{Theme: "dark", Notifications: false, Language: "lv", Units: "imperial"}
	if *got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if _, err := repo.Get(context.Background(), "u2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+settings\b.*ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE\s+SET\b.*$`
	s := models.DefaultSettings()

	mock.ExpectExec(q).WithArgs("u1", "light", true, "en", "metric").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnError(errors.New("db down"))

	if err := repo.Upsert(context.Background(), "u1", &s); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	err := repo.Upsert(context.Background(), "u1", &s)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
