package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/dmitrijs2005/babysteps/internal/server/config"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/activities"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/babies"
	refreshtokensrepo "github.com/dmitrijs2005/babysteps/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/babysteps/internal/server/repositories/settings"
	usersrepo "github.com/dmitrijs2005/babysteps/internal/server/repositories/users"
)

// memStore backs every fake repository with maps. Transactions are not
// modelled; sqlmock supplies BEGIN/COMMIT where a service opens one.
type memStore struct {
	mu         sync.Mutex
	users      map[string]models.User
	tokens     map[string]models.RefreshToken
	babies     map[string]models.Baby
	activities map[string]models.Activity
	reminders  map[string]models.Reminder
	settings   map[string]models.Settings

	// failOn makes the named operation return the error.
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]models.User{},
		tokens:     map[string]models.RefreshToken{},
		babies:     map[string]models.Baby{},
		activities: map[string]models.Activity{},
		reminders:  map[string]models.Reminder{},
		settings:   map[string]models.Settings{},
		failOn:     map[string]error{},
	}
}

func (m *memStore) fail(op string) error { return m.failOn[op] }

func (m *memStore) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository                 { return memUsers{m} }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return memTokens{m} }
func (m *memStore) Babies(dbx.DBTX) babies.Repository                   { return memBabies{m} }
func (m *memStore) Activities(dbx.DBTX) activities.Repository           { return memActivities{m} }
func (m *memStore) Reminders(dbx.DBTX) reminders.Repository             { return memReminders{m} }
func (m *memStore) Settings(dbx.DBTX) settings.Repository               { return memSettings{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("users.create"); err != nil {
		return err
	}
	for _, x := range r.m.users {
		if x.Email == u.Email || x.ID == u.ID {
			return common.ErrAlreadyExists
		}
	}
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		return &u, nil
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	r.m.users[u.ID] = *u
	return nil
}

type memTokens struct{ m *memStore }

func (r memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("tokens.create"); err != nil {
		return err
	}
	r.m.tokens[token] = models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t, ok := r.m.tokens[token]; ok {
		return &t, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.tokens, token)
	return nil
}

func (r memTokens) DeleteByUser(_ context.Context, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for k, t := range r.m.tokens {
		if t.UserID == userID {
			delete(r.m.tokens, k)
		}
	}
	return nil
}

type memBabies struct{ m *memStore }

func (r memBabies) Create(_ context.Context, b *models.Baby) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.babies[b.ID]; ok {
		return common.ErrAlreadyExists
	}
	r.m.babies[b.ID] = *b
	return nil
}

func (r memBabies) Get(_ context.Context, id string) (*models.Baby, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if b, ok := r.m.babies[id]; ok {
		return &b, nil
	}
	return nil, common.ErrorNotFound
}

func (r memBabies) ListByUser(_ context.Context, userID string) ([]models.Baby, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Baby{}
	for _, b := range r.m.babies {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memBabies) Update(_ context.Context, b *models.Baby) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.babies[b.ID]; !ok {
		return common.ErrorNotFound
	}
	r.m.babies[b.ID] = *b
	return nil
}

func (r memBabies) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("babies.delete"); err != nil {
		return err
	}
	if _, ok := r.m.babies[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.babies, id)
	return nil
}

type memActivities struct{ m *memStore }

func (r memActivities) Create(_ context.Context, a *models.Activity) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.activities[a.ID]; ok {
		return common.ErrAlreadyExists
	}
	r.m.activities[a.ID] = *a
	return nil
}

func (r memActivities) Get(_ context.Context, id string) (*models.Activity, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a, ok := r.m.activities[id]; ok {
		return &a, nil
	}
	return nil, common.ErrorNotFound
}

func (r memActivities) List(_ context.Context, userID string, f models.ActivityFilter) ([]models.Activity, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Activity{}
	for _, a := range r.m.activities {
		if a.UserID == userID && (f.BabyID == "" || a.BabyID == f.BabyID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r memActivities) Update(_ context.Context, a *models.Activity) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.activities[a.ID] = *a
	return nil
}

func (r memActivities) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.activities[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.activities, id)
	return nil
}

func (r memActivities) DeleteByBaby(_ context.Context, babyID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, a := range r.m.activities {
		if a.BabyID == babyID {
			delete(r.m.activities, id)
		}
	}
	return nil
}

type memReminders struct{ m *memStore }

func (r memReminders) Create(_ context.Context, rem *models.Reminder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reminders[rem.ID]; ok {
		return common.ErrAlreadyExists
	}
	r.m.reminders[rem.ID] = *rem
	return nil
}

func (r memReminders) Get(_ context.Context, id string) (*models.Reminder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if rem, ok := r.m.reminders[id]; ok {
		return &rem, nil
	}
	return nil, common.ErrorNotFound
}

func (r memReminders) ListActive(_ context.Context, userID, babyID string) ([]models.Reminder, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []models.Reminder{}
	for _, rem := range r.m.reminders {
		if rem.UserID == userID && rem.IsActive && (babyID == "" || rem.BabyID == babyID) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDue.Before(out[j].NextDue) })
	return out, nil
}

func (r memReminders) Update(_ context.Context, rem *models.Reminder) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.reminders[rem.ID] = *rem
	return nil
}

func (r memReminders) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reminders[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.reminders, id)
	return nil
}

func (r memReminders) DeleteByBaby(_ context.Context, babyID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, rem := range r.m.reminders {
		if rem.BabyID == babyID {
			delete(r.m.reminders, id)
		}
	}
	return nil
}

type memSettings struct{ m *memStore }

func (r memSettings) Get(_ context.Context, userID string) (*models.Settings, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.settings[userID]; ok {
		return &s, nil
	}
	return nil, common.ErrorNotFound
}

func (r memSettings) Upsert(_ context.Context, userID string, s *models.Settings) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.fail("settings.upsert"); err != nil {
		return err
	}
	r.m.settings[userID] = *s
	return nil
}

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

var errBoom = errors.New("boom")
