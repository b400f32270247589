package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

const (
	testSecret = "test-secret"
	aliceID    = "11111111-1111-4111-8111-111111111111"
	bobID      = "22222222-2222-4222-8222-222222222222"
)

var tokens = models.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}

type fakeUsers struct {
	err error
}

func (f *fakeUsers) Register(_ context.Context, in models.RegisterInput) (*models.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := models.ValidateSignUp(in); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (f *fakeUsers) Login(_ context.Context, in models.LoginInput) (*models.TokenPair, error) {
	if in.Password != "secret1" {
		return nil, common.ErrInvalidCredentials
	}
	return &tokens, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*models.TokenPair, error) {
	if token != "r" {
		return nil, common.ErrInvalidToken
	}
	return &tokens, nil
}

func (f *fakeUsers) Profile(_ context.Context, userID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: userID, Email: "a@x.com", Name: "Alice"}, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, p models.UserUpdate) (*models.User, error) {
	u := &models.User{ID: userID, Email: "a@x.com", Name: "Alice"}
	p.Apply(u)
	return u, nil
}

// fakeBabies keeps babies per id and enforces ownership like the real
// service.
type fakeBabies struct {
	mu     sync.Mutex
	babies map[string]models.Baby
}

func newFakeBabies() *fakeBabies {
	return &fakeBabies{babies: map[string]models.Baby{}}
}

func (f *fakeBabies) owned(userID, id string) (models.Baby, error) {
	b, ok := f.babies[id]
	if !ok {
		return b, common.ErrorNotFound
	}
	if b.UserID != userID {
		return b, common.ErrAuthorization
	}
	return b, nil
}

func (f *fakeBabies) List(_ context.Context, userID string) ([]models.Baby, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Baby{}
	for _, b := range f.babies {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBabies) Get(_ context.Context, userID, id string) (*models.Baby, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := f.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (f *fakeBabies) Create(_ context.Context, userID string, in models.BabyInput) (*models.Baby, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b := in.NewBaby(in.ID, userID, time.Now())
	f.babies[b.ID] = b
	return &b, nil
}

func (f *fakeBabies) Update(_ context.Context, userID, id string, p models.BabyUpdate) (*models.Baby, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := f.owned(userID, id)
	if err != nil {
		return nil, err
	}
	p.Apply(&b, time.Now())
	f.babies[id] = b
	return &b, nil
}

func (f *fakeBabies) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, id); err != nil {
		return err
	}
	delete(f.babies, id)
	return nil
}

// fakeActivities records the filter it was asked for.
type fakeActivities struct {
	filter models.ActivityFilter
}

func (f *fakeActivities) List(_ context.Context, _ string, flt models.ActivityFilter) ([]models.Activity, error) {
	f.filter = flt
	return []models.Activity{}, nil
}

func (f *fakeActivities) Create(_ context.Context, userID string, in models.ActivityInput) (*models.Activity, error) {
	a := in.NewActivity(in.ID, userID, time.Now())
	return &a, nil
}

func (f *fakeActivities) Update(context.Context, string, string, models.ActivityUpdate) (*models.Activity, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeActivities) Delete(context.Context, string, string) error { return nil }

type fakeReminders struct {
	babyID string
}

func (f *fakeReminders) List(_ context.Context, _ string, babyID string) ([]models.Reminder, error) {
	f.babyID = babyID
	return []models.Reminder{}, nil
}

func (f *fakeReminders) Create(_ context.Context, userID string, in models.ReminderInput) (*models.Reminder, error) {
	r := in.NewReminder(in.ID, userID, time.Now())
	return &r, nil
}

func (f *fakeReminders) Update(context.Context, string, string, models.ReminderUpdate) (*models.Reminder, error) {
	return nil, common.ErrAuthorization
}

func (f *fakeReminders) MarkNotified(_ context.Context, userID, id string) (*models.Reminder, error) {
	r := models.Reminder{ID: id, UserID: userID, IntervalHours: 3, IsActive: true,
		NextDue: time.Date(2025, 10, 8, 10, 0, 0, 0, time.UTC)}
	r.Reschedule()
	return &r, nil
}

func (f *fakeReminders) Delete(context.Context, string, string) error { return nil }

type fakeSettings struct{}

func (fakeSettings) Get(context.Context, string) (*models.Settings, error) {
	s := models.DefaultSettings()
	return &s, nil
}

func (fakeSettings) Update(_ context.Context, _ string, p models.SettingsUpdate) (*models.Settings, error) {
	s := models.DefaultSettings()
	p.Apply(&s)
	return &s, nil
}

type fakeBackups struct{}

func (fakeBackups) UploadURL(_ context.Context, userID string) (string, string, error) {
	return "backups/" + userID + "/k", "https://s3.example/put", nil
}

func (fakeBackups) DownloadURL(_ context.Context, userID, key string) (string, error) {
	if key != "backups/"+userID+"/k" {
		return "", common.ErrAuthorization
	}
	return "https://s3.example/get", nil
}
