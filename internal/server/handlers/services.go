package handlers

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// The handlers depend on these narrow views of internal/server/services so
// routes can be tested without a database.

type UserService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.TokenPair, error)
	Login(ctx context.Context, in models.LoginInput) (*models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, p models.UserUpdate) (*models.User, error)
}

type BabyService interface {
	List(ctx context.Context, userID string) ([]models.Baby, error)
	Get(ctx context.Context, userID, id string) (*models.Baby, error)
	Create(ctx context.Context, userID string, in models.BabyInput) (*models.Baby, error)
	Update(ctx context.Context, userID, id string, p models.BabyUpdate) (*models.Baby, error)
	Delete(ctx context.Context, userID, id string) error
}

type ActivityService interface {
	List(ctx context.Context, userID string, f models.ActivityFilter) ([]models.Activity, error)
	Create(ctx context.Context, userID string, in models.ActivityInput) (*models.Activity, error)
	Update(ctx context.Context, userID, id string, p models.ActivityUpdate) (*models.Activity, error)
	Delete(ctx context.Context, userID, id string) error
}

type ReminderService interface {
	List(ctx context.Context, userID, babyID string) ([]models.Reminder, error)
	Create(ctx context.Context, userID string, in models.ReminderInput) (*models.Reminder, error)
	Update(ctx context.Context, userID, id string, p models.ReminderUpdate) (*models.Reminder, error)
	MarkNotified(ctx context.Context, userID, id string) (*models.Reminder, error)
	Delete(ctx context.Context, userID, id string) error
}

type SettingsService interface {
	Get(ctx context.Context, userID string) (*models.Settings, error)
	Update(ctx context.Context, userID string, p models.SettingsUpdate) (*models.Settings, error)
}

type BackupService interface {
	UploadURL(ctx context.Context, userID string) (string, string, error)
	DownloadURL(ctx context.Context, userID, key string) (string, error)
}

// Services bundles everything the router serves.
type Services struct {
	Users      UserService
	Babies     BabyService
	Activities ActivityService
	Reminders  ReminderService
	Settings   SettingsService
	Backups    BackupService
}
