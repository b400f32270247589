package api

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Client talks to the Baby Steps server.
type Client interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Profile(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error

	// List issues GET /api/<collection>?<query> and decodes into out.
	List(ctx context.Context, collection string, query url.Values, out any) error
	// Create issues POST /api/<collection>.
	Create(ctx context.Context, collection string, body, out any) error
	// Update issues PUT /api/<collection>/<id>.
	Update(ctx context.Context, collection, id string, body, out any) error
	// Delete issues DELETE /api/<collection>/<id>.
	Delete(ctx context.Context, collection, id string) error

	MarkReminderNotified(ctx context.Context, id string) (*models.Reminder, error)

	BackupUploadURL(ctx context.Context) (key, url string, err error)
	BackupDownloadURL(ctx context.Context, key string) (string, error)

	Tokens() models.TokenPair
	SetTokens(t models.TokenPair)
}
