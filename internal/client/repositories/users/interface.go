package users

import (
	"context"

	"github.com/dmitrijs2005/babysteps/internal/models"
)

// Session is the authenticated user plus the signed token proving it.
type Session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Repository manages local accounts and the current session.
type Repository interface {
	// Register validates in, hashes the password and stores a new user.
	// A taken email yields common.ErrAlreadyExists.
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)

	// Login checks credentials and makes the user current. Unknown email or
	// wrong password yields common.ErrInvalidCredentials and no session.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout forgets the current session.
	Logout(ctx context.Context)

	// Current returns the session whose token still verifies, or
	// common.ErrorUnauthorized.
	Current(ctx context.Context) (*Session, error)

	// GetAll lists the users ownerID may see, which is only itself.
	GetAll(ctx context.Context, ownerID string) ([]models.User, error)

	// Update changes the profile of id. ownerID must equal id.
	Update(ctx context.Context, ownerID, id string, p models.UserUpdate) (*models.User, error)

	// Put stores the server's copy of a user, keeping the local password
	// hash when the copy carries none.
	Put(ctx context.Context, u models.User) error
}
