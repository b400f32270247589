// Package models defines the Baby Steps domain entities shared by the
// local store, the REST API and the server repositories, together with the
// explicit input and update structs that enumerate mutable fields.
package models

import "time"

// User is an account. Password holds a bcrypt hash and never leaves the
// process that stores it (see Public).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// RegisterInput may carry a client-generated ID so the local and server
// accounts share one identity.
type RegisterInput struct {
	ID       string `json:"id,omitempty" validate:"omitempty,uuid"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

// MinPasswordLength applies to accounts created through the sign-up flow
// and the server API. The local credential store only requires a password.
const MinPasswordLength = 6

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdate lists the profile fields a user may change.
type UserUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
}

// Apply copies the non-nil name onto u. Password changes need hashing and
// are handled by the owner of the credential store.
func (p UserUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
}

// TokenPair is what the server hands out on login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RefreshToken is a server-stored, single-use refresh credential.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
