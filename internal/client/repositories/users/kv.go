// Package users is the local account store of the client.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/babysteps/internal/auth"
	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SessionValidity is how long a local session token stays valid.
const SessionValidity = 30 * 24 * time.Hour

type KVRepository struct {
	lc   *local.Context
	cost int
}

var _ Repository = (*KVRepository)(nil)

func NewKVRepository(lc *local.Context) *KVRepository {
	return &KVRepository{lc: lc, cost: bcrypt.DefaultCost}
}

func (r *KVRepository) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.User](ctx, r.lc, local.KeyUsers)
	if err != nil {
		return nil, err
	}
	if _, ok := all[in.Email]; ok {
		return nil, common.ErrAlreadyExists
	}

	id := in.ID
	if id == "" {
		id = r.lc.NewID()
	}
	if _, _, taken := findByID(all, id); taken {
		return nil, common.ErrAlreadyExists
	}

	u := models.User{
		ID:        id,
		Email:     in.Email,
		Name:      in.Name,
		Password:  string(hash),
		CreatedAt: r.lc.Now(),
	}
	all[u.Email] = u
	if !local.SaveMap(ctx, r.lc, local.KeyUsers, all) {
		return nil, common.ErrStorage
	}

	pub := u.Public()
	return &pub, nil
}

func (r *KVRepository) Login(ctx context.Context, email, password string) (*Session, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.User](ctx, r.lc, local.KeyUsers)
	u, ok := all[email]
	if !ok || u.Password == "" {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	key, err := r.sessionKey(ctx)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(u.ID, u.Email, key, SessionValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	s := Session{User: u.Public(), Token: token}
	if !r.lc.Store.Set(ctx, r.lc.Key(local.KeyCurrentUser), s) {
		return nil, common.ErrStorage
	}
	return &s, nil
}

func (r *KVRepository) Logout(ctx context.Context) {
	r.lc.Lock()
	defer r.lc.Unlock()

	r.lc.Store.Remove(ctx, r.lc.Key(local.KeyCurrentUser))
}

func (r *KVRepository) Current(ctx context.Context) (*Session, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	var s Session
	if !r.lc.Store.Get(ctx, r.lc.Key(local.KeyCurrentUser), &s) {
		return nil, common.ErrorUnauthorized
	}

	key, err := r.sessionKey(ctx)
	if err != nil {
		return nil, err
	}

	claims, err := auth.ParseToken(s.Token, key)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: session expired", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	if claims.UserID != s.User.ID {
		return nil, common.ErrorUnauthorized
	}
	return &s, nil
}

func (r *KVRepository) GetAll(ctx context.Context, ownerID string) ([]models.User, error) {
	r.lc.Lock()
	defer r.lc.Unlock()

	all := local.ReadMap[models.User](ctx, r.lc, local.KeyUsers)
	result := []models.User{}
	for _, u := range all {
		if u.ID == ownerID {
			result = append(result, u.Public())
		}
	}
	return result, nil
}

func (r *KVRepository) Update(ctx context.Context, ownerID, id string, p models.UserUpdate) (*models.User, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}

	var hash []byte
	if p.Password != nil {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(*p.Password), r.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.User](ctx, r.lc, local.KeyUsers)
	if err != nil {
		return nil, err
	}
	email, u, ok := findByID(all, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if u.ID != ownerID {
		return nil, common.ErrAuthorization
	}

	p.Apply(&u)
	if hash != nil {
		u.Password = string(hash)
	}
	all[email] = u

	values := map[string]any{r.lc.Key(local.KeyUsers): all}

	// keep the cached session in step with the profile
	var s Session
	if r.lc.Store.Get(ctx, r.lc.Key(local.KeyCurrentUser), &s) && s.User.ID == u.ID {
		s.User = u.Public()
		values[r.lc.Key(local.KeyCurrentUser)] = s
	}

	if !r.lc.Store.SetMany(ctx, values) {
		return nil, common.ErrStorage
	}

	pub := u.Public()
	return &pub, nil
}

func (r *KVRepository) Put(ctx context.Context, u models.User) error {
	r.lc.Lock()
	defer r.lc.Unlock()

	all, err := local.LoadMap[models.User](ctx, r.lc, local.KeyUsers)
	if err != nil {
		return err
	}

	key := u.Email
	if oldEmail, old, ok := findByID(all, u.ID); ok {
		if u.Password == "" {
			u.Password = old.Password
		}
		// the server folds case; keep the email the user signs in with
		if strings.EqualFold(oldEmail, u.Email) {
			key = oldEmail
			u.Email = old.Email
		}
		delete(all, oldEmail)
	}
	all[key] = u

	if !local.SaveMap(ctx, r.lc, local.KeyUsers, all) {
		return common.ErrStorage
	}
	return nil
}

// sessionKey returns the installation's token signing key, creating it on
// first use. Caller holds the lock.
func (r *KVRepository) sessionKey(ctx context.Context) ([]byte, error) {
	var key string
	found, err := r.lc.Store.Load(ctx, r.lc.Key(local.KeySessionKey), &key)
	if err != nil {
		return nil, err
	}
	if found && key != "" {
		return []byte(key), nil
	}

	key, err = common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	if !r.lc.Store.Set(ctx, r.lc.Key(local.KeySessionKey), key) {
		return nil, common.ErrStorage
	}
	return []byte(key), nil
}

func findByID(all map[string]models.User, id string) (string, models.User, bool) {
	for email, u := range all {
		if u.ID == id {
			return email, u, true
		}
	}
	return "", models.User{}, false
}
