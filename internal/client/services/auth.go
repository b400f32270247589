package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/local"
	"github.com/dmitrijs2005/babysteps/internal/client/netmon"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/client/repositories/users"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// AuthService signs users in locally first and keeps the server session in
// step whenever the network allows.
type AuthService struct {
	lc      *local.Context
	stores  Stores
	client  api.Client
	network orchestrator.Network
	ex      Executor
	logger  logging.Logger
}

func NewAuthService(lc *local.Context, stores Stores, client api.Client, network orchestrator.Network, ex Executor, logger logging.Logger) *AuthService {
	return &AuthService{
		lc:      lc,
		stores:  stores,
		client:  client,
		network: network,
		ex:      ex,
		logger:  logger.With("module", "auth"),
	}
}

// Register creates the account on the server when reachable, then locally
// under the same id, and signs it in. A server that cannot be reached does
// not block registration; the next online login creates the remote account.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*users.Session, error) {
	if err := models.ValidateSignUp(in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		in.ID = s.lc.NewID()
	}

	if s.network.Online() {
		_, err := s.client.Register(ctx, in)
		switch {
		case err == nil:
		case errors.Is(err, api.ErrConflict):
			return nil, common.ErrAlreadyExists
		case api.IsTransient(err):
			s.network.ReportFailure(ctx)
			s.logger.Warn(ctx, "server unreachable, registering offline", "error", err)
		case errors.Is(err, api.ErrRejected):
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
		default:
			return nil, err
		}
	}

	if _, err := s.stores.Users.Register(ctx, in); err != nil {
		return nil, err
	}
	return s.stores.Users.Login(ctx, in.Email, in.Password)
}

// Login checks the local credential store. When the device does not know
// the credentials but the server does, the account is adopted locally.
func (s *AuthService) Login(ctx context.Context, email, password string) (*users.Session, error) {
	sess, err := s.stores.Users.Login(ctx, email, password)
	if err != nil {
		if !errors.Is(err, common.ErrInvalidCredentials) || !s.network.Online() {
			return nil, err
		}
		if aerr := s.adopt(ctx, email, password); aerr != nil {
			s.logger.Debug(ctx, "remote login failed", "error", aerr)
			if api.IsTransient(aerr) {
				s.network.ReportFailure(ctx)
			}
			return nil, err
		}
		return s.stores.Users.Login(ctx, email, password)
	}

	if s.network.Online() {
		s.connect(ctx, sess.User, password)
	}
	return sess, nil
}

// adopt signs in remotely and copies the server account into the local
// store, replacing a stale local password.
func (s *AuthService) adopt(ctx context.Context, email, password string) error {
	if _, err := s.client.Login(ctx, email, password); err != nil {
		return err
	}
	u, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}

	in := models.RegisterInput{ID: u.ID, Email: u.Email, Password: password, Name: u.Name}
	_, err = s.stores.Users.Register(ctx, in)
	if !errors.Is(err, common.ErrAlreadyExists) {
		return err
	}

	if err := s.stores.Users.Put(ctx, u.Public()); err != nil {
		return err
	}
	_, err = s.stores.Users.Update(ctx, u.ID, u.ID, models.UserUpdate{Password: &password})
	return err
}

// connect obtains server tokens for a locally signed-in user. An account
// that only exists on this device is registered remotely under its local id.
func (s *AuthService) connect(ctx context.Context, u models.User, password string) {
	_, err := s.client.Login(ctx, u.Email, password)
	if errors.Is(err, api.ErrUnauthorized) {
		_, err = s.client.Register(ctx, models.RegisterInput{ID: u.ID, Email: u.Email, Password: password, Name: u.Name})
	}
	if err == nil {
		return
	}

	if api.IsTransient(err) {
		s.network.ReportFailure(ctx)
	}
	s.logger.Warn(ctx, "server sign-in failed, continuing offline", "error", err)
}

// Logout forgets the local session and the server tokens.
func (s *AuthService) Logout(ctx context.Context) {
	s.stores.Users.Logout(ctx)
	s.client.SetTokens(models.TokenPair{})
}

func (s *AuthService) Current(ctx context.Context) (*users.Session, error) {
	return s.stores.Users.Current(ctx)
}

// UpdateProfile changes the user's name through the orchestrator. A new
// password is never queued: it goes straight to the server and fails with
// netmon.ErrOffline when there is none.
func (s *AuthService) UpdateProfile(ctx context.Context, ownerID string, p models.UserUpdate, opts ...orchestrator.Option) (*models.User, orchestrator.Outcome, error) {
	rejected := orchestrator.Outcome{Result: orchestrator.Rejected}
	if err := models.ValidatePasswordChange(p); err != nil {
		return nil, rejected, err
	}

	prev, err := s.profile(ctx, ownerID)
	if err != nil {
		return nil, rejected, err
	}

	if p.Password != nil {
		if !s.network.Online() {
			return nil, rejected, netmon.ErrOffline
		}
		body := models.UserUpdate{Password: p.Password}
		if err := s.client.Update(ctx, common.CollectionUsers, ownerID, body, nil); err != nil {
			if api.IsTransient(err) {
				s.network.ReportFailure(ctx)
			}
			return nil, rejected, fmt.Errorf("change password: %w", err)
		}
		if _, err := s.stores.Users.Update(ctx, ownerID, ownerID, body); err != nil {
			return nil, rejected, err
		}
		if p.Name == nil {
			u, err := s.profile(ctx, ownerID)
			return u, orchestrator.Outcome{Result: orchestrator.OnlineOK}, err
		}
	}

	name := models.UserUpdate{Name: p.Name}
	m := orchestrator.Mutation{
		Collection: common.CollectionUsers,
		Op:         orchestrator.OpUpdate,
		EntityID:   ownerID,
		Payload:    name,
		Apply: func(ctx context.Context) error {
			_, err := s.stores.Users.Update(ctx, ownerID, ownerID, name)
			return err
		},
		Reconcile: s.stores.reconcileFor(common.CollectionUsers, orchestrator.OpUpdate, ownerID),
		Revert: func(ctx context.Context) error {
			return s.stores.Users.Put(ctx, *prev)
		},
	}

	return mutate(ctx, s.ex, m, func(ctx context.Context) (*models.User, error) {
		return s.profile(ctx, ownerID)
	}, opts...)
}

func (s *AuthService) profile(ctx context.Context, ownerID string) (*models.User, error) {
	all, err := s.stores.Users.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, common.ErrorNotFound
	}
	return &all[0], nil
}

// LoadTokens returns the server token pair saved by SaveTokens.
func LoadTokens(ctx context.Context, lc *local.Context) (models.TokenPair, bool) {
	var tp models.TokenPair
	ok := lc.Store.Get(ctx, lc.Key(local.KeyTokens), &tp)
	return tp, ok && tp.AccessToken != ""
}

// SaveTokens persists tp; an empty pair removes the stored one. It is meant
// to be installed with api.WithTokenListener.
func SaveTokens(ctx context.Context, lc *local.Context, tp models.TokenPair) {
	if tp.AccessToken == "" && tp.RefreshToken == "" {
		lc.Store.Remove(ctx, lc.Key(local.KeyTokens))
		return
	}
	lc.Store.Set(ctx, lc.Key(local.KeyTokens), tp)
}
