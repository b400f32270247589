package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/babysteps/internal/client/api"
	"github.com/dmitrijs2005/babysteps/internal/client/netmon"
	"github.com/dmitrijs2005/babysteps/internal/client/orchestrator"
	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(h *harness) *AuthService {
	return NewAuthService(h.lc, h.stores, h.client, h.sync.Monitor(), h.orch, logging.Discard())
}

func TestAuthService_RegisterOnline_SharesID(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)

	s, err := svc.Register(ctx, models.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", s.User.Email)
	assert.NotEmpty(t, s.Token)

	require.Len(t, h.client.registered, 1)
	assert.Equal(t, s.User.ID, h.client.registered[0].ID)
	assert.Equal(t, "access-"+s.User.ID, h.client.Tokens().AccessToken)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, cur.User.ID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	h := newHarness(t, true)
	svc := newAuth(h)

	_, err := svc.Register(context.Background(), models.RegisterInput{Email: "a@x.com", Password: "pw1", Name: "A"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, h.client.Calls())
}

func TestAuthService_RegisterConflict(t *testing.T) {
	h := newHarness(t, true)
	h.client.registerErr = &api.StatusError{Code: 409, Message: "User already exists"}
	svc := newAuth(h)

	_, err := svc.Register(context.Background(), models.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	h.sync.Monitor().SetOnline(context.Background(), false)
	_, err = svc.Login(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthService_RegisterWhileServerDown(t *testing.T) {
	h := newHarness(t, true)
	h.client.fail(errDown)
	svc := newAuth(h)

	s, err := svc.Register(context.Background(), models.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", s.User.Name)
	assert.False(t, h.sync.Monitor().Online())
}

func TestAuthService_LoginWrongPasswordOffline(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	svc := newAuth(h)
	h.owner(t, "a@x.com")

	s, err := svc.Login(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Nil(t, s)
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthService_LoginRegistersLocalOnlyAccountRemotely(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)
	id := h.owner(t, "a@x.com")
	h.client.loginErr = &api.StatusError{Code: 401, Message: "Invalid credentials"}

	s, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, s.User.ID)

	require.Len(t, h.client.registered, 1)
	assert.Equal(t, id, h.client.registered[0].ID)
	assert.Equal(t, []string{"login a@x.com", "register a@x.com"}, h.client.Calls())
}

func TestAuthService_LoginAdoptsServerAccount(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)
	h.client.profile = &models.User{ID: models.DemoUserID, Email: "srv@x.com", Name: "Server"}

	s, err := svc.Login(ctx, "srv@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.DemoUserID, s.User.ID)
	assert.Equal(t, "Server", s.User.Name)

	// the credentials now work without the server
	h.sync.Monitor().SetOnline(ctx, false)
	_, err = svc.Login(ctx, "srv@x.com", "secret1")
	require.NoError(t, err)
}

func TestAuthService_LoginAdoptsChangedPassword(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)
	id := h.owner(t, "a@x.com")
	h.client.profile = &models.User{ID: id, Email: "a@x.com", Name: "Parent"}

	_, err := svc.Login(ctx, "a@x.com", "changed-elsewhere")
	require.NoError(t, err)

	h.sync.Monitor().SetOnline(ctx, false)
	_, err = svc.Login(ctx, "a@x.com", "secret1")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@x.com", "changed-elsewhere")
	require.NoError(t, err)
}

func TestAuthService_LogoutClearsTokens(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)

	_, err := svc.Register(ctx, models.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)
	require.NotEmpty(t, h.client.Tokens().AccessToken)

	svc.Logout(ctx)
	assert.Empty(t, h.client.Tokens().AccessToken)
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	svc := newAuth(h)
	id := h.owner(t, "a@x.com")

	u, out, err := svc.UpdateProfile(ctx, id, models.UserUpdate{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.QueuedOffline, out.Result)
	assert.Equal(t, "Renamed", u.Name)
	assert.Empty(t, u.Password)

	// passwords are never queued
	_, out, err = svc.UpdateProfile(ctx, id, models.UserUpdate{Password: ptr("newsecret")})
	require.ErrorIs(t, err, netmon.ErrOffline)
	assert.Equal(t, orchestrator.Rejected, out.Result)
	assert.Len(t, h.queue.List(ctx), 1)

	_, err = svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
}

func TestAuthService_ChangePasswordOnline(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	svc := newAuth(h)
	id := h.owner(t, "a@x.com")

	_, out, err := svc.UpdateProfile(ctx, id, models.UserUpdate{Password: ptr("newsecret")})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.OnlineOK, out.Result)
	assert.Equal(t, []string{"update users/" + id}, h.client.Calls())
	assert.Empty(t, h.queue.List(ctx))

	h.sync.Monitor().SetOnline(ctx, false)
	_, err = svc.Login(ctx, "a@x.com", "newsecret")
	require.NoError(t, err)
}

func TestTokens_SaveLoadClear(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	_, ok := LoadTokens(ctx, h.lc)
	assert.False(t, ok)

	tp := models.TokenPair{AccessToken: "a", RefreshToken: "r", TokenType: "bearer"}
	SaveTokens(ctx, h.lc, tp)
	got, ok := LoadTokens(ctx, h.lc)
	require.True(t, ok)
	assert.Equal(t, tp, got)

	SaveTokens(ctx, h.lc, models.TokenPair{})
	_, ok = LoadTokens(ctx, h.lc)
	assert.False(t, ok)
}
