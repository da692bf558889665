package stores

import (
	"context"
	"net/http"
	"testing"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/mockapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loginRequest(username, password string) models.LoginRequest {
	return models.LoginRequest{Username: username, Password: password}
}

func newSession(b *backend) *SessionStore {
	return NewSessionStore(b.ws.Auth, b.ws.Profile, b.tokens, b.app.TokenKey, zap.NewNop())
}

func TestSessionStore_Login(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	ctx := context.Background()

	res := s.Login(ctx, loginRequest(mockapi.UserUsername, mockapi.UserPassword))
	require.True(t, res.Success, res.Message)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, mockapi.UserUsername, s.User().Username)
	assert.NotEmpty(t, b.token(t))
	assert.Equal(t, s.Token(), b.token(t))

	claims, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, mockapi.UserUsername, claims.Username)
	assert.Equal(t, mockapi.RoleUser, claims.Role)

	require.NoError(t, s.LoadUser(ctx))
	assert.Equal(t, mockapi.RoleUser, s.User().Role)
}

func TestSessionStore_LoginFailureUsesServerMessage(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)

	res := s.Login(context.Background(), loginRequest(mockapi.UserUsername, "wrong"))

	assert.Equal(t, Result{Success: false, Message: "invalid username or password"}, res)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, b.token(t))
}

func TestSessionStore_LoginLeavesValidationToServer(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	b.srv.ResetHits()

	res := s.Login(context.Background(), loginRequest(mockapi.UserUsername, ""))

	assert.Equal(t, Result{Success: false, Message: "invalid username or password"}, res)
	assert.Equal(t, 1, b.srv.Hits(http.MethodPost, "/auth/login"))
	assert.False(t, s.IsAuthenticated())
}

func TestSessionStore_RegisterValidatesBeforeSending(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	b.srv.ResetHits()

	res := s.Register(context.Background(), models.RegisterRequest{Username: "scribe", Email: "scribe@example.com"})

	assert.False(t, res.Success)
	assert.Equal(t, "password is required", res.Message)
	assert.Zero(t, b.srv.TotalHits())
}

func TestSessionStore_Register(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	ctx := context.Background()

	dup := s.Register(ctx, models.RegisterRequest{Username: mockapi.UserUsername, Email: "x@example.com", Password: "secret1"})
	assert.Equal(t, Result{Success: false, Message: "username already exists"}, dup)

	res := s.Register(ctx, models.RegisterRequest{Username: "scribe", Email: "scribe@example.com", Password: "secret1"})
	require.True(t, res.Success)
	assert.Equal(t, "scribe@example.com", s.User().Email)
}

func TestSessionStore_ProfileUpdates(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	ctx := context.Background()
	require.True(t, s.Login(ctx, loginRequest(mockapi.UserUsername, mockapi.UserPassword)).Success)

	res := s.UpdateEmail(ctx, "moved@example.com")
	assert.True(t, res.Success)
	assert.Equal(t, "moved@example.com", s.User().Email)

	bad := s.UpdateEmail(ctx, "not-an-email")
	assert.False(t, bad.Success)
	assert.Equal(t, "moved@example.com", s.User().Email)

	wrong := s.ChangePassword(ctx, models.UpdatePasswordRequest{CurrentPassword: "nope", NewPassword: "secret22"})
	assert.Equal(t, Result{Success: false, Message: "current password is incorrect"}, wrong)

	ok := s.ChangePassword(ctx, models.UpdatePasswordRequest{CurrentPassword: mockapi.UserPassword, NewPassword: "secret22"})
	assert.Equal(t, Result{Success: true, Message: "password updated"}, ok)

	s.Logout()
	assert.True(t, s.Login(ctx, loginRequest(mockapi.UserUsername, "secret22")).Success)
}

func TestSessionStore_StaleTokenLogsOut(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	require.NoError(t, b.tokens.Set(b.app.TokenKey, "stale"))
	s := newSession(b)
	require.True(t, s.HasToken())
	assert.False(t, s.IsAuthenticated())

	err := s.LoadUser(context.Background())

	require.Error(t, err)
	assert.False(t, s.HasToken())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, b.token(t))
}

func TestSessionStore_ReloadPicksUpExternalLogout(t *testing.T) {
	b := newBackend(t, config.WorkspaceApp)
	s := newSession(b)
	require.True(t, s.Login(context.Background(), loginRequest(mockapi.UserUsername, mockapi.UserPassword)).Success)

	require.NoError(t, b.tokens.Delete(b.app.TokenKey))
	s.Reload()

	assert.False(t, s.HasToken())
	assert.False(t, s.IsAuthenticated())
}
