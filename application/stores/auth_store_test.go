package stores

import (
	"context"
	"testing"

	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/mockapi"
	apperrors "ianct-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthStore_LoginLoadsProfile(t *testing.T) {
	b := newBackend(t, config.AdminApp)
	s := NewAuthStore(b.admin.Auth, b.tokens, b.app.TokenKey, zap.NewNop())

	require.NoError(t, s.Login(context.Background(), loginRequest(mockapi.AdminUsername, mockapi.AdminPassword)))

	assert.True(t, s.IsAuthenticated())
	require.True(t, s.HasProfile())
	assert.Equal(t, mockapi.RoleAdmin, s.User().Role)
	assert.False(t, s.Loading())
	assert.Equal(t, s.Token(), b.token(t))

	token, err := b.tokens.Get(config.WorkspaceApp.TokenKey)
	require.NoError(t, err)
	assert.Empty(t, token, "the admin token lives under its own key")
}

func TestAuthStore_LoginFailure(t *testing.T) {
	b := newBackend(t, config.AdminApp)
	s := NewAuthStore(b.admin.Auth, b.tokens, b.app.TokenKey, zap.NewNop())

	err := s.Login(context.Background(), loginRequest(mockapi.AdminUsername, "wrong"))

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "invalid username or password", apperrors.ServerMessage(err, ""))
	assert.False(t, s.IsAuthenticated())
}

func TestAuthStore_TokenAloneAuthenticates(t *testing.T) {
	b := newBackend(t, config.AdminApp)
	b.signIn(t, mockapi.AdminUsername, mockapi.AdminPassword)

	s := NewAuthStore(b.admin.Auth, b.tokens, b.app.TokenKey, zap.NewNop())
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.HasProfile())

	require.NoError(t, s.LoadProfile(context.Background()))
	assert.Equal(t, mockapi.AdminUsername, s.User().Username)
}

func TestAuthStore_RejectedTokenRedirectsToLogin(t *testing.T) {
	b := newBackend(t, config.AdminApp)
	require.NoError(t, b.tokens.Set(b.app.TokenKey, "forged"))
	redirector := &recordingRedirector{path: "/texts"}
	b.client.BindRedirector(redirector)

	s := NewAuthStore(b.admin.Auth, b.tokens, b.app.TokenKey, zap.NewNop())
	err := s.FetchProfile(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, b.token(t))
	assert.Equal(t, []string{config.AdminApp.LoginPath}, redirector.Redirects())
}

func TestAuthStore_NoRedirectWhenAlreadyOnLogin(t *testing.T) {
	b := newBackend(t, config.AdminApp)
	redirector := &recordingRedirector{path: config.AdminApp.LoginPath}
	b.client.BindRedirector(redirector)

	s := NewAuthStore(b.admin.Auth, b.tokens, b.app.TokenKey, zap.NewNop())
	err := s.Login(context.Background(), loginRequest(mockapi.AdminUsername, "wrong"))

	require.Error(t, err)
	assert.Empty(t, redirector.Redirects())
}
