package stores

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/httpclient"
	"ianct-client/infrastructure/mockapi"
	"ianct-client/infrastructure/storage"
	"ianct-client/interfaces/api"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// backend is a seeded mock API with a client bound to one app's token key.
type backend struct {
	srv    *mockapi.Server
	tokens *storage.MemoryStore
	client *httpclient.Client
	ws     *api.Workspace
	admin  *api.Admin
	app    config.App
}

func newBackend(t *testing.T, app config.App) *backend {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Seed: true}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tokens := storage.NewMemoryStore()
	client := httpclient.New(httpclient.Options{
		BaseURL:   ts.URL + "/api",
		TokenKey:  app.TokenKey,
		LoginPath: app.LoginPath,
	}, tokens, zap.NewNop(), nil, nil)

	return &backend{
		srv:    srv,
		tokens: tokens,
		client: client,
		ws:     api.NewWorkspace(client),
		admin:  api.NewAdmin(client),
		app:    app,
	}
}

// signIn stores a token for username without going through a store.
func (b *backend) signIn(t *testing.T, username, password string) {
	t.Helper()
	resp, err := b.ws.Auth.Login(context.Background(), loginRequest(username, password))
	require.NoError(t, err)
	require.NoError(t, b.tokens.Set(b.app.TokenKey, resp.Token))
	b.srv.ResetHits()
}

func (b *backend) token(t *testing.T) string {
	t.Helper()
	token, err := b.tokens.Get(b.app.TokenKey)
	require.NoError(t, err)
	return token
}

// recordingRedirector stands in for the navigator on 401 responses.
type recordingRedirector struct {
	mu        sync.Mutex
	path      string
	redirects []string
}

func (r *recordingRedirector) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *recordingRedirector) HardRedirect(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, path)
	r.path = path
	return nil
}

func (r *recordingRedirector) Redirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.redirects...)
}
