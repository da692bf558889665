package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ianct-client/infrastructure/observability"
	"ianct-client/infrastructure/storage"
	apperrors "ianct-client/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRedirector struct {
	mock.Mock
}

func (m *mockRedirector) CurrentPath() string {
	return m.Called().String(0)
}

func (m *mockRedirector) HardRedirect(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := storage.NewMemoryStore()
	c := New(Options{
		BaseURL:   srv.URL + "/api/",
		Timeout:   2 * time.Second,
		TokenKey:  "token",
		LoginPath: "/login",
	}, tokens, zap.NewNop(), observability.NewCollector("test"), nil)
	return c, tokens
}

func TestClient_BearerOnlyWhenTokenPresent(t *testing.T) {
	var auth []string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Get(context.Background(), "/texts", nil, nil))
	require.NoError(t, tokens.Set("token", "jwt-1"))
	require.NoError(t, c.Get(context.Background(), "/texts", nil, nil))

	assert.Equal(t, []string{"", "Bearer jwt-1"}, auth)
}

func TestClient_UsesOwnTokenKey(t *testing.T) {
	var auth string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	})
	require.NoError(t, tokens.Set("admin_token", "admin-jwt"))

	require.NoError(t, c.Get(context.Background(), "/texts", nil, nil))
	assert.Empty(t, auth)
}

func TestClient_JSONRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "name": in["name"]})
	})

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := c.Post(context.Background(), "/projects", nil, map[string]string{"name": "史记"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "史记", out.Name)
}

func TestClient_OmitsEmptyParams(t *testing.T) {
	var rawQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
	})

	require.NoError(t, c.Post(context.Background(), "/analysis/1/classify", Params("model", ""), nil, nil))
	assert.Empty(t, rawQuery)

	require.NoError(t, c.Post(context.Background(), "/analysis/1/classify", Params("model", "qwen"), nil, nil))
	assert.Equal(t, "model=qwen", rawQuery)
}

func TestClient_DeleteWithBody(t *testing.T) {
	var body []byte
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		body, _ = io.ReadAll(r.Body)
	})

	require.NoError(t, c.Delete(context.Background(), "/projects/3/members", map[string]string{"username": "li"}, nil))
	assert.JSONEq(t, `{"username":"li"}`, string(body))
}

func TestClient_ErrorCarriesServerMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"用户名已存在"}`))
	})

	err := c.Post(context.Background(), "/auth/register", nil, map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))
	assert.Equal(t, "用户名已存在", apperrors.ServerMessage(err, "registration failed"))
}

func TestClient_UnauthorizedClearsTokenAndRedirects(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, tokens.Set("token", "expired"))

	r := &mockRedirector{}
	r.On("CurrentPath").Return("/dashboard")
	r.On("HardRedirect", mock.Anything, "/login").Return(nil).Once()
	c.BindRedirector(r)

	err := c.Get(context.Background(), "/user/me", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	stored, _ := tokens.Get("token")
	assert.Empty(t, stored)
	r.AssertExpectations(t)
}

func TestClient_UnauthorizedOnLoginPageDoesNotRedirect(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, tokens.Set("token", "expired"))

	r := &mockRedirector{}
	r.On("CurrentPath").Return("/login")
	c.BindRedirector(r)

	err := c.Post(context.Background(), "/auth/login", nil, map[string]string{}, nil)
	assert.True(t, apperrors.IsUnauthorized(err))
	stored, _ := tokens.Get("token")
	assert.Empty(t, stored)
	r.AssertNotCalled(t, "HardRedirect", mock.Anything, mock.Anything)
}

func TestClient_GetBlob(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="text-5.json"`)
		_, _ = w.Write([]byte(`{"text":{"id":5}}`))
	})

	blob, err := c.GetBlob(context.Background(), "/texts/5/export")
	require.NoError(t, err)
	assert.Equal(t, "text-5.json", blob.Filename)
	assert.Equal(t, "application/json", blob.ContentType)
	assert.JSONEq(t, `{"text":{"id":5}}`, string(blob.Data))
}

func TestClient_NetworkError(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil, nil, nil)

	err := c.Get(context.Background(), "/texts", nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork) || apperrors.IsType(err, apperrors.ErrorTypeTimeout))
	assert.Zero(t, apperrors.StatusCode(err))
}
