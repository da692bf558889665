package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	apperrors "ianct-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResponse_UsesServerMessage(t *testing.T) {
	err := apperrors.FromResponse(http.MethodPost, "/auth/login", http.StatusBadRequest,
		[]byte(`{"message":"用户名或密码错误"}`))

	assert.Equal(t, apperrors.ErrorTypeValidation, err.Type)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "用户名或密码错误", err.Message)
	assert.Equal(t, "用户名或密码错误", apperrors.ServerMessage(err, "login failed"))
}

func TestFromResponse_FallsBackToErrorField(t *testing.T) {
	err := apperrors.FromResponse(http.MethodGet, "/texts/1", http.StatusNotFound,
		[]byte(`{"error":"text missing"}`))

	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "text missing", err.Message)
}

func TestFromResponse_NonJSONBody(t *testing.T) {
	err := apperrors.FromResponse(http.MethodGet, "/texts", http.StatusBadGateway, []byte("upstream down"))

	assert.Equal(t, apperrors.ErrorTypeInternal, err.Type)
	assert.Equal(t, "upstream down", err.Details["body"])
	assert.Equal(t, "fallback", apperrors.ServerMessage(err, "fallback"))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   apperrors.ErrorType
	}{
		{http.StatusUnauthorized, apperrors.ErrorTypeUnauthorized},
		{http.StatusForbidden, apperrors.ErrorTypeForbidden},
		{http.StatusConflict, apperrors.ErrorTypeConflict},
		{http.StatusGatewayTimeout, apperrors.ErrorTypeTimeout},
		{http.StatusTeapot, apperrors.ErrorTypeRemote},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := apperrors.FromResponse(http.MethodGet, "/x", tt.status, nil)
			assert.Equal(t, tt.want, err.Type)
		})
	}
}

func TestWrap_PreservesType(t *testing.T) {
	base := apperrors.NewUnauthorizedError("")
	wrapped := apperrors.Wrap(base, "load profile")

	require.Error(t, wrapped)
	assert.True(t, apperrors.IsUnauthorized(wrapped))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusCode(wrapped))
	assert.Contains(t, wrapped.Error(), "load profile: unauthorized")
}

func TestWrap_PlainError(t *testing.T) {
	cause := stderrors.New("disk full")
	wrapped := apperrors.Wrapf(cause, "persist %s", "token")

	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeInternal))
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, apperrors.Wrap(nil, "noop"))
}

func TestServerMessage_NonAppError(t *testing.T) {
	assert.Equal(t, "fallback", apperrors.ServerMessage(stderrors.New("boom"), "fallback"))
}
