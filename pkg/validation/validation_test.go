package validation_test

import (
	"testing"

	"ianct-client/domain/models"
	apperrors "ianct-client/pkg/errors"
	"ianct-client/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	err := validation.Struct(models.RegisterRequest{
		Username: "zhang",
		Email:    "zhang@example.com",
		Password: "secret1",
	})
	assert.NoError(t, err)
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := validation.Struct(models.RegisterRequest{
		Username: "zhang",
		Email:    "not-an-email",
		Password: "123",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	msg := validation.Message(err)
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 6 characters")
}

func TestStruct_ProjectLimits(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	err := validation.Struct(models.ProjectCreateRequest{Name: string(long)})
	require.Error(t, err)
	assert.Contains(t, validation.Message(err), "name must be at most 200 characters")

	assert.Error(t, validation.Struct(models.ProjectCreateRequest{}))
}

func TestStruct_EntityOffsets(t *testing.T) {
	err := validation.Struct(models.EntityCreateRequest{
		TextID: 1, Label: "项羽", Category: "PERSON", StartOffset: 10, EndOffset: 4,
	})
	require.Error(t, err)
	assert.Contains(t, validation.Message(err), "endOffset is out of range")
}
