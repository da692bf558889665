package stores

import (
	"context"
	"net/http"
	"testing"

	"ianct-client/domain/models"
	"ianct-client/infrastructure/config"
	"ianct-client/infrastructure/mockapi"
	apperrors "ianct-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProjects(t *testing.T) (*ProjectStore, *backend) {
	t.Helper()
	b := newBackend(t, config.WorkspaceApp)
	b.signIn(t, mockapi.UserUsername, mockapi.UserPassword)
	return NewProjectStore(b.ws.Projects, zap.NewNop()), b
}

func TestProjectStore_CreateSelectsAndPrepends(t *testing.T) {
	s, _ := newProjects(t)
	ctx := context.Background()

	mine, err := s.FetchMyProjects(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	created, err := s.CreateProject(ctx, models.ProjectCreateRequest{Name: "Annals", Description: "spring and autumn"})
	require.NoError(t, err)

	projects := s.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, created.ID, projects[0].ID)
	require.NotNil(t, s.Current())
	assert.Equal(t, created.ID, s.Current().ID)
	assert.False(t, s.Saving())
}

func TestProjectStore_CreateValidatesLocally(t *testing.T) {
	s, b := newProjects(t)

	_, err := s.CreateProject(context.Background(), models.ProjectCreateRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, b.srv.TotalHits())
}

func TestProjectStore_MembersUpdateCache(t *testing.T) {
	s, b := newProjects(t)
	ctx := context.Background()

	mine, err := s.FetchMyProjects(ctx)
	require.NoError(t, err)
	id := mine[0].ID
	_, err = s.SelectProject(ctx, id)
	require.NoError(t, err)

	_, err = s.AddMember(ctx, id, mockapi.AdminUsername)
	require.NoError(t, err)
	assert.Len(t, s.Projects()[0].Members, 2)
	assert.Len(t, s.Current().Members, 2)

	_, err = s.AddMember(ctx, id, "ghost")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.RemoveMember(ctx, id, mockapi.AdminUsername)
	require.NoError(t, err)
	assert.Len(t, s.Current().Members, 1)
	assert.Equal(t, 1, b.srv.Hits(http.MethodDelete, "/projects/{id}/members"))

	_, err = s.RemoveMember(ctx, id, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestProjectStore_DeleteClearsCurrent(t *testing.T) {
	s, _ := newProjects(t)
	ctx := context.Background()

	created, err := s.CreateProject(ctx, models.ProjectCreateRequest{Name: "Scratch"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProject(ctx, created.ID))
	assert.Nil(t, s.Current())
	for _, p := range s.Projects() {
		assert.NotEqual(t, created.ID, p.ID)
	}
}

func TestProjectStore_SnapshotsAreCopies(t *testing.T) {
	s, _ := newProjects(t)
	ctx := context.Background()
	_, err := s.FetchMyProjects(ctx)
	require.NoError(t, err)

	projects := s.Projects()
	projects[0].Name = "mutated"

	assert.NotEqual(t, "mutated", s.Projects()[0].Name)
}
