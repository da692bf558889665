package api

import (
	"context"

	"ianct-client/domain/models"
)

type ProjectsAPI struct {
	r Requester
}

func NewProjectsAPI(r Requester) *ProjectsAPI {
	return &ProjectsAPI{r: r}
}

// Mine lists the projects the caller owns or belongs to.
func (a *ProjectsAPI) Mine(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := a.r.Get(ctx, "/projects/mine", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ProjectsAPI) Create(ctx context.Context, req models.ProjectCreateRequest) (*models.Project, error) {
	var out models.Project
	if err := a.r.Post(ctx, "/projects", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ProjectsAPI) Delete(ctx context.Context, projectID int64) error {
	return a.r.Delete(ctx, "/projects/"+id(projectID), nil, nil)
}

func (a *ProjectsAPI) Get(ctx context.Context, projectID int64) (*models.Project, error) {
	var out models.Project
	if err := a.r.Get(ctx, "/projects/"+id(projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddMember returns the project with its updated member list.
func (a *ProjectsAPI) AddMember(ctx context.Context, projectID int64, username string) (*models.Project, error) {
	var out models.Project
	body := models.ProjectMemberRequest{Username: username}
	if err := a.r.Post(ctx, "/projects/"+id(projectID)+"/members", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember sends the username in the body of the DELETE.
func (a *ProjectsAPI) RemoveMember(ctx context.Context, projectID int64, username string) (*models.Project, error) {
	var out models.Project
	body := models.ProjectMemberRequest{Username: username}
	if err := a.r.Delete(ctx, "/projects/"+id(projectID)+"/members", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
