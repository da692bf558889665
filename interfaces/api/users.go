package api

import (
	"context"

	"ianct-client/domain/models"
)

// UsersAPI is the admin user management surface.
type UsersAPI struct {
	r Requester
}

func NewUsersAPI(r Requester) *UsersAPI {
	return &UsersAPI{r: r}
}

func (a *UsersAPI) List(ctx context.Context) ([]models.UserSummary, error) {
	var out []models.UserSummary
	if err := a.r.Get(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UsersAPI) Create(ctx context.Context, req models.CreateUserRequest) (*models.UserSummary, error) {
	var out models.UserSummary
	if err := a.r.Post(ctx, "/users", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UsersAPI) UpdateStatus(ctx context.Context, userID int64, enabled bool) (*models.UserSummary, error) {
	var out models.UserSummary
	body := models.UserStatusUpdateRequest{Enabled: enabled}
	if err := a.r.Patch(ctx, "/users/"+id(userID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
