package api

import (
	"context"

	"ianct-client/domain/models"
)

// ProfileAPI is the workspace user's own account.
type ProfileAPI struct {
	r Requester
}

func NewProfileAPI(r Requester) *ProfileAPI {
	return &ProfileAPI{r: r}
}

func (a *ProfileAPI) Me(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.r.Get(ctx, "/user/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmail returns the updated profile.
func (a *ProfileAPI) UpdateEmail(ctx context.Context, req models.UpdateEmailRequest) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.r.Put(ctx, "/user/email", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ProfileAPI) ChangePassword(ctx context.Context, req models.UpdatePasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := a.r.Put(ctx, "/user/password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
