package api

import (
	"context"

	"ianct-client/domain/models"
)

type AuthAPI struct {
	r Requester
}

func NewAuthAPI(r Requester) *AuthAPI {
	return &AuthAPI{r: r}
}

// Login posts credentials. A 2xx response without a token is a refusal.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.r.Post(ctx, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.r.Post(ctx, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Current returns the profile behind the bearer token (admin endpoint).
func (a *AuthAPI) Current(ctx context.Context) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := a.r.Get(ctx, "/auth/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
