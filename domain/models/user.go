// Package models holds the records exchanged with the annotation platform
// backend. They are decoded from and encoded to JSON unchanged.
package models

import "time"

// UserProfile is the authenticated user as returned by the profile endpoints.
type UserProfile struct {
	ID            int64      `json:"id,omitempty"`
	Username      string     `json:"username"`
	Email         string     `json:"email,omitempty"`
	Role          string     `json:"role,omitempty"`
	Enabled       *bool      `json:"enabled,omitempty"`
	CreateTime    *time.Time `json:"createTime,omitempty"`
	LastLoginTime *time.Time `json:"lastLoginTime,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

// AuthResponse is returned by login and register. Token is empty when the
// backend refused the request with a 2xx status.
type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Message  string `json:"message,omitempty"`
}

// UpdateEmailRequest is the body of PUT /user/email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=100"`
}

// UpdatePasswordRequest is the body of PUT /user/password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=64"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

// UserSummary is one row of the admin user list.
type UserSummary struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Enabled       bool       `json:"enabled"`
	CreateTime    *time.Time `json:"createTime,omitempty"`
	LastLoginTime *time.Time `json:"lastLoginTime,omitempty"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

// UserStatusUpdateRequest is the body of PATCH /users/{id}/status.
type UserStatusUpdateRequest struct {
	Enabled bool `json:"enabled"`
}
