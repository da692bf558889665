package models

import "time"

// Project is a shared workspace owned by one user.
type Project struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	OwnerID     int64           `json:"ownerId,omitempty"`
	OwnerName   string          `json:"ownerName,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
	Members     []ProjectMember `json:"members,omitempty"`
}

// ProjectMember is a user attached to a project.
type ProjectMember struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// Project member roles.
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// ProjectCreateRequest is the body of POST /projects.
type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// ProjectMemberRequest is the body of the member endpoints.
type ProjectMemberRequest struct {
	Username string `json:"username" validate:"required"`
}
