package domain

import "context"

// User represents a platform user as listed by the admin endpoints
type User struct {
	ID     int    `json:"id" validate:"required,gt=0"`
	Name   string `json:"nome"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"ativo"`
}

// UserCreate represents user registration data
type UserCreate struct {
	Name     string `json:"nome" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"senha" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin usuario"`
}

// UserUpdate carries the editable user fields
type UserUpdate struct {
	Name  string `json:"nome" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// PermissionEntry is one row of the per-agent permission panel: a user
// plus whether they are currently assigned to the agent.
type PermissionEntry struct {
	ID       int    `json:"id" validate:"required,gt=0"`
	Name     string `json:"nome"`
	Assigned bool   `json:"selecionado"`
}

// UserAdmin defines the admin-side user management surface
type UserAdmin interface {
	ListUsers(ctx context.Context) ([]User, error)
	RegisterUser(ctx context.Context, input UserCreate) (*User, error)
	UpdateUser(ctx context.Context, userID int, input UserUpdate) error
	// SetUserStatus toggles a user's active flag.
	SetUserStatus(ctx context.Context, userID int, active bool) error
}

// PermissionAdmin manages which users may query a given agent
type PermissionAdmin interface {
	ListAgentUsers(ctx context.Context, agentID int) ([]PermissionEntry, error)
	EnableUser(ctx context.Context, userID int) error
	DisableUser(ctx context.Context, userID int) error
}
