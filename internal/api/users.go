package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pro4tech/assistant/internal/domain"
)

// ListUsers returns all platform users (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, nil, &users); err != nil {
		return nil, err
	}
	if err := checkEach(c, "/usuarios", users); err != nil {
		return nil, err
	}
	return users, nil
}

// RegisterUser creates a new platform user
func (c *Client) RegisterUser(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	if err := c.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/cadastro/usuario", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user's editable fields
func (c *Client) UpdateUser(ctx context.Context, userID int, input domain.UserUpdate) error {
	if err := c.validate.Struct(&input); err != nil {
		return fmt.Errorf("invalid user update: %w", err)
	}
	path := fmt.Sprintf("/atualizar/usuarios/%d", userID)
	return c.do(ctx, http.MethodPut, path, nil, input, nil)
}

// SetUserStatus toggles a user's active flag
func (c *Client) SetUserStatus(ctx context.Context, userID int, active bool) error {
	path := fmt.Sprintf("/usuarios/%d/status", userID)
	body := map[string]bool{"ativo": active}
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

// ListAgentUsers returns every user with their assignment flag for one
// agent's permission panel
func (c *Client) ListAgentUsers(ctx context.Context, agentID int) ([]domain.PermissionEntry, error) {
	path := fmt.Sprintf("/agentes/%d/usuarios", agentID)
	var entries []domain.PermissionEntry
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, err
	}
	if err := checkEach(c, path, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnableUser grants a user access to the agent under management
func (c *Client) EnableUser(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/agentes/%d/habilitar", userID), nil, nil, nil)
}

// DisableUser revokes a user's access to the agent under management
func (c *Client) DisableUser(ctx context.Context, userID int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/agentes/%d/desabilitar", userID), nil, nil, nil)
}

// ListAccesses returns the raw access records behind the dashboard. The
// endpoint is unauthenticated on the platform, so the call works without
// a stored token too.
func (c *Client) ListAccesses(ctx context.Context) ([]domain.AccessRecord, error) {
	var records []domain.AccessRecord
	if err := c.doPublic(ctx, http.MethodGet, "/acessos", nil, nil, &records); err != nil {
		return nil, err
	}
	if err := checkEach(c, "/acessos", records); err != nil {
		return nil, err
	}
	return records, nil
}

var (
	_ domain.UserAdmin       = (*Client)(nil)
	_ domain.PermissionAdmin = (*Client)(nil)
	_ domain.AccessLog       = (*Client)(nil)
)
