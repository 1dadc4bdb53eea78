package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pro4tech/assistant/internal/domain"
)

// PermissionResult reports the outcome of one user in a bulk permission
// change
type PermissionResult struct {
	Entry domain.PermissionEntry
	Err   error
}

// AdminService groups the admin-side flows: agent catalog management,
// user management, and per-agent permission toggles.
type AdminService struct {
	agents      domain.AgentAdmin
	directory   domain.AgentDirectory
	users       domain.UserAdmin
	permissions domain.PermissionAdmin
	log         zerolog.Logger
}

// NewAdminService creates an admin service
func NewAdminService(
	agents domain.AgentAdmin,
	directory domain.AgentDirectory,
	users domain.UserAdmin,
	permissions domain.PermissionAdmin,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		agents:      agents,
		directory:   directory,
		users:       users,
		permissions: permissions,
		log:         log,
	}
}

// ListAgents returns the full agent directory
func (s *AdminService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.directory.ListAll(ctx)
}

// CreateAgent registers a new agent
func (s *AdminService) CreateAgent(ctx context.Context, input domain.AgentCreate) (*domain.Agent, error) {
	return s.agents.CreateAgent(ctx, input)
}

// UpdateAgent updates an agent's sector and subject
func (s *AdminService) UpdateAgent(ctx context.Context, agent domain.Agent) error {
	return s.agents.UpdateAgent(ctx, agent)
}

// DeleteAgent removes an agent
func (s *AdminService) DeleteAgent(ctx context.Context, agentID int) error {
	return s.agents.DeleteAgent(ctx, agentID)
}

// ListUsers returns all platform users
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// RegisterUser creates a platform user
func (s *AdminService) RegisterUser(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	return s.users.RegisterUser(ctx, input)
}

// UpdateUser updates a user's editable fields
func (s *AdminService) UpdateUser(ctx context.Context, userID int, input domain.UserUpdate) error {
	return s.users.UpdateUser(ctx, userID, input)
}

// ToggleUserStatus flips a user's active flag
func (s *AdminService) ToggleUserStatus(ctx context.Context, user domain.User) error {
	return s.users.SetUserStatus(ctx, user.ID, !user.Active)
}

// ListAgentUsers returns the permission panel rows for one agent
func (s *AdminService) ListAgentUsers(ctx context.Context, agentID int) ([]domain.PermissionEntry, error) {
	return s.permissions.ListAgentUsers(ctx, agentID)
}

// SetPermission enables or disables one user for the agent under
// management
func (s *AdminService) SetPermission(ctx context.Context, userID int, assigned bool) error {
	if assigned {
		return s.permissions.EnableUser(ctx, userID)
	}
	return s.permissions.DisableUser(ctx, userID)
}

// DisableAll revokes every listed user with bounded concurrency and
// reports a result per user. Mirrors the bulk-delete semantics: the
// caller only unchecks the users whose revocation succeeded.
func (s *AdminService) DisableAll(ctx context.Context, entries []domain.PermissionEntry) []PermissionResult {
	if len(entries) == 0 {
		return nil
	}

	results := make([]PermissionResult, len(entries))
	sem := make(chan struct{}, deleteAllConcurrency)
	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry domain.PermissionEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := s.permissions.DisableUser(ctx, entry.ID)
			if err != nil {
				s.log.Error().Err(err).Int("user_id", entry.ID).Msg("bulk disable: user failed")
			}
			results[i] = PermissionResult{Entry: entry, Err: err}
		}(i, entry)
	}
	wg.Wait()
	return results
}
