package domain

import "context"

// Agent represents a department/topic-scoped knowledge source a user can
// converse with. Wire field names follow the platform API (Portuguese).
type Agent struct {
	ID      int    `json:"id" validate:"required,gt=0"`
	Sector  string `json:"setor" validate:"required"`
	Subject string `json:"assunto" validate:"required"`
}

// AgentCreate represents agent registration data
type AgentCreate struct {
	Sector  string `json:"setor" validate:"required,max=100"`
	Subject string `json:"assunto" validate:"required,max=255"`
}

// AgentDirectory defines the read side of the agent catalog
type AgentDirectory interface {
	// ListAssigned returns only the agents the current user may query.
	ListAssigned(ctx context.Context) ([]Agent, error)
	// ListAll returns the full directory (admin only), used to resolve
	// display metadata for history entries outside the assigned set.
	ListAll(ctx context.Context) ([]Agent, error)
}

// AgentAdmin defines the admin-side mutations on the agent catalog
type AgentAdmin interface {
	CreateAgent(ctx context.Context, input AgentCreate) (*Agent, error)
	UpdateAgent(ctx context.Context, agent Agent) error
	DeleteAgent(ctx context.Context, agentID int) error
}
