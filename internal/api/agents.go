package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pro4tech/assistant/internal/domain"
)

// ListAssigned returns the agents the current user is permitted to query
func (c *Client) ListAssigned(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := c.do(ctx, http.MethodGet, "/usuarios/buscar/agentes", nil, nil, &agents); err != nil {
		return nil, err
	}
	if err := checkEach(c, "/usuarios/buscar/agentes", agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// ListAll returns the full agent directory (admin only)
func (c *Client) ListAll(ctx context.Context) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := c.do(ctx, http.MethodGet, "/agentes", nil, nil, &agents); err != nil {
		return nil, err
	}
	if err := checkEach(c, "/agentes", agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// CreateAgent registers a new agent
func (c *Client) CreateAgent(ctx context.Context, input domain.AgentCreate) (*domain.Agent, error) {
	if err := c.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("invalid agent: %w", err)
	}
	var agent domain.Agent
	if err := c.do(ctx, http.MethodPost, "/cadastro/agente", nil, input, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent updates an existing agent's sector and subject
func (c *Client) UpdateAgent(ctx context.Context, agent domain.Agent) error {
	if err := c.validate.Struct(&agent); err != nil {
		return fmt.Errorf("invalid agent: %w", err)
	}
	path := fmt.Sprintf("/agentes/%d", agent.ID)
	return c.do(ctx, http.MethodPut, path, nil, agent, nil)
}

// DeleteAgent removes an agent from the directory
func (c *Client) DeleteAgent(ctx context.Context, agentID int) error {
	path := fmt.Sprintf("/agentes/%d", agentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

var (
	_ domain.AgentDirectory = (*Client)(nil)
	_ domain.AgentAdmin     = (*Client)(nil)
)
