package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pro4tech/assistant/internal/domain"
)

// MockAgentDirectory mocks the AgentDirectory interface
type MockAgentDirectory struct {
	mock.Mock
}

func (m *MockAgentDirectory) ListAssigned(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agent), args.Error(1)
}

func (m *MockAgentDirectory) ListAll(ctx context.Context) ([]domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agent), args.Error(1)
}

// MockHistoryRepository mocks the HistoryRepository interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) DeleteSession(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}

// MockMessenger mocks the Messenger interface
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendMessage(ctx context.Context, req domain.SendRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockAgentAdmin mocks the AgentAdmin interface
type MockAgentAdmin struct {
	mock.Mock
}

func (m *MockAgentAdmin) CreateAgent(ctx context.Context, input domain.AgentCreate) (*domain.Agent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentAdmin) UpdateAgent(ctx context.Context, agent domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentAdmin) DeleteAgent(ctx context.Context, agentID int) error {
	args := m.Called(ctx, agentID)
	return args.Error(0)
}

// MockUserAdmin mocks the UserAdmin interface
type MockUserAdmin struct {
	mock.Mock
}

func (m *MockUserAdmin) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserAdmin) RegisterUser(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserAdmin) UpdateUser(ctx context.Context, userID int, input domain.UserUpdate) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *MockUserAdmin) SetUserStatus(ctx context.Context, userID int, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

// MockPermissionAdmin mocks the PermissionAdmin interface
type MockPermissionAdmin struct {
	mock.Mock
}

func (m *MockPermissionAdmin) ListAgentUsers(ctx context.Context, agentID int) ([]domain.PermissionEntry, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PermissionEntry), args.Error(1)
}

func (m *MockPermissionAdmin) EnableUser(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPermissionAdmin) DisableUser(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockAccessLog mocks the AccessLog interface
type MockAccessLog struct {
	mock.Mock
}

func (m *MockAccessLog) ListAccesses(ctx context.Context) ([]domain.AccessRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessRecord), args.Error(1)
}
