package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// DirectoryService resolves logins to Client and Agent records and owns the
// sentinel "no_agent" agent that holds unassigned tickets.
type DirectoryService struct {
	users   repository.UserRepository
	clients repository.ClientRepository
	agents  repository.AgentRepository
}

// DirectoryDependencies bundles repositories for the directory.
type DirectoryDependencies struct {
	UserRepo   repository.UserRepository
	ClientRepo repository.ClientRepository
	AgentRepo  repository.AgentRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		users:   deps.UserRepo,
		clients: deps.ClientRepo,
		agents:  deps.AgentRepo,
	}
}

// FindClientByLogin resolves a user login to its client record.
func (s *DirectoryService) FindClientByLogin(ctx context.Context, login string) (*domain.Client, error) {
	return s.clients.GetByUserLogin(ctx, login)
}

// FindClientByID loads a client by id.
func (s *DirectoryService) FindClientByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.GetByID(ctx, id)
}

// FindAgentByLogin resolves a user login to its agent record.
func (s *DirectoryService) FindAgentByLogin(ctx context.Context, login string) (*domain.Agent, error) {
	return s.agents.GetByUserLogin(ctx, login)
}

// FindAgentByID loads an agent by id.
func (s *DirectoryService) FindAgentByID(ctx context.Context, id string) (*domain.Agent, error) {
	return s.agents.GetByID(ctx, id)
}

// CreateAgent persists a new agent profile for an existing user.
func (s *DirectoryService) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	return s.agents.Create(ctx, agent)
}

// EnsureSentinelAgent guarantees the sentinel "no_agent" account and agent
// record exist. It is idempotent and safe under concurrent callers: the
// first one creates, the rest observe and reuse. Called once at startup.
func (s *DirectoryService) EnsureSentinelAgent(ctx context.Context) (*domain.Agent, error) {
	// The sentinel never logs in; its credential is a discarded random value.
	hash, err := auth.HashPassword(uuid.NewString(), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Login:        domain.SentinelAgentLogin,
		Email:        "no_agent@no_agent.com",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser, domain.RoleAgent},
		Activated:    true,
	}
	if err := s.users.CreateIfAbsent(ctx, user); err != nil {
		return nil, err
	}

	agent := &domain.Agent{
		UserID:    user.ID,
		FirstName: domain.SentinelAgentLogin,
		LastName:  domain.SentinelAgentLogin,
		Email:     user.Email,
	}
	if err := s.agents.CreateIfAbsent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}
