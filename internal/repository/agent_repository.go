package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AgentRepository defines persistence access for agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	// CreateIfAbsent inserts the agent unless one already exists for the same
	// user, and loads the stored row either way. Safe under concurrent callers.
	CreateIfAbsent(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Agent, error)
	GetByUserLogin(ctx context.Context, login string) (*domain.Agent, error)
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository returns a Postgres-backed implementation.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (user_id, first_name, last_name, email)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		agent.UserID,
		agent.FirstName,
		agent.LastName,
		agent.Email,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) CreateIfAbsent(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (user_id, first_name, last_name, email)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, query,
		agent.UserID,
		agent.FirstName,
		agent.LastName,
		agent.Email,
	); err != nil {
		return err
	}
	stored, err := r.GetByUserID(ctx, agent.UserID)
	if err != nil {
		return err
	}
	*agent = *stored
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `
        SELECT id, user_id, first_name, last_name, email, created_at, updated_at
        FROM agents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *agentRepository) GetByUserID(ctx context.Context, userID string) (*domain.Agent, error) {
	const query = `
        SELECT id, user_id, first_name, last_name, email, created_at, updated_at
        FROM agents WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *agentRepository) GetByUserLogin(ctx context.Context, login string) (*domain.Agent, error) {
	const query = `
        SELECT a.id, a.user_id, a.first_name, a.last_name, a.email, a.created_at, a.updated_at
        FROM agents a JOIN users u ON u.id = a.user_id
        WHERE u.login=$1`
	return r.fetchSingle(ctx, query, login)
}

func (r *agentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.UserID,
		&agent.FirstName,
		&agent.LastName,
		&agent.Email,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}
