package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func newUserRepository() *userRepository {
	return &userRepository{users: make(map[string]*domain.User)}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(user)
}

func (r *userRepository) CreateIfAbsent(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.users {
		if stored.Login == user.Login {
			*user = *stored
			return nil
		}
	}
	return r.insertLocked(user)
}

func (r *userRepository) insertLocked(user *domain.User) error {
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.findWhere(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	return r.findWhere(func(u *domain.User) bool { return u.Login == login })
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findWhere(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) findWhere(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.users {
		if match(stored) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type clientRepository struct {
	mu      sync.RWMutex
	store   *Store
	clients map[string]*domain.Client
}

func newClientRepository() *clientRepository {
	return &clientRepository{clients: make(map[string]*domain.Client)}
}

func (r *clientRepository) bind(store *Store) {
	r.store = store
}

func (r *clientRepository) Create(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	client.ID = uuid.NewString()
	client.CreatedAt = now
	client.UpdatedAt = now

	stored := *client
	r.clients[client.ID] = &stored
	return nil
}

func (r *clientRepository) GetByID(_ context.Context, id string) (*domain.Client, error) {
	return r.findWhere(func(c *domain.Client) bool { return c.ID == id })
}

func (r *clientRepository) GetByUserID(_ context.Context, userID string) (*domain.Client, error) {
	return r.findWhere(func(c *domain.Client) bool { return c.UserID == userID })
}

func (r *clientRepository) GetByUserLogin(ctx context.Context, login string) (*domain.Client, error) {
	user, err := r.store.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, user.ID)
}

func (r *clientRepository) findWhere(match func(*domain.Client) bool) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.clients {
		if match(stored) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type agentRepository struct {
	mu     sync.RWMutex
	store  *Store
	agents map[string]*domain.Agent
}

func newAgentRepository() *agentRepository {
	return &agentRepository{agents: make(map[string]*domain.Agent)}
}

func (r *agentRepository) bind(store *Store) {
	r.store = store
}

func (r *agentRepository) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(agent)
}

func (r *agentRepository) CreateIfAbsent(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.agents {
		if stored.UserID == agent.UserID {
			*agent = *stored
			return nil
		}
	}
	return r.insertLocked(agent)
}

func (r *agentRepository) insertLocked(agent *domain.Agent) error {
	now := time.Now()
	agent.ID = uuid.NewString()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	stored := *agent
	r.agents[agent.ID] = &stored
	return nil
}

func (r *agentRepository) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	return r.findWhere(func(a *domain.Agent) bool { return a.ID == id })
}

func (r *agentRepository) GetByUserID(_ context.Context, userID string) (*domain.Agent, error) {
	return r.findWhere(func(a *domain.Agent) bool { return a.UserID == userID })
}

func (r *agentRepository) GetByUserLogin(ctx context.Context, login string) (*domain.Agent, error) {
	user, err := r.store.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, user.ID)
}

func (r *agentRepository) findWhere(match func(*domain.Agent) bool) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.agents {
		if match(stored) {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
