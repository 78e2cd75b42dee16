package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRepository defines persistence access for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateIfAbsent inserts the user unless the login is already taken, and
	// loads the stored row either way. Safe under concurrent callers.
	CreateIfAbsent(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (login, email, password_hash, roles, activated)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Login,
		user.Email,
		user.PasswordHash,
		roleStrings(user.Roles),
		user.Activated,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (login, email, password_hash, roles, activated)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (login) DO NOTHING`
	if _, err := r.pool.Exec(ctx, query,
		user.Login,
		user.Email,
		user.PasswordHash,
		roleStrings(user.Roles),
		user.Activated,
	); err != nil {
		return err
	}
	stored, err := r.GetByLogin(ctx, user.Login)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET login=$1, email=$2, password_hash=$3, roles=$4, activated=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		user.Login,
		user.Email,
		user.PasswordHash,
		roleStrings(user.Roles),
		user.Activated,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `WHERE id=$1`, id)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.fetchSingle(ctx, `WHERE login=$1`, login)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `WHERE email=$1`, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
        SELECT id, login, email, password_hash, roles, activated, created_at, updated_at
        FROM users ` + where
	var user domain.User
	var roles []string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Login,
		&user.Email,
		&user.PasswordHash,
		&roles,
		&user.Activated,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Roles = toRoles(roles)
	return &user, nil
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}

func toRoles(values []string) []domain.Role {
	out := make([]domain.Role, len(values))
	for i, v := range values {
		out[i] = domain.Role(v)
	}
	return out
}
