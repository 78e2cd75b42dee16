package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ErrVersionConflict is returned by Update when the ticket row changed since
// it was read. Callers should treat it as a lost optimistic-lock race.
var ErrVersionConflict = errors.New("ticket version conflict")

const ticketColumns = `id, code, status, issue_description, issued_at,
               issued_by_client_id, assigned_to_agent_id, version, created_at, updated_at`

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// CreateWithFirstMessage persists the ticket and its opening message as
	// one atomic unit; neither survives if the other fails.
	CreateWithFirstMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error
	// Update performs a compare-and-swap on the version column: the write
	// succeeds only if the stored version still equals ticket.Version, and
	// increments it. Returns ErrVersionConflict when another writer won.
	Update(ctx context.Context, ticket *domain.Ticket) error
	// UpdateWithMessage applies the same compare-and-swap as Update and
	// appends the message in the same transaction. On ErrVersionConflict
	// the message is not persisted.
	UpdateWithMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)
	// ListByStatusNotIn returns tickets whose status is outside the given set.
	ListByStatusNotIn(ctx context.Context, statuses []domain.TicketStatus) ([]domain.Ticket, error)
	ListByOwner(ctx context.Context, clientID string) ([]domain.Ticket, error)
	ListByAssignedAgentAndStatusNotIn(ctx context.Context, agentID string, statuses []domain.TicketStatus) ([]domain.Ticket, error)
	CountByStatusNotIn(ctx context.Context, statuses []domain.TicketStatus) (int64, error)
	CountByAssignedAgentAndStatusNotIn(ctx context.Context, agentID string, statuses []domain.TicketStatus) (int64, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (code, status, issue_description, issued_at, issued_by_client_id, assigned_to_agent_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.Status,
		ticket.IssueDescription,
		ticket.IssuedAt,
		ticket.IssuedByClientID,
		ticket.AssignedToAgentID,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) CreateWithFirstMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const ticketQuery = `
        INSERT INTO tickets (code, status, issue_description, issued_at, issued_by_client_id, assigned_to_agent_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version, created_at, updated_at`
	if err := tx.QueryRow(ctx, ticketQuery,
		ticket.Code,
		ticket.Status,
		ticket.IssueDescription,
		ticket.IssuedAt,
		ticket.IssuedByClientID,
		ticket.AssignedToAgentID,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	msg.TicketID = ticket.ID
	const msgQuery = `
        INSERT INTO messages (ticket_id, sent_by_user_id, content, sent_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, msgQuery,
		msg.TicketID,
		msg.SentByUserID,
		msg.Content,
		msg.SentAt,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_to_agent_id=$2, version=version+1, updated_at=NOW()
        WHERE id=$3 AND version=$4
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.Status,
		ticket.AssignedToAgentID,
		ticket.ID,
		ticket.Version,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	return err
}

func (r *ticketRepository) UpdateWithMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const updateQuery = `
        UPDATE tickets SET status=$1, assigned_to_agent_id=$2, version=version+1, updated_at=NOW()
        WHERE id=$3 AND version=$4
        RETURNING version, updated_at`
	err = tx.QueryRow(ctx, updateQuery,
		ticket.Status,
		ticket.AssignedToAgentID,
		ticket.ID,
		ticket.Version,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}

	msg.TicketID = ticket.ID
	const msgQuery = `
        INSERT INTO messages (ticket_id, sent_by_user_id, content, sent_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, msgQuery,
		msg.TicketID,
		msg.SentByUserID,
		msg.Content,
		msg.SentAt,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE code=$1`, code)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.Status,
		&ticket.IssueDescription,
		&ticket.IssuedAt,
		&ticket.IssuedByClientID,
		&ticket.AssignedToAgentID,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY issued_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE status=$1 ORDER BY issued_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByStatusNotIn(ctx context.Context, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE NOT (status = ANY($1)) ORDER BY issued_at ASC`,
		statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByOwner(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE issued_by_client_id=$1 ORDER BY issued_at ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByAssignedAgentAndStatusNotIn(ctx context.Context, agentID string, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE assigned_to_agent_id=$1 AND NOT (status = ANY($2)) ORDER BY issued_at ASC`,
		agentID, statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByAssignedAgentAndStatusNotIn(ctx context.Context, agentID string, statuses []domain.TicketStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE assigned_to_agent_id=$1 AND NOT (status = ANY($2))`,
		agentID, statusStrings(statuses)).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByStatusNotIn(ctx context.Context, statuses []domain.TicketStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE NOT (status = ANY($1))`,
		statusStrings(statuses)).Scan(&count)
	return count, err
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func statusStrings(statuses []domain.TicketStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.Status,
			&ticket.IssueDescription,
			&ticket.IssuedAt,
			&ticket.IssuedByClientID,
			&ticket.AssignedToAgentID,
			&ticket.Version,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
