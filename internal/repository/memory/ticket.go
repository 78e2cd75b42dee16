package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type ticketRepository struct {
	mu      sync.RWMutex
	store   *Store
	tickets map[string]*domain.Ticket
}

func newTicketRepository() *ticketRepository {
	return &ticketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *ticketRepository) bind(store *Store) {
	r.store = store
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	ticket.ID = uuid.NewString()
	ticket.Version = 1
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *ticketRepository) CreateWithFirstMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error {
	if err := r.Create(ctx, ticket); err != nil {
		return err
	}
	msg.TicketID = ticket.ID
	return r.store.messages.Create(ctx, msg)
}

func (r *ticketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.casLocked(ticket)
}

func (r *ticketRepository) UpdateWithMessage(ctx context.Context, ticket *domain.Ticket, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.casLocked(ticket); err != nil {
		return err
	}
	msg.TicketID = ticket.ID
	return r.store.messages.Create(ctx, msg)
}

// casLocked applies the version compare-and-swap under the caller's lock.
func (r *ticketRepository) casLocked(ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok || stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	ticket.UpdatedAt = time.Now()

	next := *ticket
	r.tickets[ticket.ID] = &next
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *ticketRepository) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.tickets {
		if stored.Code == code {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *ticketRepository) ListAll(_ context.Context) ([]domain.Ticket, error) {
	return r.listWhere(func(*domain.Ticket) bool { return true }), nil
}

func (r *ticketRepository) ListByStatus(_ context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	return r.listWhere(func(t *domain.Ticket) bool { return t.Status == status }), nil
}

func (r *ticketRepository) ListByStatusNotIn(_ context.Context, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	return r.listWhere(func(t *domain.Ticket) bool { return !statusIn(t.Status, statuses) }), nil
}

func (r *ticketRepository) ListByOwner(_ context.Context, clientID string) ([]domain.Ticket, error) {
	return r.listWhere(func(t *domain.Ticket) bool { return t.IssuedByClientID == clientID }), nil
}

func (r *ticketRepository) ListByAssignedAgentAndStatusNotIn(_ context.Context, agentID string, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	return r.listWhere(func(t *domain.Ticket) bool {
		return t.AssignedToAgentID == agentID && !statusIn(t.Status, statuses)
	}), nil
}

func (r *ticketRepository) CountByStatusNotIn(_ context.Context, statuses []domain.TicketStatus) (int64, error) {
	return int64(len(r.listWhere(func(t *domain.Ticket) bool { return !statusIn(t.Status, statuses) }))), nil
}

func (r *ticketRepository) CountByAssignedAgentAndStatusNotIn(_ context.Context, agentID string, statuses []domain.TicketStatus) (int64, error) {
	matched := r.listWhere(func(t *domain.Ticket) bool {
		return t.AssignedToAgentID == agentID && !statusIn(t.Status, statuses)
	})
	return int64(len(matched)), nil
}

func (r *ticketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *ticketRepository) listWhere(match func(*domain.Ticket) bool) []domain.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Ticket
	for _, stored := range r.tickets {
		if match(stored) {
			result = append(result, *stored)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].IssuedAt.Before(result[j].IssuedAt)
	})
	return result
}

func statusIn(status domain.TicketStatus, set []domain.TicketStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
