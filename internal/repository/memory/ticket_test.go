package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/gt"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
)

func newTicket() *domain.Ticket {
	return &domain.Ticket{
		Code:              "T-u1-abc",
		Status:            domain.TicketStatusReceived,
		IssueDescription:  "it is broken",
		IssuedAt:          time.Now(),
		IssuedByClientID:  "client-1",
		AssignedToAgentID: "agent-0",
	}
}

func TestTicketVersionConflict(t *testing.T) {
	store := memory.NewStore()
	repo := store.Tickets()
	ctx := context.Background()

	ticket := newTicket()
	gt.NoError(t, repo.Create(ctx, ticket)).Required()
	gt.Value(t, ticket.Version).Equal(int64(1))

	stale, err := repo.GetByID(ctx, ticket.ID)
	gt.NoError(t, err).Required()

	ticket.Status = domain.TicketStatusPending
	gt.NoError(t, repo.Update(ctx, ticket)).Required()
	gt.Value(t, ticket.Version).Equal(int64(2))

	stale.Status = domain.TicketStatusBeingTreated
	err = repo.Update(ctx, stale)
	gt.Bool(t, errors.Is(err, repository.ErrVersionConflict)).True()

	current, err := repo.GetByID(ctx, ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, current.Status).Equal(domain.TicketStatusPending)
}

func TestUpdateWithMessageAtomicity(t *testing.T) {
	store := memory.NewStore()
	repo := store.Tickets()
	ctx := context.Background()

	ticket := newTicket()
	msg := &domain.Message{SentByUserID: "user-1", Content: "hello", SentAt: time.Now()}
	gt.NoError(t, repo.CreateWithFirstMessage(ctx, ticket, msg)).Required()
	gt.Value(t, msg.TicketID).Equal(ticket.ID)

	stale, err := repo.GetByID(ctx, ticket.ID)
	gt.NoError(t, err).Required()

	ticket.Status = domain.TicketStatusPending
	reply := &domain.Message{SentByUserID: "user-2", Content: "on it", SentAt: time.Now()}
	gt.NoError(t, repo.UpdateWithMessage(ctx, ticket, reply)).Required()

	// A lost race must not leave a stray message behind.
	stale.Status = domain.TicketStatusClosed
	lost := &domain.Message{SentByUserID: "user-2", Content: "closing", SentAt: time.Now()}
	err = repo.UpdateWithMessage(ctx, stale, lost)
	gt.Bool(t, errors.Is(err, repository.ErrVersionConflict)).True()

	msgs, err := store.Messages().ListByTicket(ctx, ticket.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
}

func TestTicketQueries(t *testing.T) {
	store := memory.NewStore()
	repo := store.Tickets()
	ctx := context.Background()

	first := newTicket()
	gt.NoError(t, repo.Create(ctx, first)).Required()

	second := newTicket()
	second.Code = "T-u2-def"
	second.IssuedByClientID = "client-2"
	second.Status = domain.TicketStatusPending
	second.AssignedToAgentID = "agent-1"
	gt.NoError(t, repo.Create(ctx, second)).Required()

	_, err := repo.GetByID(ctx, "missing")
	gt.Bool(t, errors.Is(err, pgx.ErrNoRows)).True()

	byCode, err := repo.GetByCode(ctx, "T-u2-def")
	gt.NoError(t, err).Required()
	gt.Value(t, byCode.ID).Equal(second.ID)

	received, err := repo.ListByStatus(ctx, domain.TicketStatusReceived)
	gt.NoError(t, err).Required()
	gt.Array(t, received).Length(1)

	active, err := repo.ListByStatusNotIn(ctx, []domain.TicketStatus{domain.TicketStatusReceived, domain.TicketStatusClosed})
	gt.NoError(t, err).Required()
	gt.Array(t, active).Length(1)
	gt.Value(t, active[0].ID).Equal(second.ID)

	owned, err := repo.ListByOwner(ctx, "client-2")
	gt.NoError(t, err).Required()
	gt.Array(t, owned).Length(1)

	notAssigned := []domain.TicketStatus{domain.TicketStatusReceived, domain.TicketStatusClosed}

	held, err := repo.ListByAssignedAgentAndStatusNotIn(ctx, "agent-1", notAssigned)
	gt.NoError(t, err).Required()
	gt.Array(t, held).Length(1)

	count, err := repo.CountByAssignedAgentAndStatusNotIn(ctx, "agent-1", notAssigned)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(int64(1))

	second.Status = domain.TicketStatusClosed
	gt.NoError(t, repo.Update(ctx, second)).Required()

	held, err = repo.ListByAssignedAgentAndStatusNotIn(ctx, "agent-1", notAssigned)
	gt.NoError(t, err).Required()
	gt.Array(t, held).Length(0)

	count, err = repo.CountByAssignedAgentAndStatusNotIn(ctx, "agent-1", notAssigned)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(int64(0))
}
