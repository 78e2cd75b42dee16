package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type lifecycleFixture struct {
	store     *memory.Store
	directory *service.DirectoryService
	lifecycle *service.LifecycleService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	store := memory.NewStore()
	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:   store.Users(),
		ClientRepo: store.Clients(),
		AgentRepo:  store.Agents(),
	})
	lifecycle := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:  store.Tickets(),
		MessageRepo: store.Messages(),
		Directory:   directory,
		Events:      events.NewInMemoryDispatcher(),
		Logger:      zap.NewNop(),
	})
	return &lifecycleFixture{store: store, directory: directory, lifecycle: lifecycle}
}

func (f *lifecycleFixture) registerClient(t *testing.T, ctx context.Context, login string) *domain.Client {
	t.Helper()

	user := &domain.User{
		Login:     login,
		Email:     login + "@example.com",
		Roles:     []domain.Role{domain.RoleUser, domain.RoleClient},
		Activated: true,
	}
	gt.NoError(t, f.store.Users().Create(ctx, user)).Required()

	client := &domain.Client{UserID: user.ID, Email: user.Email}
	gt.NoError(t, f.store.Clients().Create(ctx, client)).Required()
	return client
}

func (f *lifecycleFixture) registerAgent(t *testing.T, ctx context.Context, login string) *domain.Agent {
	t.Helper()

	user := &domain.User{
		Login:     login,
		Email:     login + "@example.com",
		Roles:     []domain.Role{domain.RoleUser, domain.RoleAgent},
		Activated: true,
	}
	gt.NoError(t, f.store.Users().Create(ctx, user)).Required()

	agent := &domain.Agent{UserID: user.ID, Email: user.Email}
	gt.NoError(t, f.store.Agents().Create(ctx, agent)).Required()
	return agent
}

func (f *lifecycleFixture) openTicket(t *testing.T, ctx context.Context, clientLogin string) *domain.Ticket {
	t.Helper()

	ticket, err := f.lifecycle.CreateTicket(ctx, clientLogin, "printer is on fire", "please send help")
	gt.NoError(t, err).Required()
	return ticket
}

func TestCreateTicket(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	client := f.registerClient(t, ctx, "alice")

	ticket := f.openTicket(t, ctx, "alice")

	gt.Value(t, ticket.Status).Equal(domain.TicketStatusReceived)
	gt.Value(t, ticket.IssuedByClientID).Equal(client.ID)
	gt.Bool(t, strings.HasPrefix(ticket.Code, "T-"+client.UserID+"-")).True()
	gt.Bool(t, ticket.IssuedAt.IsZero()).False()

	sentinel, err := f.directory.FindAgentByLogin(ctx, domain.SentinelAgentLogin)
	gt.NoError(t, err).Required()
	gt.Value(t, ticket.AssignedToAgentID).Equal(sentinel.ID)

	msgs, err := f.store.Messages().ListByTicket(ctx, ticket.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(1)
	gt.Value(t, msgs[0].Content).Equal("please send help")
	gt.Value(t, msgs[0].SentByUserID).Equal(client.UserID)

	clientTurn, err := f.lifecycle.IsClientTurn(ctx, ticket.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, clientTurn).False()
}

func TestCreateTicketValidation(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")

	_, err := f.lifecycle.CreateTicket(ctx, "alice", "   ", "hello")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")

	_, err = f.lifecycle.CreateTicket(ctx, "alice", "broken", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")
}

func TestClientMessageRequiresClientTurn(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	ticket := f.openTicket(t, ctx, "alice")

	// RECEIVED is nobody's turn.
	_, err := f.lifecycle.SendClientMessage(ctx, "alice", ticket.ID, "any news?")
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeNotClientTurn)

	msgs, listErr := f.store.Messages().ListByTicket(ctx, ticket.ID)
	gt.NoError(t, listErr).Required()
	gt.Array(t, msgs).Length(1)
}

func TestSelfAssign(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	agent := f.registerAgent(t, ctx, "bob")
	f.registerAgent(t, ctx, "carol")
	ticket := f.openTicket(t, ctx, "alice")

	assigned, err := f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, assigned.Status).Equal(domain.TicketStatusPending)
	gt.Value(t, assigned.AssignedToAgentID).Equal(agent.ID)

	// Second pickup attempt bounces and leaves the ticket untouched.
	_, err = f.lifecycle.SelfAssign(ctx, "carol", ticket.ID)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketAlreadyAssigned)

	stored, err := f.lifecycle.GetAssignedTicket(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Status).Equal(domain.TicketStatusPending)
	gt.Value(t, stored.AssignedToAgentID).Equal(agent.ID)
}

func TestSelfAssignMissingTicket(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerAgent(t, ctx, "bob")

	_, err := f.lifecycle.SelfAssign(ctx, "bob", "no-such-ticket")
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketAlreadyAssigned)
}

func TestSelfAssignRace(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	ticket := f.openTicket(t, ctx, "alice")

	logins := []string{"a1", "a2", "a3", "a4", "a5"}
	for _, login := range logins {
		f.registerAgent(t, ctx, login)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(logins))
	for _, login := range logins {
		wg.Add(1)
		go func(login string) {
			defer wg.Done()
			_, err := f.lifecycle.SelfAssign(ctx, login, ticket.ID)
			results <- err
		}(login)
	}
	wg.Wait()
	close(results)

	winners := 0
	for err := range results {
		if err == nil {
			winners++
		} else {
			gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketAlreadyAssigned)
		}
	}
	gt.Value(t, winners).Equal(1)
}

func TestClientMessageReopensTreatment(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	client := f.registerClient(t, ctx, "alice")
	f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	_, err := f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()

	// PENDING puts the client on turn; their message hands it back.
	msg, err := f.lifecycle.SendClientMessage(ctx, "alice", ticket.ID, "thanks, still broken though")
	gt.NoError(t, err).Required()
	gt.Value(t, msg.SentByUserID).Equal(client.UserID)

	stored, err := f.lifecycle.GetOwnedTicket(ctx, "alice", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Status).Equal(domain.TicketStatusBeingTreated)

	msgs, err := f.lifecycle.ListMessagesAsClient(ctx, "alice", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(2)
}

func TestAgentMessageTransitions(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	_, err := f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()

	// PENDING is the client's turn.
	_, err = f.lifecycle.SendAgentMessage(ctx, "bob", ticket.ID, "working on it", domain.TicketStatusBeingTreated)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeNotAgentTurn)

	_, err = f.lifecycle.SendClientMessage(ctx, "alice", ticket.ID, "ping")
	gt.NoError(t, err).Required()

	// BEING_TREATED -> CLOSED is not in the agent table.
	_, err = f.lifecycle.SendAgentMessage(ctx, "bob", ticket.ID, "closing", domain.TicketStatusClosed)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeInvalidTransition)

	msg, err := f.lifecycle.SendAgentMessage(ctx, "bob", ticket.ID, "try turning it off and on", domain.TicketStatusPending)
	gt.NoError(t, err).Required()
	gt.Bool(t, msg.SentAt.IsZero()).False()

	stored, err := f.lifecycle.GetAssignedTicket(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Status).Equal(domain.TicketStatusPending)

	msgs, err := f.lifecycle.ListMessagesAsAgent(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, msgs).Length(3)
}

func TestAgentMessageRequiresAssignment(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerAgent(t, ctx, "bob")
	f.registerAgent(t, ctx, "carol")
	ticket := f.openTicket(t, ctx, "alice")

	_, err := f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()
	_, err = f.lifecycle.SendClientMessage(ctx, "alice", ticket.ID, "ping")
	gt.NoError(t, err).Required()

	_, err = f.lifecycle.SendAgentMessage(ctx, "carol", ticket.ID, "let me take over", domain.TicketStatusPending)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFoundOrNotAssigned)
}

func TestChangeStatusAsClient(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerClient(t, ctx, "mallory")
	ticket := f.openTicket(t, ctx, "alice")

	t.Run("missing ticket reported first", func(t *testing.T) {
		_, err := f.lifecycle.ChangeStatusAsClient(ctx, "alice", "no-such-ticket", domain.TicketStatusClosed)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFound)
	})

	t.Run("transition checked before ownership", func(t *testing.T) {
		_, err := f.lifecycle.ChangeStatusAsClient(ctx, "mallory", ticket.ID, domain.TicketStatusPending)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTransitionNotAllowed)
	})

	t.Run("ownership enforced for allowed transition", func(t *testing.T) {
		_, err := f.lifecycle.ChangeStatusAsClient(ctx, "mallory", ticket.ID, domain.TicketStatusClosed)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotOwned)
	})

	t.Run("owner closes received ticket", func(t *testing.T) {
		closed, err := f.lifecycle.ChangeStatusAsClient(ctx, "alice", ticket.ID, domain.TicketStatusClosed)
		gt.NoError(t, err).Required()
		gt.Value(t, closed.Status).Equal(domain.TicketStatusClosed)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		_, err := f.lifecycle.ChangeStatusAsClient(ctx, "alice", ticket.ID, domain.TicketStatusBeingTreated)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTransitionNotAllowed)
	})
}

func TestAdminAssign(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	agent := f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	t.Run("missing ticket", func(t *testing.T) {
		_, err := f.lifecycle.AdminAssign(ctx, "admin", "no-such-ticket", agent.ID)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFound)
	})

	t.Run("missing agent", func(t *testing.T) {
		_, err := f.lifecycle.AdminAssign(ctx, "admin", ticket.ID, "no-such-agent")
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeAgentNotFound)
	})

	t.Run("assignment moves to being treated", func(t *testing.T) {
		assigned, err := f.lifecycle.AdminAssign(ctx, "admin", ticket.ID, agent.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, assigned.Status).Equal(domain.TicketStatusBeingTreated)
		gt.Value(t, assigned.AssignedToAgentID).Equal(agent.ID)
	})

	t.Run("already assigned", func(t *testing.T) {
		_, err := f.lifecycle.AdminAssign(ctx, "admin", ticket.ID, agent.ID)
		gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketAlreadyAssigned)
	})
}

func TestListings(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerClient(t, ctx, "dave")
	f.registerAgent(t, ctx, "bob")

	first := f.openTicket(t, ctx, "alice")
	f.openTicket(t, ctx, "alice")
	f.openTicket(t, ctx, "dave")

	unassigned, err := f.lifecycle.ListUnassigned(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, unassigned).Length(3)

	_, err = f.lifecycle.SelfAssign(ctx, "bob", first.ID)
	gt.NoError(t, err).Required()

	unassigned, err = f.lifecycle.ListUnassigned(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, unassigned).Length(2)

	assigned, err := f.lifecycle.ListAssigned(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, assigned).Length(1)
	gt.Value(t, assigned[0].ID).Equal(first.ID)

	count, err := f.lifecycle.CountAssigned(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(int64(1))

	mine, err := f.lifecycle.ListAssignedToAgent(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Array(t, mine).Length(1)

	myCount, err := f.lifecycle.CountAssignedToAgent(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Value(t, myCount).Equal(int64(1))

	aliceTickets, err := f.lifecycle.ListMineAsClient(ctx, "alice")
	gt.NoError(t, err).Required()
	gt.Array(t, aliceTickets).Length(2)
}

func TestClosedTicketLeavesAssignedViews(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	_, err := f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()

	_, err = f.lifecycle.SendClientMessage(ctx, "alice", ticket.ID, "still broken")
	gt.NoError(t, err).Required()

	_, err = f.lifecycle.SendAgentMessage(ctx, "bob", ticket.ID, "cannot reproduce", domain.TicketStatusDoNotTreat)
	gt.NoError(t, err).Required()

	mine, err := f.lifecycle.ListAssignedToAgent(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Array(t, mine).Length(1)

	_, err = f.lifecycle.ChangeStatusAsClient(ctx, "alice", ticket.ID, domain.TicketStatusClosed)
	gt.NoError(t, err).Required()

	mine, err = f.lifecycle.ListAssignedToAgent(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Array(t, mine).Length(0)

	myCount, err := f.lifecycle.CountAssignedToAgent(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Value(t, myCount).Equal(int64(0))

	assigned, err := f.lifecycle.ListAssigned(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, assigned).Length(0)
}

func TestOwnershipPredicates(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	client := f.registerClient(t, ctx, "alice")
	f.registerClient(t, ctx, "dave")
	agent := f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	owned, err := f.lifecycle.IsIssuedByClient(ctx, ticket.ID, client.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, owned).True()

	owned, err = f.lifecycle.IsIssuedByUser(ctx, ticket.ID, "dave")
	gt.NoError(t, err).Required()
	gt.Bool(t, owned).False()

	owned, err = f.lifecycle.IsIssuedByClient(ctx, "no-such-ticket", client.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, owned).False()

	_, err = f.lifecycle.SelfAssign(ctx, "bob", ticket.ID)
	gt.NoError(t, err).Required()

	held, err := f.lifecycle.IsAssignedToAgent(ctx, ticket.ID, agent.ID)
	gt.NoError(t, err).Required()
	gt.Bool(t, held).True()

	held, err = f.lifecycle.IsAssignedToUser(ctx, ticket.ID, "dave")
	gt.NoError(t, err).Required()
	gt.Bool(t, held).False()

	byUserID, err := f.lifecycle.IsIssuedByUserID(ctx, ticket.ID, client.UserID)
	gt.NoError(t, err).Required()
	gt.Bool(t, byUserID).True()

	byUserID, err = f.lifecycle.IsAssignedToUserID(ctx, ticket.ID, agent.UserID)
	gt.NoError(t, err).Required()
	gt.Bool(t, byUserID).True()
}

func TestScopedReads(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()
	f.registerClient(t, ctx, "alice")
	f.registerClient(t, ctx, "mallory")
	f.registerAgent(t, ctx, "bob")
	ticket := f.openTicket(t, ctx, "alice")

	_, err := f.lifecycle.GetOwnedTicket(ctx, "mallory", ticket.ID)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFoundOrNotOwned)

	_, err = f.lifecycle.ListMessagesAsClient(ctx, "mallory", ticket.ID)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFoundOrNotOwned)

	_, err = f.lifecycle.GetAssignedTicket(ctx, "bob", ticket.ID)
	gt.Value(t, apperrors.CodeOf(err)).Equal(apperrors.CodeTicketNotFoundOrNotAssigned)

	clientTurn, err := f.lifecycle.IsClientTurn(ctx, "no-such-ticket")
	gt.NoError(t, err).Required()
	gt.Bool(t, clientTurn).False()
}
