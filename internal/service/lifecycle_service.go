package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// LifecycleService drives the ticket state machine: creation, status
// changes, assignment and the turn-taking message exchange. Every operation
// takes the caller's login explicitly; authorization against the ticket
// (ownership, assignment) happens here, not at the transport layer.
type LifecycleService struct {
	tickets   repository.TicketRepository
	messages  repository.MessageRepository
	directory *DirectoryService
	events    events.Dispatcher
	logger    *zap.Logger
}

// LifecycleDependencies bundles dependencies for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.MessageRepository
	Directory   *DirectoryService
	Events      events.Dispatcher
	Logger      *zap.Logger
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:   deps.TicketRepo,
		messages:  deps.MessageRepo,
		directory: deps.Directory,
		events:    deps.Events,
		logger:    deps.Logger,
	}
}

// notAssignedStatuses are the statuses outside the assigned set: a ticket
// before pickup and after it is done.
var notAssignedStatuses = []domain.TicketStatus{domain.TicketStatusReceived, domain.TicketStatusClosed}

// CreateTicket opens a new ticket for the calling client together with its
// first message. The ticket starts in RECEIVED, assigned to the sentinel
// agent, and both rows are written atomically.
func (s *LifecycleService) CreateTicket(ctx context.Context, callerLogin, issueDescription, messageContent string) (*domain.Ticket, error) {
	issueDescription = strings.TrimSpace(issueDescription)
	messageContent = strings.TrimSpace(messageContent)
	if issueDescription == "" {
		return nil, apperrors.NewValidationError("issue description must not be blank", map[string]any{"field": "issue_description"})
	}
	if messageContent == "" {
		return nil, apperrors.NewValidationError("message content must not be blank", map[string]any{"field": "message_content"})
	}

	client, err := s.requireClient(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	sentinel, err := s.sentinelAgent(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := time.Now()
	ticket := &domain.Ticket{
		Code:              fmt.Sprintf("T-%s-%s", client.UserID, uuid.NewString()),
		Status:            domain.TicketStatusReceived,
		IssueDescription:  issueDescription,
		IssuedAt:          now,
		IssuedByClientID:  client.ID,
		AssignedToAgentID: sentinel.ID,
	}
	msg := &domain.Message{
		SentByUserID: client.UserID,
		Content:      messageContent,
		SentAt:       now,
	}
	if err := s.tickets.CreateWithFirstMessage(ctx, ticket, msg); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("code", ticket.Code),
		zap.String("client_id", client.ID))
	s.publish(ctx, events.EventTicketCreated, ticket.ID,
		events.Actor{UserID: client.UserID, Login: callerLogin},
		events.TicketCreatedPayload{Code: ticket.Code, IssuedByClientID: client.ID})
	return ticket, nil
}

// ChangeStatusAsClient moves a ticket the caller owns to newStatus. Checks
// run in a fixed order: the ticket must exist, the move must be in the
// client transition table, and the caller must own the ticket. The write is
// a compare-and-swap on the version read here.
func (s *LifecycleService) ChangeStatusAsClient(ctx context.Context, callerLogin, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": string(newStatus)})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFound(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ClientTransitionAllowed(ticket.Status, newStatus) {
		return nil, apperrors.NewTransitionNotAllowed(string(ticket.Status), string(newStatus))
	}

	client, err := s.requireClient(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	if ticket.IssuedByClientID != client.ID {
		return nil, apperrors.NewTicketNotOwned(ticketID)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrentModification("ticket", ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket status changed by client",
		zap.String("ticket_id", ticket.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)))
	s.publish(ctx, events.EventTicketStatusChanged, ticket.ID,
		events.Actor{UserID: client.UserID, Login: callerLogin},
		events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus})
	return ticket, nil
}

// SelfAssign lets the calling agent pick up an unassigned RECEIVED ticket,
// moving it to PENDING. Whether the ticket is missing, already picked up, or
// lost to a concurrent pickup, the caller gets the same answer: not
// available. Exactly one of several racing agents wins.
func (s *LifecycleService) SelfAssign(ctx context.Context, callerLogin, ticketID string) (*domain.Ticket, error) {
	agent, err := s.requireAgent(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	sentinel, err := s.sentinelAgent(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFoundOrAlreadyAssigned(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.Status != domain.TicketStatusReceived || ticket.AssignedToAgentID != sentinel.ID {
		return nil, apperrors.NewTicketNotFoundOrAlreadyAssigned(ticketID)
	}

	ticket.Status = domain.TicketStatusPending
	ticket.AssignedToAgentID = agent.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewTicketNotFoundOrAlreadyAssigned(ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket self-assigned",
		zap.String("ticket_id", ticket.ID),
		zap.String("agent_id", agent.ID))
	s.publish(ctx, events.EventTicketAssigned, ticket.ID,
		events.Actor{UserID: agent.UserID, Login: callerLogin},
		events.TicketAssignedPayload{AgentID: agent.ID, NewStatus: ticket.Status})
	return ticket, nil
}

// AdminAssign hands a RECEIVED ticket to a specific agent and moves it to
// BEING_TREATED. The ticket and agent are checked in that order.
func (s *LifecycleService) AdminAssign(ctx context.Context, callerLogin, ticketID, agentID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFound(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	agent, err := s.directory.FindAgentByID(ctx, agentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewAgentNotFound(agentID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	sentinel, err := s.sentinelAgent(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.Status != domain.TicketStatusReceived || ticket.AssignedToAgentID != sentinel.ID {
		return nil, apperrors.NewTicketAlreadyAssigned(ticketID)
	}

	ticket.Status = domain.TicketStatusBeingTreated
	ticket.AssignedToAgentID = agent.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrentModification("ticket", ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("ticket assigned by admin",
		zap.String("ticket_id", ticket.ID),
		zap.String("agent_id", agent.ID),
		zap.String("assigned_by", callerLogin))
	s.publish(ctx, events.EventTicketAssigned, ticket.ID,
		events.Actor{Login: callerLogin},
		events.TicketAssignedPayload{AgentID: agent.ID, NewStatus: ticket.Status})
	return ticket, nil
}

// IsClientTurn reports whether the next message on the ticket belongs to the
// client. A missing ticket yields false, not an error.
func (s *LifecycleService) IsClientTurn(ctx context.Context, ticketID string) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return ClientTurn(ticket.Status), nil
}

// SendClientMessage appends a message from the owning client. It is only
// accepted on the client's turn and always pushes the ticket back to
// BEING_TREATED; message append and status change commit together.
func (s *LifecycleService) SendClientMessage(ctx context.Context, callerLogin, ticketID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content must not be blank", map[string]any{"field": "content"})
	}

	client, err := s.requireClient(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFoundOrNotOwned(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.IssuedByClientID != client.ID {
		return nil, apperrors.NewTicketNotFoundOrNotOwned(ticketID)
	}
	if !ClientTurn(ticket.Status) {
		return nil, apperrors.NewNotClientTurn(ticketID)
	}

	ticket.Status = domain.TicketStatusBeingTreated
	msg := &domain.Message{
		SentByUserID: client.UserID,
		Content:      content,
		SentAt:       time.Now(),
	}
	if err := s.tickets.UpdateWithMessage(ctx, ticket, msg); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrentModification("ticket", ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("client message sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("message_id", msg.ID))
	s.publish(ctx, events.EventMessageSent, ticket.ID,
		events.Actor{UserID: client.UserID, Login: callerLogin},
		events.MessageSentPayload{MessageID: msg.ID, SentBy: client.UserID, NewStatus: ticket.Status})
	return msg, nil
}

// SendAgentMessage appends a message from the assigned agent. The agent must
// hold the turn and newStatus must be reachable from the current status in
// the agent transition table; the message carries the ticket into newStatus.
func (s *LifecycleService) SendAgentMessage(ctx context.Context, callerLogin, ticketID, content string, newStatus domain.TicketStatus) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("message content must not be blank", map[string]any{"field": "content"})
	}
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": string(newStatus)})
	}

	agent, err := s.requireAgent(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFoundOrNotAssigned(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.AssignedToAgentID != agent.ID {
		return nil, apperrors.NewTicketNotFoundOrNotAssigned(ticketID)
	}
	if ClientTurn(ticket.Status) {
		return nil, apperrors.NewNotAgentTurn(ticketID)
	}
	if !AgentTransitionAllowed(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	ticket.Status = newStatus
	msg := &domain.Message{
		SentByUserID: agent.UserID,
		Content:      content,
		SentAt:       time.Now(),
	}
	if err := s.tickets.UpdateWithMessage(ctx, ticket, msg); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrentModification("ticket", ticketID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("agent message sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("message_id", msg.ID),
		zap.String("new_status", string(newStatus)))
	s.publish(ctx, events.EventMessageSent, ticket.ID,
		events.Actor{UserID: agent.UserID, Login: callerLogin},
		events.MessageSentPayload{MessageID: msg.ID, SentBy: agent.UserID, NewStatus: newStatus})
	return msg, nil
}

// ListUnassigned returns tickets still waiting for pickup.
func (s *LifecycleService) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByStatus(ctx, domain.TicketStatusReceived)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// ListAssigned returns tickets currently being worked, across all agents.
func (s *LifecycleService) ListAssigned(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByStatusNotIn(ctx, notAssignedStatuses)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// CountAssigned counts tickets currently being worked, across all agents.
func (s *LifecycleService) CountAssigned(ctx context.Context) (int64, error) {
	count, err := s.tickets.CountByStatusNotIn(ctx, notAssignedStatuses)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}

// ListAssignedToAgent returns the calling agent's tickets still being worked;
// closed tickets drop out of the view.
func (s *LifecycleService) ListAssignedToAgent(ctx context.Context, callerLogin string) ([]domain.Ticket, error) {
	agent, err := s.requireAgent(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByAssignedAgentAndStatusNotIn(ctx, agent.ID, notAssignedStatuses)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// CountAssignedToAgent counts the calling agent's tickets still being worked.
func (s *LifecycleService) CountAssignedToAgent(ctx context.Context, callerLogin string) (int64, error) {
	agent, err := s.requireAgent(ctx, callerLogin)
	if err != nil {
		return 0, err
	}
	count, err := s.tickets.CountByAssignedAgentAndStatusNotIn(ctx, agent.ID, notAssignedStatuses)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}

// ListMineAsClient returns every ticket the calling client has issued.
func (s *LifecycleService) ListMineAsClient(ctx context.Context, callerLogin string) ([]domain.Ticket, error) {
	client, err := s.requireClient(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByOwner(ctx, client.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// GetOwnedTicket loads a ticket the calling client issued. Missing and
// not-owned are indistinguishable to the caller.
func (s *LifecycleService) GetOwnedTicket(ctx context.Context, callerLogin, ticketID string) (*domain.Ticket, error) {
	client, err := s.requireClient(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFoundOrNotOwned(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.IssuedByClientID != client.ID {
		return nil, apperrors.NewTicketNotFoundOrNotOwned(ticketID)
	}
	return ticket, nil
}

// GetAssignedTicket loads a ticket assigned to the calling agent. Missing
// and assigned-elsewhere are indistinguishable to the caller.
func (s *LifecycleService) GetAssignedTicket(ctx context.Context, callerLogin, ticketID string) (*domain.Ticket, error) {
	agent, err := s.requireAgent(ctx, callerLogin)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewTicketNotFoundOrNotAssigned(ticketID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ticket.AssignedToAgentID != agent.ID {
		return nil, apperrors.NewTicketNotFoundOrNotAssigned(ticketID)
	}
	return ticket, nil
}

// ListMessagesAsClient returns a ticket's conversation, oldest first, for
// the owning client.
func (s *LifecycleService) ListMessagesAsClient(ctx context.Context, callerLogin, ticketID string) ([]domain.Message, error) {
	if _, err := s.GetOwnedTicket(ctx, callerLogin, ticketID); err != nil {
		return nil, err
	}
	return s.listMessages(ctx, ticketID)
}

// ListMessagesAsAgent returns a ticket's conversation, oldest first, for the
// assigned agent.
func (s *LifecycleService) ListMessagesAsAgent(ctx context.Context, callerLogin, ticketID string) ([]domain.Message, error) {
	if _, err := s.GetAssignedTicket(ctx, callerLogin, ticketID); err != nil {
		return nil, err
	}
	return s.listMessages(ctx, ticketID)
}

// IsIssuedByClient reports whether the ticket was opened by the given
// client. Missing ticket yields false.
func (s *LifecycleService) IsIssuedByClient(ctx context.Context, ticketID, clientID string) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return ticket.IssuedByClientID == clientID, nil
}

// IsIssuedByUser reports whether the ticket was opened by the client profile
// of the given login. False when the ticket or the profile does not exist.
func (s *LifecycleService) IsIssuedByUser(ctx context.Context, ticketID, login string) (bool, error) {
	client, err := s.directory.FindClientByLogin(ctx, login)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return s.IsIssuedByClient(ctx, ticketID, client.ID)
}

// IsIssuedByUserID reports whether the ticket's issuing client is backed by
// the given user account. False when the ticket or the client is missing.
func (s *LifecycleService) IsIssuedByUserID(ctx context.Context, ticketID, userID string) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	client, err := s.directory.FindClientByID(ctx, ticket.IssuedByClientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return client.UserID == userID, nil
}

// IsAssignedToAgent reports whether the ticket is assigned to the given
// agent. Missing ticket yields false.
func (s *LifecycleService) IsAssignedToAgent(ctx context.Context, ticketID, agentID string) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return ticket.AssignedToAgentID == agentID, nil
}

// IsAssignedToUser reports whether the ticket is assigned to the agent
// profile of the given login. False when the ticket or the profile does not
// exist.
func (s *LifecycleService) IsAssignedToUser(ctx context.Context, ticketID, login string) (bool, error) {
	agent, err := s.directory.FindAgentByLogin(ctx, login)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return s.IsAssignedToAgent(ctx, ticketID, agent.ID)
}

// IsAssignedToUserID reports whether the ticket's assignee is backed by the
// given user account. False when the ticket or the agent is missing.
func (s *LifecycleService) IsAssignedToUserID(ctx context.Context, ticketID, userID string) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	agent, err := s.directory.FindAgentByID(ctx, ticket.AssignedToAgentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return agent.UserID == userID, nil
}

func (s *LifecycleService) listMessages(ctx context.Context, ticketID string) ([]domain.Message, error) {
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return msgs, nil
}

func (s *LifecycleService) requireClient(ctx context.Context, login string) (*domain.Client, error) {
	client, err := s.directory.FindClientByLogin(ctx, login)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewForbidden("requester has no client profile")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return client, nil
}

func (s *LifecycleService) requireAgent(ctx context.Context, login string) (*domain.Agent, error) {
	agent, err := s.directory.FindAgentByLogin(ctx, login)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewForbidden("requester has no agent profile")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return agent, nil
}

// sentinelAgent resolves the placeholder agent, creating it if a fresh
// database has not been seeded yet.
func (s *LifecycleService) sentinelAgent(ctx context.Context) (*domain.Agent, error) {
	agent, err := s.directory.FindAgentByLogin(ctx, domain.SentinelAgentLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.directory.EnsureSentinelAgent(ctx)
	}
	return agent, err
}

func (s *LifecycleService) publish(ctx context.Context, eventType events.EventType, ticketID string, actor events.Actor, payload any) {
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(eventType)),
			zap.String("ticket_id", ticketID),
			zap.Error(err))
	}
}
