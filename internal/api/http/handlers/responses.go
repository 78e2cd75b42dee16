package handlers

import (
	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                ticket.ID,
		Code:              ticket.Code,
		Status:            ticket.Status,
		IssueDescription:  ticket.IssueDescription,
		IssuedAt:          ticket.IssuedAt,
		IssuedByClientID:  ticket.IssuedByClientID,
		AssignedToAgentID: ticket.AssignedToAgentID,
		ClientTurn:        service.ClientTurn(ticket.Status),
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:           msg.ID,
		TicketID:     msg.TicketID,
		SentByUserID: msg.SentByUserID,
		Content:      msg.Content,
		SentAt:       msg.SentAt,
	}
}

func messageResponses(msgs []domain.Message) []dto.MessageResponse {
	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return items
}

func agentResponse(agent *domain.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:        agent.ID,
		UserID:    agent.UserID,
		FirstName: agent.FirstName,
		LastName:  agent.LastName,
		Email:     agent.Email,
	}
}
