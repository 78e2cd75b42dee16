package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	IssueDescription string `json:"issue_description"`
	MessageContent   string `json:"message_content"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	NewStatus domain.TicketStatus `json:"new_status"`
}

// ClientMessageRequest payload.
type ClientMessageRequest struct {
	Content string `json:"content"`
}

// AgentMessageRequest carries the reply body and the status the ticket moves
// into with it.
type AgentMessageRequest struct {
	Content   string              `json:"content"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// AssignRequest payload.
type AssignRequest struct {
	AgentID string `json:"agent_id"`
}

// TicketResponse response.
type TicketResponse struct {
	ID                string              `json:"id"`
	Code              string              `json:"code"`
	Status            domain.TicketStatus `json:"status"`
	IssueDescription  string              `json:"issue_description"`
	IssuedAt          time.Time           `json:"issued_at"`
	IssuedByClientID  string              `json:"issued_by_client_id"`
	AssignedToAgentID string              `json:"assigned_to_agent_id"`
	ClientTurn        bool                `json:"client_turn"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// MessageResponse represents one conversation entry.
type MessageResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	SentByUserID string    `json:"sent_by_user_id"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sent_at"`
}
