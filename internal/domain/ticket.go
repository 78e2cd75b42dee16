package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusReceived     TicketStatus = "RECEIVED"
	TicketStatusBeingTreated TicketStatus = "BEING_TREATED"
	TicketStatusPending      TicketStatus = "PENDING"
	TicketStatusDoNotTreat   TicketStatus = "DO_NOT_TREAT"
	TicketStatusTreated      TicketStatus = "TREATED"
	TicketStatusClosed       TicketStatus = "CLOSED"
)

// AllTicketStatuses lists every valid status value.
var AllTicketStatuses = []TicketStatus{
	TicketStatusReceived,
	TicketStatusBeingTreated,
	TicketStatusPending,
	TicketStatusDoNotTreat,
	TicketStatusTreated,
	TicketStatusClosed,
}

// IsValid reports whether s is a member of the status enum.
func (s TicketStatus) IsValid() bool {
	for _, candidate := range AllTicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for client-reported issues. Version is the
// optimistic-lock token: every successful update increments it, and writers
// must present the version they read.
type Ticket struct {
	ID                string
	Code              string
	Status            TicketStatus
	IssueDescription  string
	IssuedAt          time.Time
	IssuedByClientID  string
	AssignedToAgentID string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
