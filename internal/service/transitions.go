package service

import "github.com/spec-kit/helpdesk/internal/domain"

// The two transition tables are deliberately asymmetric: only a client
// request can terminate a ticket straight from RECEIVED, and only the agent
// flow can move a ticket into PENDING. CLOSED has no outgoing edges in
// either table. Both tables are immutable after process start.

// clientTransitions gates status changes requested by the ticket's owner.
var clientTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReceived:   {domain.TicketStatusClosed},
	domain.TicketStatusDoNotTreat: {domain.TicketStatusClosed},
	domain.TicketStatusTreated:    {domain.TicketStatusClosed, domain.TicketStatusBeingTreated},
}

// agentTransitions gates status changes carried by agent message sends.
var agentTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusBeingTreated: {domain.TicketStatusPending, domain.TicketStatusDoNotTreat},
	domain.TicketStatusPending:      {domain.TicketStatusClosed},
	domain.TicketStatusDoNotTreat:   {domain.TicketStatusClosed},
	domain.TicketStatusTreated:      {domain.TicketStatusClosed},
}

// ClientTransitionAllowed reports whether a client may move a ticket from
// one status to another.
func ClientTransitionAllowed(from, to domain.TicketStatus) bool {
	return transitionAllowed(clientTransitions, from, to)
}

// AgentTransitionAllowed reports whether an agent message may move a ticket
// from one status to another.
func AgentTransitionAllowed(from, to domain.TicketStatus) bool {
	return transitionAllowed(agentTransitions, from, to)
}

func transitionAllowed(table map[domain.TicketStatus][]domain.TicketStatus, from, to domain.TicketStatus) bool {
	for _, candidate := range table[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ClientTurn reports whether the ticket status puts the next message on the
// client's side. TREATED and PENDING await the client; every other status
// means the agent (or nobody, for RECEIVED and CLOSED) speaks next.
func ClientTurn(status domain.TicketStatus) bool {
	return status == domain.TicketStatusTreated || status == domain.TicketStatusPending
}
