package service_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

type statusPair struct {
	from domain.TicketStatus
	to   domain.TicketStatus
}

func TestClientTransitions(t *testing.T) {
	allowed := map[statusPair]bool{
		{domain.TicketStatusReceived, domain.TicketStatusClosed}:      true,
		{domain.TicketStatusDoNotTreat, domain.TicketStatusClosed}:    true,
		{domain.TicketStatusTreated, domain.TicketStatusClosed}:       true,
		{domain.TicketStatusTreated, domain.TicketStatusBeingTreated}: true,
	}

	for _, from := range domain.AllTicketStatuses {
		for _, to := range domain.AllTicketStatuses {
			got := service.ClientTransitionAllowed(from, to)
			want := allowed[statusPair{from, to}]
			if got != want {
				t.Errorf("client transition %s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestAgentTransitions(t *testing.T) {
	allowed := map[statusPair]bool{
		{domain.TicketStatusBeingTreated, domain.TicketStatusPending}:    true,
		{domain.TicketStatusBeingTreated, domain.TicketStatusDoNotTreat}: true,
		{domain.TicketStatusPending, domain.TicketStatusClosed}:          true,
		{domain.TicketStatusDoNotTreat, domain.TicketStatusClosed}:       true,
		{domain.TicketStatusTreated, domain.TicketStatusClosed}:          true,
	}

	for _, from := range domain.AllTicketStatuses {
		for _, to := range domain.AllTicketStatuses {
			got := service.AgentTransitionAllowed(from, to)
			want := allowed[statusPair{from, to}]
			if got != want {
				t.Errorf("agent transition %s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	for _, to := range domain.AllTicketStatuses {
		gt.Bool(t, service.ClientTransitionAllowed(domain.TicketStatusClosed, to)).False()
		gt.Bool(t, service.AgentTransitionAllowed(domain.TicketStatusClosed, to)).False()
	}
}

func TestClientTurn(t *testing.T) {
	gt.Bool(t, service.ClientTurn(domain.TicketStatusTreated)).True()
	gt.Bool(t, service.ClientTurn(domain.TicketStatusPending)).True()
	gt.Bool(t, service.ClientTurn(domain.TicketStatusReceived)).False()
	gt.Bool(t, service.ClientTurn(domain.TicketStatusBeingTreated)).False()
	gt.Bool(t, service.ClientTurn(domain.TicketStatusDoNotTreat)).False()
	gt.Bool(t, service.ClientTurn(domain.TicketStatusClosed)).False()
}
