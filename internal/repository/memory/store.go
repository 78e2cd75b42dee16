// Package memory provides in-memory implementations of the repository
// interfaces. They back service-level tests and mirror the Postgres
// implementations' semantics, including the ticket version check.
package memory

import (
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Store bundles the in-memory repositories over shared state.
type Store struct {
	tickets  *ticketRepository
	messages *messageRepository
	users    *userRepository
	clients  *clientRepository
	agents   *agentRepository
	resets   *passwordResetRepository
}

// NewStore initializes an empty store.
func NewStore() *Store {
	s := &Store{
		tickets:  newTicketRepository(),
		messages: newMessageRepository(),
		users:    newUserRepository(),
		clients:  newClientRepository(),
		agents:   newAgentRepository(),
		resets:   newPasswordResetRepository(),
	}
	s.tickets.bind(s)
	s.clients.bind(s)
	s.agents.bind(s)
	return s
}

func (s *Store) Tickets() repository.TicketRepository   { return s.tickets }
func (s *Store) Messages() repository.MessageRepository { return s.messages }
func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Clients() repository.ClientRepository   { return s.clients }
func (s *Store) Agents() repository.AgentRepository     { return s.agents }

func (s *Store) PasswordResets() repository.PasswordResetRepository { return s.resets }
