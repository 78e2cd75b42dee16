package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[string]*domain.Message
}

func newMessageRepository() *messageRepository {
	return &messageRepository{messages: make(map[string]*domain.Message)}
}

func (r *messageRepository) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()

	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *messageRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Message
	for _, stored := range r.messages {
		if stored.TicketID == ticketID {
			result = append(result, *stored)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SentAt.Before(result[j].SentAt)
	})
	return result, nil
}
