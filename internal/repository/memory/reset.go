package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/repository"
)

type passwordResetRepository struct {
	mu     sync.RWMutex
	tokens map[string]*repository.PasswordResetToken
}

func newPasswordResetRepository() *passwordResetRepository {
	return &passwordResetRepository{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *passwordResetRepository) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()

	stored := *token
	r.tokens[token.ID] = &stored
	return nil
}

func (r *passwordResetRepository) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.tokens {
		if stored.Token == tokenStr {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *passwordResetRepository) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	stored.UsedAt = &now
	return nil
}
