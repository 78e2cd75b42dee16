package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
)

func newDirectory(store *memory.Store) *service.DirectoryService {
	return service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:   store.Users(),
		ClientRepo: store.Clients(),
		AgentRepo:  store.Agents(),
	})
}

func TestEnsureSentinelAgentIdempotent(t *testing.T) {
	store := memory.NewStore()
	directory := newDirectory(store)
	ctx := context.Background()

	first, err := directory.EnsureSentinelAgent(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, first.ID != "").True()

	second, err := directory.EnsureSentinelAgent(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, second.ID).Equal(first.ID)
	gt.Value(t, second.UserID).Equal(first.UserID)

	user, err := store.Users().GetByLogin(ctx, domain.SentinelAgentLogin)
	gt.NoError(t, err).Required()
	gt.Bool(t, user.HasRole(domain.RoleUser)).True()
	gt.Bool(t, user.HasRole(domain.RoleAgent)).True()
	gt.Bool(t, user.Activated).True()
}

func TestDirectoryLookups(t *testing.T) {
	store := memory.NewStore()
	directory := newDirectory(store)
	ctx := context.Background()

	user := &domain.User{
		Login:     "bob",
		Email:     "bob@example.com",
		Roles:     []domain.Role{domain.RoleUser, domain.RoleAgent},
		Activated: true,
	}
	gt.NoError(t, store.Users().Create(ctx, user)).Required()

	agent := &domain.Agent{UserID: user.ID, FirstName: "Bob", Email: user.Email}
	gt.NoError(t, directory.CreateAgent(ctx, agent)).Required()

	byLogin, err := directory.FindAgentByLogin(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Value(t, byLogin.ID).Equal(agent.ID)

	byID, err := directory.FindAgentByID(ctx, agent.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, byID.UserID).Equal(user.ID)

	_, err = directory.FindClientByLogin(ctx, "bob")
	gt.Error(t, err)
}
