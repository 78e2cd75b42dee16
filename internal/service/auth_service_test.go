package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

type authFixture struct {
	store *memory.Store
	auth  *service.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := memory.NewStore()
	cfg := config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   15,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   store.Users(),
		ClientRepo: store.Clients(),
		ResetRepo:  store.PasswordResets(),
		Directory:  newDirectory(store),
		Tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		Config:     cfg,
		Logger:     zap.NewNop(),
	})
	return &authFixture{store: store, auth: authService}
}

func TestRegisterClientAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.auth.RegisterClient(ctx, "Alice", "Alice@Example.com", "secret1", "Alice", "Smith")
	gt.NoError(t, err).Required()
	gt.Value(t, result.User.Login).Equal("alice")
	gt.Value(t, result.User.Email).Equal("alice@example.com")
	gt.Bool(t, result.User.HasRole(domain.RoleClient)).True()
	gt.Bool(t, result.Token != "").True()

	client, err := f.store.Clients().GetByUserLogin(ctx, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, client.FirstName).Equal("Alice")

	byLogin, err := f.auth.Login(ctx, "alice", "secret1")
	gt.NoError(t, err).Required()
	gt.Value(t, byLogin.User.ID).Equal(result.User.ID)

	byEmail, err := f.auth.Login(ctx, "alice@example.com", "secret1")
	gt.NoError(t, err).Required()
	gt.Value(t, byEmail.User.ID).Equal(result.User.ID)

	_, err = f.auth.Login(ctx, "alice", "wrong")
	gt.Value(t, apperrors.CodeOf(err)).Equal("UNAUTHORIZED")
}

func TestRegisterClientValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.RegisterClient(ctx, "", "a@example.com", "secret1", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")

	_, err = f.auth.RegisterClient(ctx, "bob", "not-an-email", "secret1", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")

	_, err = f.auth.RegisterClient(ctx, "bob", "b@example.com", "abc", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")

	_, err = f.auth.RegisterClient(ctx, domain.SentinelAgentLogin, "s@example.com", "secret1", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("VALIDATION_FAILED")
}

func TestRegisterClientDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.RegisterClient(ctx, "alice", "alice@example.com", "secret1", "", "")
	gt.NoError(t, err).Required()

	_, err = f.auth.RegisterClient(ctx, "alice", "other@example.com", "secret1", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("CONFLICT")

	_, err = f.auth.RegisterClient(ctx, "alice2", "alice@example.com", "secret1", "", "")
	gt.Value(t, apperrors.CodeOf(err)).Equal("CONFLICT")
}

func TestCreateAgent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	agent, err := f.auth.CreateAgent(ctx, "bob", "bob@example.com", "secret1", "Bob", "Jones")
	gt.NoError(t, err).Required()
	gt.Bool(t, agent.ID != "").True()

	user, err := f.store.Users().GetByLogin(ctx, "bob")
	gt.NoError(t, err).Required()
	gt.Bool(t, user.HasRole(domain.RoleAgent)).True()
	gt.Bool(t, user.HasRole(domain.RoleClient)).False()
	gt.Value(t, agent.UserID).Equal(user.ID)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.RegisterClient(ctx, "alice", "alice@example.com", "secret1", "", "")
	gt.NoError(t, err).Required()

	err = f.auth.ChangePassword(ctx, "alice", "wrong", "newsecret")
	gt.Value(t, apperrors.CodeOf(err)).Equal("UNAUTHORIZED")

	gt.NoError(t, f.auth.ChangePassword(ctx, "alice", "secret1", "newsecret")).Required()

	_, err = f.auth.Login(ctx, "alice", "secret1")
	gt.Error(t, err)
	_, err = f.auth.Login(ctx, "alice", "newsecret")
	gt.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.auth.RegisterClient(ctx, "alice", "alice@example.com", "secret1", "", "")
	gt.NoError(t, err).Required()

	// Unknown emails are swallowed on purpose.
	gt.NoError(t, f.auth.RequestPasswordReset(ctx, "nobody@example.com"))

	token := &repository.PasswordResetToken{
		UserID:    result.User.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	gt.NoError(t, f.store.PasswordResets().Create(ctx, token)).Required()

	err = f.auth.ConfirmPasswordReset(ctx, "bogus-token", "newsecret")
	gt.Value(t, apperrors.CodeOf(err)).Equal("UNAUTHORIZED")

	gt.NoError(t, f.auth.ConfirmPasswordReset(ctx, token.Token, "newsecret")).Required()

	_, err = f.auth.Login(ctx, "alice", "newsecret")
	gt.NoError(t, err).Required()

	// Tokens are single use.
	err = f.auth.ConfirmPasswordReset(ctx, token.Token, "another")
	gt.Value(t, apperrors.CodeOf(err)).Equal("UNAUTHORIZED")
}

func TestExpiredResetToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	result, err := f.auth.RegisterClient(ctx, "alice", "alice@example.com", "secret1", "", "")
	gt.NoError(t, err).Required()

	token := &repository.PasswordResetToken{
		UserID:    result.User.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	gt.NoError(t, f.store.PasswordResets().Create(ctx, token)).Required()

	err = f.auth.ConfirmPasswordReset(ctx, token.Token, "newsecret")
	gt.Value(t, apperrors.CodeOf(err)).Equal("UNAUTHORIZED")
}
