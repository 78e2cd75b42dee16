package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const minPasswordLength = 4

// AuthService handles account registration, login and password management.
type AuthService struct {
	users     repository.UserRepository
	clients   repository.ClientRepository
	resets    repository.PasswordResetRepository
	directory *DirectoryService
	tokens    *auth.TokenManager
	cfg       config.AuthConfig
	logger    *zap.Logger
}

// AuthDependencies bundles dependencies for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	ClientRepo repository.ClientRepository
	ResetRepo  repository.PasswordResetRepository
	Directory  *DirectoryService
	Tokens     *auth.TokenManager
	Config     config.AuthConfig
	Logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:     deps.UserRepo,
		clients:   deps.ClientRepo,
		resets:    deps.ResetRepo,
		directory: deps.Directory,
		tokens:    deps.Tokens,
		cfg:       deps.Config,
		logger:    deps.Logger,
	}
}

// AuthResult carries a signed token and its owner.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterClient creates a user account with the CLIENT role and its client
// profile, then signs the new user in.
func (s *AuthService) RegisterClient(ctx context.Context, login, email, password, firstName, lastName string) (*AuthResult, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validateCredentials(login, email, password); err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, login, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser, domain.RoleClient},
		Activated:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	client := &domain.Client{
		UserID:    user.ID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("client registered", zap.String("login", login))
	return s.issueToken(user)
}

// CreateAgent creates a user account with the AGENT role and its agent
// profile. Reserved for administrators.
func (s *AuthService) CreateAgent(ctx context.Context, login, email, password, firstName, lastName string) (*domain.Agent, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validateCredentials(login, email, password); err != nil {
		return nil, err
	}
	if err := s.checkAvailable(ctx, login, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Login:        login,
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser, domain.RoleAgent},
		Activated:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	agent := &domain.Agent{
		UserID:    user.ID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
	}
	if err := s.directory.CreateAgent(ctx, agent); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("agent created", zap.String("login", login))
	return agent, nil
}

// Login authenticates by login or email and returns a signed token.
func (s *AuthService) Login(ctx context.Context, loginOrEmail, password string) (*AuthResult, error) {
	loginOrEmail = strings.ToLower(strings.TrimSpace(loginOrEmail))

	user, err := s.users.GetByLogin(ctx, loginOrEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = s.users.GetByEmail(ctx, loginOrEmail)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !user.Activated {
		return nil, apperrors.NewUnauthorized("account is deactivated")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	return s.issueToken(user)
}

// RequestPasswordReset issues a single-use reset token for the account
// behind the email. A missing account is not reported to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.PasswordResetTTLMinutes) * time.Minute),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.NewInternalError(err)
	}

	// Delivery is the notification worker's concern; here we only record it.
	s.logger.Info("password reset token issued", zap.String("user_id", user.ID))
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"field": "password"})
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("password reset confirmed", zap.String("user_id", user.ID))
	return nil
}

// ChangePassword replaces the caller's password after verifying the current
// one.
func (s *AuthService) ChangePassword(ctx context.Context, callerLogin, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"field": "new_password"})
	}

	user, err := s.users.GetByLogin(ctx, callerLogin)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password does not match")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("password changed", zap.String("login", callerLogin))
	return nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) validateCredentials(login, email, password string) error {
	if login == "" {
		return apperrors.NewValidationError("login must not be blank", map[string]any{"field": "login"})
	}
	if login == domain.SentinelAgentLogin {
		return apperrors.NewValidationError("login is reserved", map[string]any{"field": "login"})
	}
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("email is invalid", map[string]any{"field": "email"})
	}
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError("password too short", map[string]any{"field": "password"})
	}
	return nil
}

func (s *AuthService) checkAvailable(ctx context.Context, login, email string) error {
	if _, err := s.users.GetByLogin(ctx, login); err == nil {
		return apperrors.NewConflict("login already in use", map[string]any{"field": "login"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewInternalError(err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("email already in use", map[string]any{"field": "email"})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewInternalError(err)
	}
	return nil
}
