package auth_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("unit-secret", 15)
	user := &domain.User{
		ID:    "user-1",
		Login: "alice",
		Roles: []domain.Role{domain.RoleUser, domain.RoleClient},
	}

	token, expiresAt, err := tm.GenerateToken(user)
	gt.NoError(t, err).Required()
	gt.Bool(t, token != "").True()
	gt.Bool(t, expiresAt.IsZero()).False()

	claims, err := tm.ParseToken(token)
	gt.NoError(t, err).Required()
	gt.Value(t, claims.Subject).Equal("user-1")
	gt.Value(t, claims.Login).Equal("alice")
	gt.Array(t, claims.Roles).Length(2)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("unit-secret", 15)
	user := &domain.User{ID: "user-1", Login: "alice"}

	token, _, err := tm.GenerateToken(user)
	gt.NoError(t, err).Required()

	other := auth.NewTokenManager("different-secret", 15)
	_, err = other.ParseToken(token)
	gt.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := auth.NewTokenManager("unit-secret", 15)
	_, err := tm.ParseToken("not.a.token")
	gt.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("secret1", 4)
	gt.NoError(t, err).Required()
	gt.Bool(t, hash != "secret1").True()

	gt.NoError(t, auth.ComparePassword(hash, "secret1"))
	gt.Error(t, auth.ComparePassword(hash, "wrong"))
}
