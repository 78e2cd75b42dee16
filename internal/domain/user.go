package domain

import "time"

// Role enumerates authorities granted to user accounts.
type Role string

const (
	RoleUser   Role = "USER"
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
)

// User is the identity record the ticket lifecycle reads: id, login and
// role set. Credential fields are managed by the auth service only.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	Roles        []Role
	Activated    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given authority.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
