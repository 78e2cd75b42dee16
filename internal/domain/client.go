package domain

import "time"

// Client models an end-user who opens tickets. Each client is backed by
// exactly one user account carrying the CLIENT role.
type Client struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
