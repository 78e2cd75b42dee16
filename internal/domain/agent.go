package domain

import "time"

// SentinelAgentLogin is the login of the placeholder agent that holds every
// ticket nobody has picked up yet.
const SentinelAgentLogin = "no_agent"

// Agent models a support staff member who can be assigned tickets. Each
// agent is backed by exactly one user account carrying the AGENT role.
type Agent struct {
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
