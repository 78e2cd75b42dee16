package domain

import "time"

// Message is a single turn in a ticket conversation. Messages are
// append-only; they are never edited or removed through normal flow.
type Message struct {
	ID           string
	TicketID     string
	SentByUserID string
	Content      string
	SentAt       time.Time
	CreatedAt    time.Time
}
