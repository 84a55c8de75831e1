package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventPasswordChanged   EventType = "password_changed"
	EventBookCreated       EventType = "book_created"
	EventBookDeleted       EventType = "book_deleted"
	EventReviewAdded       EventType = "review_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, actor string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountPayload describes account lifecycle events.
type AccountPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// BookPayload describes catalog changes.
type BookPayload struct {
	BookID int64  `json:"book_id"`
	Title  string `json:"title,omitempty"`
}

// ReviewAddedPayload payload.
type ReviewAddedPayload struct {
	ReviewID int64 `json:"review_id"`
	BookID   int64 `json:"book_id"`
	Rating   int   `json:"rating"`
}
