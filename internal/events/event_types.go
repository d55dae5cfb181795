package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp  EventType = "user_signed_up"
	EventUserLoggedIn  EventType = "user_logged_in"
	EventGuestLoggedIn EventType = "guest_logged_in"
	EventLoginFailed   EventType = "login_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id,omitempty"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginPayload accompanies login events.
type LoginPayload struct {
	TokenExpiresAt time.Time `json:"token_expires_at,omitempty"`
	Reason         string    `json:"reason,omitempty"`
}
