package events

import (
	"time"

	"github.com/spec-kit/campus-issues/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventSessionStarted EventType = "session_started"
	EventSessionEnded   EventType = "session_ended"
	EventIssueSubmitted EventType = "issue_submitted"
	EventIssueReviewed  EventType = "issue_reviewed"
	EventIssueDeleted   EventType = "issue_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// ActorFromUser snapshots the acting user.
func ActorFromUser(u domain.User) Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// IssueSubmittedPayload payload.
type IssueSubmittedPayload struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// IssueReviewedPayload payload.
type IssueReviewedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
	Feedback  string             `json:"feedback,omitempty"`
}

// IssueDeletedPayload payload.
type IssueDeletedPayload struct {
	Removed int `json:"removed"`
}
