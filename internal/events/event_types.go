package events

import (
	"time"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketTransferred     EventType = "ticket_transferred"
	EventTicketNoteAdded       EventType = "ticket_note_added"
	EventTicketDeleted         EventType = "ticket_deleted"
	EventUserCreated           EventType = "user_created"
	EventUserUpdated           EventType = "user_updated"
	EventUserDeleted           EventType = "user_deleted"
)

// Topic groups event types for consumers that only care that something changed.
type Topic string

const (
	TopicTickets Topic = "tickets"
	TopicUsers   Topic = "users"
)

// Topic returns the group an event type belongs to.
func (t EventType) Topic() Topic {
	switch t {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		return TopicUsers
	default:
		return TopicTickets
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a change emitted by services. SubjectID is the ticket or
// user the change applies to.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Number   string                `json:"number"`
	Category domain.Category       `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
	Title    string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
}

// TicketTransferredPayload payload.
type TicketTransferredPayload struct {
	FromCategory domain.Category `json:"from_category"`
	ToCategory   domain.Category `json:"to_category"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	NoteID      string `json:"note_id"`
	IsSystem    bool   `json:"is_system"`
	TextPreview string `json:"text_preview"`
}

// UserChangedPayload payload.
type UserChangedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
