package events

import (
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketUpdated   EventType = "ticket_updated"
	EventBulkEditApplied EventType = "bulk_edit_applied"
	EventUserCreated     EventType = "user_created"
	EventUserDeleted     EventType = "user_deleted"
	EventUserRoleChanged EventType = "user_role_changed"
	EventPasswordReset   EventType = "password_reset"
	EventChatRoomViewed  EventType = "chat_room_viewed"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventUserLoggedOut   EventType = "user_logged_out"
)

// Ticket update sources.
const (
	SourceSingle = "single"
	SourceBulk   = "bulk"
	SourceChat   = "chat"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	IPAddress string      `json:"ip_address,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRef is a compact user reference carried in payloads.
type UserRef struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role,omitempty"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	TicketID string            `json:"ticket_id"`
	Source   string            `json:"source"`
	Changes  map[string]string `json:"changes"`
}

// BulkEditAppliedPayload payload.
type BulkEditAppliedPayload struct {
	SessionID string   `json:"session_id"`
	Fields    []string `json:"fields"`
	TicketIDs []string `json:"ticket_ids"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	User UserRef `json:"user"`
}

// UserDeletedPayload payload.
type UserDeletedPayload struct {
	Users []UserRef `json:"users"`
}

// UserRoleChangedPayload payload. Users carry the role they had before the change.
type UserRoleChangedPayload struct {
	Users []UserRef   `json:"users"`
	Role  domain.Role `json:"role"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	User UserRef `json:"user"`
}

// ChatRoomViewedPayload payload.
type ChatRoomViewedPayload struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
}

// SessionPayload is carried by login and logout events.
type SessionPayload struct {
	User UserRef `json:"user"`
}
