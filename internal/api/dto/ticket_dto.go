package dto

import (
	"github.com/opsdesk/ticket-admin/internal/domain"
)

// TicketFieldView is one labelled field of the ticket detail pane.
type TicketFieldView struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
	// Display is the translated value.
	Display string `json:"display"`
	Badge   string `json:"badge,omitempty"`
}

// TicketDetailResponse is a ticket with translated labels and badges.
type TicketDetailResponse struct {
	domain.Ticket
	Description string            `json:"description"`
	DueDateText string            `json:"dueDateText"`
	Fields      []TicketFieldView `json:"fields"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest payload.
type AssignRequest struct {
	Assignee string `json:"assignee"`
}

// OpenBulkEditRequest starts a bulk edit for the selected tickets.
type OpenBulkEditRequest struct {
	TicketIDs []string `json:"ticketIds"`
}

// SubmitBulkEditRequest carries the bulk edit form. Blank values are ignored.
type SubmitBulkEditRequest struct {
	Values map[string]string `json:"values"`
}
