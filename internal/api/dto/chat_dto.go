package dto

import (
	"github.com/opsdesk/ticket-admin/internal/chat"
	"github.com/opsdesk/ticket-admin/internal/layout"
)

// ChatRequest is the conversation so far, oldest first.
type ChatRequest struct {
	Messages []chat.Message `json:"messages"`
}

// Layout actions.
const (
	LayoutInit            = "init"
	LayoutViewportResized = "viewportResized"
	LayoutOpenTicket      = "openTicket"
	LayoutCloseTicket     = "closeTicket"
	LayoutResize          = "resize"
	LayoutToggleCollapse  = "toggleCollapse"
)

// LayoutRequest applies one action to a layout state.
type LayoutRequest struct {
	State    layout.State `json:"state"`
	Action   string       `json:"action"`
	Viewport int          `json:"viewport,omitempty"`
	TicketID string       `json:"ticketId,omitempty"`
	Width    int          `json:"width,omitempty"`
	Min      int          `json:"min,omitempty"`
	Max      int          `json:"max,omitempty"`
}
