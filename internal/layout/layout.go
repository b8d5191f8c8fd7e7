// Package layout models the split-pane layout of the admin console: a chat
// pane on the left and the ticket workspace on the right.
package layout

const (
	// InitialRatio is the chat pane share of the viewport before any ticket is opened.
	InitialRatio = 0.8
	// TicketRatio is the chat pane share once the first ticket is opened.
	TicketRatio = 0.3

	MinWidth     = 250
	MaxWidth     = 600
	DefaultWidth = 350
)

// State is the layout value object. Every operation returns a new State.
type State struct {
	ViewportWidth  int    `json:"viewportWidth"`
	LeftWidth      int    `json:"leftWidth"`
	TicketView     bool   `json:"ticketView"`
	ActiveTicketID string `json:"activeTicketId,omitempty"`
	InitialLoad    bool   `json:"initialLoad"`
	Collapsed      bool   `json:"collapsed"`
	PrevWidth      int    `json:"prevWidth"`
}

// Initial returns the layout for a freshly loaded console.
func Initial(viewport int) State {
	return State{
		ViewportWidth: viewport,
		LeftWidth:     share(viewport, InitialRatio),
		InitialLoad:   true,
		PrevWidth:     DefaultWidth,
	}
}

// ViewportResized records a new viewport width. The chat pane follows the
// viewport only while the initial load is active.
func (s State) ViewportResized(viewport int) State {
	s.ViewportWidth = viewport
	if s.InitialLoad {
		s.LeftWidth = share(viewport, InitialRatio)
	}
	return s
}

// OpenTicket shows a ticket. The first switch into ticket view ends the
// initial load and shrinks the chat pane.
func (s State) OpenTicket(id string) State {
	s.ActiveTicketID = id
	s.TicketView = true
	if s.InitialLoad {
		s.InitialLoad = false
		s.LeftWidth = share(s.ViewportWidth, TicketRatio)
	}
	return s
}

// CloseTicket leaves ticket view without touching the pane width.
func (s State) CloseTicket() State {
	s.ActiveTicketID = ""
	s.TicketView = false
	return s
}

// Resize applies a drag of the divider, clamped to [min, max]. Non-positive
// bounds use MinWidth and MaxWidth.
func (s State) Resize(width, min, max int) State {
	if min <= 0 {
		min = MinWidth
	}
	if max <= 0 {
		max = MaxWidth
	}
	if width < min {
		width = min
	}
	if width > max {
		width = max
	}
	s.LeftWidth = width
	s.Collapsed = false
	return s
}

// ToggleCollapse hides the chat pane, remembering its width, or restores it.
func (s State) ToggleCollapse() State {
	if s.Collapsed {
		s.LeftWidth = s.PrevWidth
		s.Collapsed = false
		return s
	}
	if s.LeftWidth > 0 {
		s.PrevWidth = s.LeftWidth
	} else if s.PrevWidth == 0 {
		s.PrevWidth = DefaultWidth
	}
	s.LeftWidth = 0
	s.Collapsed = true
	return s
}

func share(viewport int, ratio float64) int {
	if viewport <= 0 {
		return 0
	}
	return int(float64(viewport) * ratio)
}
