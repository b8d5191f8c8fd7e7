package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/api/dto"
	"github.com/opsdesk/ticket-admin/internal/layout"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// LayoutHandler applies split-pane transitions. It holds no state.
type LayoutHandler struct{}

// NewLayoutHandler constructs handler.
func NewLayoutHandler() *LayoutHandler { return &LayoutHandler{} }

// Apply POST /api/layout.
func (h *LayoutHandler) Apply(c *fiber.Ctx) error {
	var req dto.LayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var next layout.State
	switch req.Action {
	case dto.LayoutInit:
		next = layout.Initial(req.Viewport)
	case dto.LayoutViewportResized:
		next = req.State.ViewportResized(req.Viewport)
	case dto.LayoutOpenTicket:
		if req.TicketID == "" {
			return apperrors.NewValidationError("ticketId required", nil)
		}
		next = req.State.OpenTicket(req.TicketID)
	case dto.LayoutCloseTicket:
		next = req.State.CloseTicket()
	case dto.LayoutResize:
		next = req.State.Resize(req.Width, req.Min, req.Max)
	case dto.LayoutToggleCollapse:
		next = req.State.ToggleCollapse()
	default:
		return apperrors.NewValidationError("unknown layout action", map[string]any{"action": req.Action})
	}
	return c.JSON(fiber.Map{"data": next})
}
