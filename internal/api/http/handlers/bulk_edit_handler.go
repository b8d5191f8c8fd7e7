package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/api/dto"
	"github.com/opsdesk/ticket-admin/internal/service"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// BulkEditHandler drives bulk edit sessions.
type BulkEditHandler struct {
	service *service.BulkEditService
}

// NewBulkEditHandler constructs handler.
func NewBulkEditHandler(svc *service.BulkEditService) *BulkEditHandler {
	return &BulkEditHandler{service: svc}
}

// Open POST /api/bulk-edits.
func (h *BulkEditHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenBulkEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.Open(c.UserContext(), req.TicketIDs)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": view})
}

// Get GET /api/bulk-edits/:id.
func (h *BulkEditHandler) Get(c *fiber.Ctx) error {
	return h.respond(c, h.service.Get)
}

// Submit POST /api/bulk-edits/:id/submit.
func (h *BulkEditHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitBulkEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.Submit(c.UserContext(), c.Params("id"), req.Values)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Back POST /api/bulk-edits/:id/back.
func (h *BulkEditHandler) Back(c *fiber.Ctx) error {
	return h.respond(c, h.service.Back)
}

// Reset POST /api/bulk-edits/:id/reset.
func (h *BulkEditHandler) Reset(c *fiber.Ctx) error {
	return h.respond(c, h.service.ResetForm)
}

// Confirm POST /api/bulk-edits/:id/confirm.
func (h *BulkEditHandler) Confirm(c *fiber.Ctx) error {
	return h.respond(c, h.service.Confirm)
}

// Retry POST /api/bulk-edits/:id/retry.
func (h *BulkEditHandler) Retry(c *fiber.Ctx) error {
	return h.respond(c, h.service.Retry)
}

// Complete POST /api/bulk-edits/:id/complete.
func (h *BulkEditHandler) Complete(c *fiber.Ctx) error {
	return h.respond(c, h.service.Complete)
}

// Close DELETE /api/bulk-edits/:id.
func (h *BulkEditHandler) Close(c *fiber.Ctx) error {
	return h.respond(c, h.service.Close)
}

// ToggleExpand POST /api/bulk-edits/:id/expand/:ticketId.
func (h *BulkEditHandler) ToggleExpand(c *fiber.Ctx) error {
	view, err := h.service.ToggleExpand(c.UserContext(), c.Params("id"), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

type sessionOp func(ctx context.Context, id string) (*service.BulkEditView, error)

func (h *BulkEditHandler) respond(c *fiber.Ctx, op sessionOp) error {
	view, err := op(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}
