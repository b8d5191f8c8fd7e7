package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/api/dto"
	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/present"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/service"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// ticketSetParams maps list query parameters to ticket fields.
var ticketSetParams = map[string]string{
	"status":      domain.FieldStatus,
	"severity":    domain.FieldSeverity,
	"priority":    domain.FieldPriority,
	"category":    domain.FieldCategory,
	"environment": domain.FieldEnvironment,
	"assignee":    domain.FieldAssignee,
}

// TicketsHandler serves the ticket table and detail pane.
type TicketsHandler struct {
	service *service.TicketService
	tr      *i18n.Translator
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, tr *i18n.Translator) *TicketsHandler {
	return &TicketsHandler{service: ticketService, tr: tr}
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), service.TicketListInput{
		Criteria: parseCriteria(c, "due_from", "due_to", ticketSetParams),
		Previous: previousPager(c),
		Page:     parseInt(c.Query("page"), 0),
		PageSize: parseInt(c.Query("page_size"), query.DefaultPageSize),
		Selected: parseList(c.Query("selected")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

// Search GET /api/tickets/search?q=.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	tickets, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.detail(*ticket, requestLocale(c, h.tr))})
}

// UpdateStatus PATCH /api/tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.detail(*ticket, requestLocale(c, h.tr))})
}

// Assign PATCH /api/tickets/:id/assignee.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.detail(*ticket, requestLocale(c, h.tr))})
}

func (h *TicketsHandler) detail(t domain.Ticket, locale string) dto.TicketDetailResponse {
	dueText := t.DueDate
	if due, err := query.ParseDate(t.DueDate); err == nil {
		dueText = present.FormatDate(due, locale)
	}

	label := func(field string) string {
		v, _ := t.Field(field)
		return present.ValueLabel(h.tr, locale, field, v)
	}

	fields := make([]dto.TicketFieldView, 0, len(domain.TicketFieldOrder))
	for _, field := range domain.TicketFieldOrder {
		v, _ := t.Field(field)
		view := dto.TicketFieldView{
			Field:   field,
			Label:   present.FieldLabel(h.tr, locale, field),
			Value:   v,
			Display: present.ValueLabel(h.tr, locale, field, v),
		}
		switch field {
		case domain.FieldSeverity:
			view.Badge = present.SeverityBadge(t.Severity)
		case domain.FieldStatus:
			view.Badge = present.StatusBadge(t.Status)
		case domain.FieldPriority:
			view.Badge = present.PriorityBadge(t.Priority)
		case domain.FieldDueDate:
			view.Display = dueText
		}
		fields = append(fields, view)
	}

	return dto.TicketDetailResponse{
		Ticket: t,
		Description: h.tr.T(locale, "tickets.description", i18n.Params{
			"name":          t.Name,
			"assignee":      t.Assignee,
			"status":        label(domain.FieldStatus),
			"severity":      label(domain.FieldSeverity),
			"priority":      label(domain.FieldPriority),
			"category":      label(domain.FieldCategory),
			"environment":   label(domain.FieldEnvironment),
			"dueDate":       dueText,
			"estimatedTime": t.EstimatedTime,
		}),
		DueDateText: dueText,
		Fields:      fields,
	}
}
