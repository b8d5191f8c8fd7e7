package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/i18n"
	"github.com/opsdesk/ticket-admin/internal/query"
	"github.com/opsdesk/ticket-admin/internal/service"
)

var activitySetParams = map[string]string{
	"user":   service.ActivityFieldUser,
	"action": service.ActivityFieldAction,
}

// ActivityLogsHandler serves the audit trail.
type ActivityLogsHandler struct {
	service *service.ActivityLogService
	tr      *i18n.Translator
}

// NewActivityLogsHandler constructs handler.
func NewActivityLogsHandler(svc *service.ActivityLogService, tr *i18n.Translator) *ActivityLogsHandler {
	return &ActivityLogsHandler{service: svc, tr: tr}
}

// List GET /api/activity-logs.
func (h *ActivityLogsHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), service.ActivityLogListInput{
		Criteria: parseCriteria(c, "from", "to", activitySetParams),
		Previous: previousPager(c),
		Page:     parseInt(c.Query("page"), 0),
		PageSize: parseInt(c.Query("page_size"), query.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

// Export GET /api/activity-logs/export streams the filtered trail as CSV.
func (h *ActivityLogsHandler) Export(c *fiber.Ctx) error {
	exp, err := h.service.Export(c.UserContext(), parseCriteria(c, "from", "to", activitySetParams), requestLocale(c, h.tr))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	c.Set("X-Export-Count", fmt.Sprint(exp.Count))
	return c.Send(exp.Data)
}
