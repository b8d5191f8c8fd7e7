package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/service"
)

// DBHandler exposes database initialisation.
type DBHandler struct {
	service *service.DBInitService
}

// NewDBHandler constructs handler.
func NewDBHandler(svc *service.DBInitService) *DBHandler {
	return &DBHandler{service: svc}
}

// Init POST /api/db/init creates tables then seeds them. Failures are
// reported in the body rather than as an error status.
func (h *DBHandler) Init(c *fiber.Ctx) error {
	res := h.service.Init(c.UserContext())
	status := fiber.StatusOK
	if !res.Success {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{"data": res})
}
