package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/service"
)

var chatRoomSetParams = map[string]string{
	"user": service.ChatFieldUser,
	"type": service.ChatFieldType,
	"role": service.ChatFieldRole,
}

// ChatRoomsHandler serves the chat audit pages.
type ChatRoomsHandler struct {
	service *service.ChatAuditService
}

// NewChatRoomsHandler constructs handler.
func NewChatRoomsHandler(svc *service.ChatAuditService) *ChatRoomsHandler {
	return &ChatRoomsHandler{service: svc}
}

// Rooms GET /api/chat-rooms.
func (h *ChatRoomsHandler) Rooms(c *fiber.Ctx) error {
	res, err := h.service.Rooms(c.UserContext(), parseCriteria(c, "from", "to", chatRoomSetParams))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

// Messages GET /api/chat-rooms/:id/messages.
func (h *ChatRoomsHandler) Messages(c *fiber.Ctx) error {
	res, err := h.service.Messages(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}
