package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/options"
	apperrors "github.com/opsdesk/ticket-admin/pkg/util/errorutil"
)

// OptionsHandler serves dropdown lists.
type OptionsHandler struct {
	service *options.Service
}

// NewOptionsHandler constructs handler.
func NewOptionsHandler(svc *options.Service) *OptionsHandler {
	return &OptionsHandler{service: svc}
}

// All GET /api/options.
func (h *OptionsHandler) All(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.All(c.UserContext())})
}

// Category GET /api/options/:category.
func (h *OptionsHandler) Category(c *fiber.Ctx) error {
	category := c.Params("category")
	opts, err := h.service.Options(c.UserContext(), domain.OptionCategory(category))
	if errors.Is(err, options.ErrUnknownCategory) {
		return apperrors.NewNotFoundMessage("unknown option category "+category, map[string]any{"category": category})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": opts})
}

// Names GET /api/names/:kind.
func (h *OptionsHandler) Names(c *fiber.Ctx) error {
	kind := c.Params("kind")
	names, err := h.service.Names(c.UserContext(), domain.NameKind(kind))
	if errors.Is(err, options.ErrUnknownCategory) {
		return apperrors.NewNotFoundMessage("unknown name list "+kind, map[string]any{"kind": kind})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": names})
}
